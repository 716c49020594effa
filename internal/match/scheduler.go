package match

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/albapepper/fivea/internal/teams"
)

// Repository is the match persistence the processor needs. *Store
// implements it.
type Repository interface {
	GetPending(ctx context.Context, limit, maxAttempts int) ([]Row, error)
	GetByID(ctx context.Context, id int64) (*Row, error)
	MarkGenerated(ctx context.Context, id int64, res *teams.Result) error
	RecordFailure(ctx context.Context, id int64, errMsg string) error
}

// PlayerSource resolves player ids. *store.Players implements it.
type PlayerSource interface {
	GetMany(ctx context.Context, ids []string) ([]teams.Player, error)
}

// Processor generates teams for stored matches.
type Processor struct {
	repo     Repository
	players  PlayerSource
	recorder teams.Recorder
	logger   *slog.Logger
}

// NewProcessor creates a processor. recorder may be nil.
func NewProcessor(repo Repository, players PlayerSource, recorder teams.Recorder, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{repo: repo, players: players, recorder: recorder, logger: logger}
}

// Options bounds one ProcessPending run.
type Options struct {
	MaxMatches  int
	MaxAttempts int
	Workers     int
}

// ProcessPending generates every pending match, up to opts.MaxMatches, with
// at most opts.Workers generations in flight.
func (p *Processor) ProcessPending(ctx context.Context, opts Options) RunResult {
	start := time.Now()
	var result RunResult

	pending, err := p.repo.GetPending(ctx, opts.MaxMatches, opts.MaxAttempts)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		result.Duration = time.Since(start)
		return result
	}

	result.MatchesFound = len(pending)
	if len(pending) == 0 {
		p.logger.Info("No pending matches")
		result.Duration = time.Since(start)
		return result
	}

	p.logger.Info("Found pending matches", "count", len(pending))

	workers := opts.Workers
	if workers < 1 {
		workers = defaultWorkers
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, m := range pending {
		g.Go(func() error {
			o := p.Process(gctx, m)

			mu.Lock()
			defer mu.Unlock()
			result.Outcomes = append(result.Outcomes, o)
			result.MatchesProcessed++
			if o.Success {
				result.MatchesSucceeded++
				if o.Fallback {
					result.Fallbacks++
				}
			} else {
				result.MatchesFailed++
				result.Errors = append(result.Errors, fmt.Sprintf("match %d: %s", o.MatchID, o.Error))
			}
			return nil
		})
	}

	_ = g.Wait()
	result.Duration = time.Since(start)

	p.logger.Info("Match run complete", "summary", result.Summary())
	return result
}

// ProcessByID generates one match regardless of its status.
func (p *Processor) ProcessByID(ctx context.Context, id int64) (Outcome, error) {
	m, err := p.repo.GetByID(ctx, id)
	if err != nil {
		return Outcome{MatchID: id}, err
	}
	o := p.Process(ctx, *m)
	if !o.Success {
		return o, errors.New(o.Error)
	}
	return o, nil
}

// Process generates teams for m and stores the result, or records the
// failure against the match.
func (p *Processor) Process(ctx context.Context, m Row) Outcome {
	start := time.Now()
	o := Outcome{MatchID: m.ID}

	res, err := p.generate(ctx, m)
	if err == nil {
		err = p.repo.MarkGenerated(ctx, m.ID, res)
	}
	o.Duration = time.Since(start)

	if err != nil {
		o.Error = err.Error()
		if recErr := p.repo.RecordFailure(ctx, m.ID, o.Error); recErr != nil {
			p.logger.Error("Failed to record match failure", "match", m.ID, "error", recErr)
		}
		p.logger.Warn("Match generation failed", "match", m.ID, "error", err)
		return o
	}

	o.Success = true
	o.Stage = res.Primary.Stage
	o.Score = res.Primary.Score
	o.Fallback = res.Primary.IsFallback
	o.Result = res
	p.logger.Info("Match generated", "summary", o.Summary())
	return o
}

func (p *Processor) generate(ctx context.Context, m Row) (*teams.Result, error) {
	players, err := p.players.GetMany(ctx, m.PlayerIDs)
	if err != nil {
		return nil, fmt.Errorf("load players: %w", err)
	}
	if err := teams.CheckRoster(players); err != nil {
		return nil, err
	}
	gen := teams.New(
		teams.WithOwner(m.OwnerID),
		teams.WithLogger(p.logger),
		teams.WithRecorder(p.recorder),
	)
	return gen.Generate(players), nil
}
