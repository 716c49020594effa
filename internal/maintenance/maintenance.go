// Package maintenance runs periodic background tasks as Go tickers: purging
// old generated matches and a catch-up run over pending matches, which also
// picks up matches requeued by roster changes.
package maintenance

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/albapepper/fivea/internal/match"
)

// Config controls maintenance task intervals. Zero duration disables a task.
type Config struct {
	CleanupInterval time.Duration // Old generated matches
	CatchUpInterval time.Duration // Pending matches
	Retention       time.Duration
	Match           match.Options
}

// DefaultConfig returns sensible production defaults.
func DefaultConfig() Config {
	return Config{
		CleanupInterval: 6 * time.Hour,
		CatchUpInterval: 15 * time.Minute,
		Retention:       30 * 24 * time.Hour,
		Match:           match.Options{MaxMatches: 50, MaxAttempts: 3, Workers: 4},
	}
}

// Cleaner deletes old matches. *match.Store implements it.
type Cleaner interface {
	Cleanup(ctx context.Context, retention time.Duration) (int64, error)
}

// PendingProcessor generates pending matches. *match.Processor implements it.
type PendingProcessor interface {
	ProcessPending(ctx context.Context, opts match.Options) match.RunResult
}

// Runner owns the maintenance tickers.
type Runner struct {
	cleaner   Cleaner
	processor PendingProcessor
	cfg       Config
	logger    *slog.Logger
	kick      chan struct{}
}

// New creates a Runner.
func New(cleaner Cleaner, processor PendingProcessor, cfg Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		cleaner:   cleaner,
		processor: processor,
		cfg:       cfg,
		logger:    logger,
		kick:      make(chan struct{}, 1),
	}
}

// Kick requests a catch-up run without waiting for the next tick. Calls
// made while a run is already requested are coalesced.
func (r *Runner) Kick() {
	select {
	case r.kick <- struct{}{}:
	default:
	}
}

// Start launches all configured maintenance tickers. Blocks until ctx is
// cancelled and every task loop has returned. Intended to be called with `go`.
func (r *Runner) Start(ctx context.Context) {
	r.logger.Info("Maintenance tickers started",
		"cleanup", r.cfg.CleanupInterval,
		"catchup", r.cfg.CatchUpInterval)

	var wg sync.WaitGroup

	if r.cfg.CleanupInterval > 0 {
		t := time.NewTicker(r.cfg.CleanupInterval)
		defer t.Stop()
		wg.Add(1)
		go func() {
			defer wg.Done()
			runLoop(ctx, t.C, nil, func() { r.Cleanup(ctx) })
		}()
	}

	// The catch-up loop also serves Kick, so requeued matches are generated
	// promptly even with a long interval.
	var tick <-chan time.Time
	if r.cfg.CatchUpInterval > 0 {
		t := time.NewTicker(r.cfg.CatchUpInterval)
		defer t.Stop()
		tick = t.C
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		runLoop(ctx, tick, r.kick, func() { r.CatchUp(ctx) })
	}()

	<-ctx.Done()
	wg.Wait()
	r.logger.Info("Maintenance tickers stopped")
}

func runLoop(ctx context.Context, ch <-chan time.Time, kick <-chan struct{}, fn func()) {
	for {
		select {
		case <-ch:
			fn()
		case <-kick:
			fn()
		case <-ctx.Done():
			return
		}
	}
}

// --------------------------------------------------------------------------
// Task implementations
// --------------------------------------------------------------------------

// Cleanup removes generated matches older than the retention window.
func (r *Runner) Cleanup(ctx context.Context) {
	n, err := r.cleaner.Cleanup(ctx, r.cfg.Retention)
	if err != nil {
		r.logger.Warn("Cleanup: failed to purge old matches", "error", err)
		return
	}
	if n > 0 {
		r.logger.Info("Cleanup: purged old matches", "count", n)
	}
}

// CatchUp generates every pending match.
func (r *Runner) CatchUp(ctx context.Context) {
	res := r.processor.ProcessPending(ctx, r.cfg.Match)
	if res.MatchesFailed > 0 {
		r.logger.Warn("Catch-up: some matches failed", "summary", res.Summary())
	}
}
