package teams

import (
	"log/slog"
	"time"
)

// Recorder receives generation telemetry. Implementations must be cheap;
// they are called synchronously on the generation path.
type Recorder interface {
	// RecordRejections reports the failures counted while evaluating one stage.
	RecordRejections(stage Stage, counts map[FailureReason]int)

	// RecordGeneration reports the stage that produced the primary option.
	RecordGeneration(stage Stage, fallback bool, duration time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) RecordRejections(Stage, map[FailureReason]int) {}
func (nopRecorder) RecordGeneration(Stage, bool, time.Duration)   {}

// Generator runs the staged assignment. A Generator holds only configuration
// and is safe for concurrent use.
type Generator struct {
	ownerID  string
	logger   *slog.Logger
	recorder Recorder
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithOwner sets the player who must never land on the strictly stronger
// side. Ignored when the id is not in the roster.
func WithOwner(id string) GeneratorOption {
	return func(g *Generator) { g.ownerID = id }
}

// WithLogger sets the logger used for stage transitions (Debug level).
func WithLogger(logger *slog.Logger) GeneratorOption {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithRecorder sets the telemetry sink.
func WithRecorder(r Recorder) GeneratorOption {
	return func(g *Generator) {
		if r != nil {
			g.recorder = r
		}
	}
}

// New creates a Generator.
func New(opts ...GeneratorOption) *Generator {
	g := &Generator{
		logger:   slog.New(slog.DiscardHandler),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate splits players into two teams. It returns nil when the roster is
// not exactly ten players and a non-nil Result otherwise. players is not
// modified.
func (g *Generator) Generate(players []Player) *Result {
	if err := CheckRoster(players); err != nil {
		g.logger.Debug("Roster rejected", "error", err)
		return nil
	}

	start := time.Now()
	runner := newStageRunner(players, g.ownerID)

	for stage := StageStrict; ; stage = nextStage(stage) {
		if stage == StageFallback {
			opt := absoluteFallback(players, runner.failures)
			g.logger.Debug("Absolute fallback used", "failures", runner.failures.total())
			g.recorder.RecordGeneration(stage, true, time.Since(start))
			return &Result{Primary: opt, SecondaryReason: noSecondaryOptionReason}
		}

		ranked, rejected := runner.run(stage)
		g.recorder.RecordRejections(stage, rejected)
		if len(ranked) == 0 {
			g.logger.Debug("Stage yielded no candidates", "stage", stage, "rejected", rejected.total())
			continue
		}

		g.logger.Debug("Stage succeeded", "stage", stage, "candidates", len(ranked))
		g.recorder.RecordGeneration(stage, stage.IsFallback(), time.Since(start))
		return resultFrom(stage, ranked)
	}
}

// Generate runs a one-off generation with an optional owner id.
func Generate(players []Player, ownerID string) *Result {
	return New(WithOwner(ownerID)).Generate(players)
}
