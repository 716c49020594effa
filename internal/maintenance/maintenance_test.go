package maintenance

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/albapepper/fivea/internal/match"
	"github.com/albapepper/fivea/internal/roster"
	"github.com/albapepper/fivea/internal/teams"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type countingCleaner struct{ calls atomic.Int32 }

func (c *countingCleaner) Cleanup(context.Context, time.Duration) (int64, error) {
	c.calls.Add(1)
	return 1, nil
}

type countingProcessor struct {
	calls atomic.Int32
	ran   chan struct{}
}

func (p *countingProcessor) ProcessPending(context.Context, match.Options) match.RunResult {
	p.calls.Add(1)
	select {
	case p.ran <- struct{}{}:
	default:
	}
	return match.RunResult{}
}

func TestStartTicksAndStops(t *testing.T) {
	cleaner := &countingCleaner{}
	proc := &countingProcessor{ran: make(chan struct{}, 1)}
	cfg := Config{CleanupInterval: time.Millisecond, CatchUpInterval: time.Millisecond}
	r := New(cleaner, proc, cfg, slog.New(slog.DiscardHandler))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return cleaner.calls.Load() > 0 && proc.calls.Load() > 0
	}, time.Second, time.Millisecond)

	cancel()
	<-done
}

func TestKickRunsCatchUp(t *testing.T) {
	proc := &countingProcessor{ran: make(chan struct{}, 1)}
	r := New(&countingCleaner{}, proc, Config{}, slog.New(slog.DiscardHandler))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Start(ctx)
		close(done)
	}()

	r.Kick()
	r.Kick()
	select {
	case <-proc.ran:
	case <-time.After(time.Second):
		t.Fatal("catch-up did not run after Kick")
	}

	cancel()
	<-done
}

type fakeRequeuer map[string]int64

func (f fakeRequeuer) RequeueForPlayer(_ context.Context, id string, _ time.Duration) (int64, error) {
	n, ok := f[id]
	if !ok {
		return 0, errors.New("boom")
	}
	return n, nil
}

func TestAfterImport(t *testing.T) {
	players := []teams.Player{{ID: "1"}, {ID: "2"}, {ID: "3"}}
	var result roster.ImportResult

	AfterImport(context.Background(), fakeRequeuer{"1": 2, "2": 0}, players, time.Hour, &result, slog.New(slog.DiscardHandler))
	require.Equal(t, 2, result.MatchesRequeued)
	require.Equal(t, []string{"requeue 3: boom"}, result.Errors)
}
