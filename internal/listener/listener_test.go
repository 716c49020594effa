package listener

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/albapepper/fivea/internal/cache"
)

type fakeRequeuer struct {
	calls  []string
	window time.Duration
	n      int64
	err    error
}

func (f *fakeRequeuer) RequeueForPlayer(_ context.Context, id string, window time.Duration) (int64, error) {
	f.calls = append(f.calls, id)
	f.window = window
	return f.n, f.err
}

func TestHandle(t *testing.T) {
	c := cache.New(true, time.Minute)
	c.Set(cache.PrefixTeams+"abc", []byte("x"))
	c.Set(cache.KeyPlayerList, []byte("y"))
	c.Set("other", []byte("z"))

	req := &fakeRequeuer{n: 2}
	var changed int64 = -1
	h := &Handler{
		Cache:    c,
		Matches:  req,
		Window:   time.Hour,
		OnChange: func(n int64) { changed = n },
		Logger:   slog.New(slog.DiscardHandler),
	}

	require.NoError(t, h.Handle(context.Background(), `{"player_id":"7","op":"UPDATE"}`))
	require.Equal(t, []string{"7"}, req.calls)
	require.Equal(t, time.Hour, req.window)
	require.Equal(t, int64(2), changed)

	_, _, ok := c.Get(cache.KeyPlayerList)
	require.False(t, ok)
	_, _, ok = c.Get("other")
	require.True(t, ok)
}

func TestHandleBadPayload(t *testing.T) {
	h := &Handler{Logger: slog.New(slog.DiscardHandler)}
	require.Error(t, h.Handle(context.Background(), `not json`))
	require.ErrorContains(t, h.Handle(context.Background(), `{"op":"DELETE"}`), "missing player_id")
}

func TestHandleRequeueError(t *testing.T) {
	h := &Handler{
		Matches: &fakeRequeuer{err: errors.New("db down")},
		Logger:  slog.New(slog.DiscardHandler),
	}
	require.ErrorContains(t, h.Handle(context.Background(), `{"player_id":"1"}`), "db down")
}
