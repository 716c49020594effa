package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/albapepper/fivea/internal/teams"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestGetSet(t *testing.T) {
	c := New(true, time.Minute)

	_, _, ok := c.Get("k")
	require.False(t, ok)

	etag := c.Set("k", []byte(`{"a":1}`))
	data, got, ok := c.Get("k")
	require.True(t, ok)
	require.Equal(t, etag, got)
	require.JSONEq(t, `{"a":1}`, string(data))
	require.Regexp(t, `^W/"[0-9a-f]{16}"$`, etag)

	c.SetTTL("old", []byte("x"), -time.Second)
	_, _, ok = c.Get("old")
	require.False(t, ok)
}

func TestDisabled(t *testing.T) {
	c := New(false, time.Minute)
	etag := c.Set("k", []byte("x"))
	require.Equal(t, ComputeETag([]byte("x")), etag)
	_, _, ok := c.Get("k")
	require.False(t, ok)
	require.Equal(t, false, c.Stats()["enabled"])
}

func TestDeletePrefix(t *testing.T) {
	c := New(true, time.Minute)
	c.Set(PrefixTeams+"a", []byte("1"))
	c.Set(PrefixTeams+"b", []byte("2"))
	c.Set(KeyPlayerList, []byte("3"))

	require.Equal(t, 2, c.DeletePrefix(PrefixTeams))
	_, _, ok := c.Get(KeyPlayerList)
	require.True(t, ok)

	c.Delete(KeyPlayerList)
	require.Equal(t, 0, c.Stats()["total_keys"])
}

func TestEvict(t *testing.T) {
	c := New(true, time.Minute)
	c.SetTTL("gone", []byte("x"), -time.Second)
	c.Set("kept", []byte("y"))

	stats := c.Stats()
	require.Equal(t, 2, stats["total_keys"])
	require.Equal(t, 1, stats["expired_keys"])

	c.evict()
	require.Equal(t, 1, c.Stats()["total_keys"])
}

func TestRunEvictionStops(t *testing.T) {
	c := New(true, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.RunEviction(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	<-done
}

func TestTeamsKey(t *testing.T) {
	a := []teams.Player{{ID: "1", Name: "Ann"}, {ID: "2", Name: "Bob"}}
	b := []teams.Player{{ID: "2", Name: "Bob"}, {ID: "1", Name: "Ann"}}

	ka, err := TeamsKey(a, "1")
	require.NoError(t, err)
	kb, err := TeamsKey(b, "1")
	require.NoError(t, err)
	require.Equal(t, ka, kb)
	require.Contains(t, ka, PrefixTeams)

	kc, err := TeamsKey(b, "2")
	require.NoError(t, err)
	require.NotEqual(t, ka, kc)

	b[0].Rating = 9
	kd, err := TeamsKey(b, "1")
	require.NoError(t, err)
	require.NotEqual(t, ka, kd)
}

func TestCheckETagMatch(t *testing.T) {
	require.False(t, CheckETagMatch("", `W/"a"`))
	require.True(t, CheckETagMatch("*", `W/"a"`))
	require.True(t, CheckETagMatch(`W/"b", W/"a"`, `W/"a"`))
	require.False(t, CheckETagMatch(`W/"b"`, `W/"a"`))
}
