// Package cache provides an in-memory TTL cache with ETag support.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/puzpuzpuz/xsync/v4"
	"github.com/zeebo/xxh3"

	"github.com/albapepper/fivea/internal/teams"
)

// Key prefixes. Roster changes invalidate both.
const (
	PrefixTeams   = "teams:"
	PrefixPlayers = "players:"
)

// KeyPlayerList caches the full roster listing.
const KeyPlayerList = PrefixPlayers + "list"

type entry struct {
	data      []byte
	etag      string
	expiresAt time.Time
}

// Cache is a thread-safe in-memory TTL cache.
type Cache struct {
	entries *xsync.Map[string, entry]
	enabled bool
	ttl     time.Duration
}

// New creates a new cache. Pass enabled=false to create a no-op cache.
func New(enabled bool, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{
		entries: xsync.NewMap[string, entry](),
		enabled: enabled,
		ttl:     ttl,
	}
}

// TTL returns the default entry lifetime.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get retrieves a cached value. Returns data, etag, and whether the entry was found.
func (c *Cache) Get(key string) (data []byte, etag string, ok bool) {
	if !c.enabled {
		return nil, "", false
	}
	e, exists := c.entries.Load(key)
	if !exists || time.Now().After(e.expiresAt) {
		return nil, "", false
	}
	return e.data, e.etag, true
}

// Set stores a value with the default TTL and returns its ETag.
func (c *Cache) Set(key string, data []byte) string {
	return c.SetTTL(key, data, c.ttl)
}

// SetTTL stores a value with an explicit TTL and returns its ETag.
func (c *Cache) SetTTL(key string, data []byte, ttl time.Duration) string {
	etag := ComputeETag(data)
	if !c.enabled {
		return etag
	}
	c.entries.Store(key, entry{
		data:      data,
		etag:      etag,
		expiresAt: time.Now().Add(ttl),
	})
	return etag
}

// Delete removes one key.
func (c *Cache) Delete(key string) {
	c.entries.Delete(key)
}

// DeletePrefix removes every key starting with prefix and returns how many
// were removed.
func (c *Cache) DeletePrefix(prefix string) int {
	removed := 0
	c.entries.Range(func(key string, _ entry) bool {
		if strings.HasPrefix(key, prefix) {
			c.entries.Delete(key)
			removed++
		}
		return true
	})
	return removed
}

// Stats returns cache statistics.
func (c *Cache) Stats() map[string]any {
	total, active := 0, 0
	now := time.Now()
	c.entries.Range(func(_ string, e entry) bool {
		total++
		if now.Before(e.expiresAt) {
			active++
		}
		return true
	})
	return map[string]any{
		"enabled":      c.enabled,
		"ttl_seconds":  int(c.ttl.Seconds()),
		"total_keys":   total,
		"active_keys":  active,
		"expired_keys": total - active,
	}
}

// RunEviction removes expired entries every interval until ctx is done.
func (c *Cache) RunEviction(ctx context.Context, interval time.Duration) {
	if !c.enabled {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.evict()
		}
	}
}

func (c *Cache) evict() {
	now := time.Now()
	c.entries.Range(func(key string, e entry) bool {
		if now.After(e.expiresAt) {
			c.entries.Delete(key)
		}
		return true
	})
}

// --------------------------------------------------------------------------
// Keys and ETags
// --------------------------------------------------------------------------

// ComputeETag generates a weak ETag from response data using xxh3.
func ComputeETag(data []byte) string {
	return fmt.Sprintf(`W/"%016x"`, xxh3.Hash(data))
}

// TeamsKey fingerprints a generation request. Player order does not change
// the key; any change to a player's fields does.
func TeamsKey(players []teams.Player, ownerID string) (string, error) {
	sorted := make([]teams.Player, len(players))
	copy(sorted, players)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	data, err := json.Marshal(struct {
		Owner   string         `json:"owner"`
		Players []teams.Player `json:"players"`
	}{ownerID, sorted})
	if err != nil {
		return "", fmt.Errorf("fingerprint roster: %w", err)
	}
	return fmt.Sprintf("%s%016x", PrefixTeams, xxh3.Hash(data)), nil
}

// CheckETagMatch checks if If-None-Match header matches the current ETag.
func CheckETagMatch(ifNoneMatch, etag string) bool {
	if ifNoneMatch == "" {
		return false
	}
	if ifNoneMatch == "*" {
		return true
	}
	for _, candidate := range strings.Split(ifNoneMatch, ",") {
		if strings.TrimSpace(candidate) == etag {
			return true
		}
	}
	return false
}
