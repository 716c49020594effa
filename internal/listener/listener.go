// Package listener provides a Postgres LISTEN/NOTIFY consumer for roster
// changes. It holds a dedicated pgx connection (not from the pool) listening
// on the `roster_changed` channel.
//
// The players table trigger fires pg_notify on every insert, update and
// delete. Each event drops cached generation results and returns recently
// generated matches that include the player to pending.
package listener

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/albapepper/fivea/internal/cache"
)

const (
	// Channel is the notification channel the players trigger publishes to.
	Channel          = "roster_changed"
	reconnectBackoff = 5 * time.Second
	maxReconnect     = 30 * time.Second
)

// RosterEvent is the JSON payload from pg_notify('roster_changed', ...).
type RosterEvent struct {
	PlayerID string `json:"player_id"`
	Op       string `json:"op"`
}

// Invalidator drops cached entries. *cache.Cache implements it.
type Invalidator interface {
	DeletePrefix(prefix string) int
}

// Requeuer returns generated matches to pending. *match.Store implements it.
type Requeuer interface {
	RequeueForPlayer(ctx context.Context, playerID string, window time.Duration) (int64, error)
}

// Handler applies roster events.
type Handler struct {
	Cache    Invalidator
	Matches  Requeuer
	Window   time.Duration
	OnChange func(requeued int64)
	Logger   *slog.Logger
}

// Handle parses one notification payload and applies it.
func (h *Handler) Handle(ctx context.Context, payload string) error {
	var event RosterEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return fmt.Errorf("parse roster event: %w", err)
	}
	if event.PlayerID == "" {
		return fmt.Errorf("parse roster event: missing player_id in %q", payload)
	}

	logger := h.logger()
	if h.Cache != nil {
		dropped := h.Cache.DeletePrefix(cache.PrefixTeams) + h.Cache.DeletePrefix(cache.PrefixPlayers)
		logger.Debug("Cache invalidated", "player_id", event.PlayerID, "keys", dropped)
	}

	var requeued int64
	if h.Matches != nil {
		n, err := h.Matches.RequeueForPlayer(ctx, event.PlayerID, h.Window)
		if err != nil {
			return err
		}
		requeued = n
	}

	logger.Info("Roster change applied",
		"player_id", event.PlayerID, "op", event.Op, "matches_requeued", requeued)
	if h.OnChange != nil {
		h.OnChange(requeued)
	}
	return nil
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Start opens a dedicated connection and listens on the roster_changed
// channel. It reconnects automatically on connection loss. Blocks until ctx
// is cancelled. Intended to be called with `go`.
func Start(ctx context.Context, dbURL string, h *Handler, logger *slog.Logger) {
	backoff := reconnectBackoff

	for {
		err := listenLoop(ctx, dbURL, h, logger)
		if ctx.Err() != nil {
			logger.Info("Roster listener stopped (context cancelled)")
			return
		}

		logger.Error("Roster listener disconnected, reconnecting...",
			"error", err, "backoff", backoff)

		select {
		case <-time.After(backoff):
			backoff = min(backoff*2, maxReconnect)
		case <-ctx.Done():
			return
		}
	}
}

// listenLoop runs a single listen session. Returns when the connection drops
// or the context is cancelled.
func listenLoop(ctx context.Context, dbURL string, h *Handler, logger *slog.Logger) error {
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+Channel); err != nil {
		return fmt.Errorf("LISTEN %s: %w", Channel, err)
	}
	logger.Info("Roster listener connected", "channel", Channel)

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}
		if err := h.Handle(ctx, notification.Payload); err != nil {
			logger.Warn("Failed to apply roster event",
				"payload", notification.Payload, "error", err)
		}
	}
}
