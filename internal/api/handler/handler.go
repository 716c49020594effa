// Package handler provides HTTP handlers for all API endpoints.
// Team generation runs in-process; roster and match endpoints read and write
// Postgres through the store and match packages.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/albapepper/fivea/internal/api/respond"
	"github.com/albapepper/fivea/internal/cache"
	"github.com/albapepper/fivea/internal/match"
	"github.com/albapepper/fivea/internal/teams"
)

// PlayerStore is the roster persistence. *store.Players implements it.
type PlayerStore interface {
	List(ctx context.Context) ([]teams.Player, error)
	Get(ctx context.Context, id string) (teams.Player, error)
	GetMany(ctx context.Context, ids []string) ([]teams.Player, error)
	Upsert(ctx context.Context, p teams.Player) (teams.Player, error)
	Delete(ctx context.Context, id string) error
	ClearRelationships(ctx context.Context, kind string) (int64, error)
}

// MatchStore is the match persistence. *match.Store implements it.
type MatchStore interface {
	Create(ctx context.Context, playerIDs []string, ownerID string) (int64, error)
	GetByID(ctx context.Context, id int64) (*match.Row, error)
}

// SheetMirror receives roster writes so the spreadsheet stays in step.
// *sheets.Client implements it.
type SheetMirror interface {
	AddPlayer(ctx context.Context, p teams.Player) error
	UpdatePlayer(ctx context.Context, p teams.Player) error
	DeletePlayer(ctx context.Context, id string) error
}

// HealthChecker verifies database connectivity. *db.Pool implements it.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Deps are the handler's collaborators. Players, Matches, DB and Sheet may
// be nil: endpoints that need them answer 503.
type Deps struct {
	Players  PlayerStore
	Matches  MatchStore
	DB       HealthChecker
	Sheet    SheetMirror
	Cache    *cache.Cache
	Recorder teams.Recorder
	Logger   *slog.Logger

	// OwnerID is the default owner when a request does not name one.
	OwnerID string

	// MatchCreated is called after a match is stored, to trigger processing.
	MatchCreated func()
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	Deps
}

// New creates a Handler with shared dependencies.
func New(deps Deps) *Handler {
	if deps.Cache == nil {
		deps.Cache = cache.New(false, 0)
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Handler{Deps: deps}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, status, and available features.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"name":    "Fivea Team Generator API",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs",
		"storage": h.Players != nil,
		"features": []string{
			"staged_team_generation",
			"owner_bias",
			"in_memory_cache",
			"etag_support",
			"roster_change_notifications",
			"prometheus_metrics",
		},
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
// @Summary Database health check
// @Description Verifies Postgres connectivity.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if h.DB == nil {
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]any{
			"status":    "unhealthy",
			"database":  "not_configured",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	if err := h.DB.HealthCheck(r.Context()); err != nil {
		h.Logger.Warn("Database health check failed", "error", err)
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]any{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     "Database connection check failed",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns in-memory cache statistics (active keys, expired keys).
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"cache":     h.Cache.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// requireStorage answers 503 when the collaborator an endpoint needs is
// missing because no database is configured.
func requireStorage(w http.ResponseWriter, available bool) bool {
	if !available {
		respond.WriteError(w, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE",
			"This endpoint needs DATABASE_URL to be configured")
	}
	return available
}

func (h *Handler) invalidateRoster() {
	h.Cache.DeletePrefix(cache.PrefixTeams)
	h.Cache.DeletePrefix(cache.PrefixPlayers)
}
