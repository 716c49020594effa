package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/albapepper/fivea/internal/api/respond"
	"github.com/albapepper/fivea/internal/cache"
	"github.com/albapepper/fivea/internal/roster"
	"github.com/albapepper/fivea/internal/store"
	"github.com/albapepper/fivea/internal/teams"
)

// ListPlayers returns the stored roster.
// @Summary List players
// @Description Returns every stored player ordered by id.
// @Tags players
// @Produce json
// @Param If-None-Match header string false "ETag from a previous response"
// @Success 200 {array} teams.Player
// @Failure 503 {object} respond.ErrorResponse
// @Router /players [get]
func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	if !requireStorage(w, h.Players != nil) {
		return
	}

	if data, etag, ok := h.Cache.Get(cache.KeyPlayerList); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, h.Cache.TTL(), true)
		return
	}

	players, err := h.Players.List(r.Context())
	if err != nil {
		h.Logger.Error("Failed to list players", "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list players")
		return
	}
	if players == nil {
		players = []teams.Player{}
	}

	data, err := json.Marshal(players)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to encode players")
		return
	}
	etag := h.Cache.Set(cache.KeyPlayerList, data)
	respond.WriteJSON(w, data, etag, h.Cache.TTL(), false)
}

// GetPlayer returns one player.
// @Summary Get player
// @Tags players
// @Produce json
// @Param id path string true "Player ID"
// @Success 200 {object} teams.Player
// @Failure 404 {object} respond.ErrorResponse
// @Router /players/{id} [get]
func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	if !requireStorage(w, h.Players != nil) {
		return
	}
	p, ok := h.loadPlayer(r.Context(), w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, p)
}

// CreatePlayer adds a player. The id is assigned when omitted.
// @Summary Create player
// @Tags players
// @Accept json
// @Produce json
// @Param player body teams.Player true "Player"
// @Success 201 {object} teams.Player
// @Failure 400 {object} respond.ErrorResponse
// @Failure 409 {object} respond.ErrorResponse
// @Router /players [post]
func (h *Handler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	if !requireStorage(w, h.Players != nil) {
		return
	}
	p, ok := decodePlayer(w, r)
	if !ok {
		return
	}

	if p.ID = strings.TrimSpace(p.ID); p.ID != "" {
		_, err := h.Players.Get(r.Context(), p.ID)
		if err == nil {
			respond.WriteError(w, http.StatusConflict, "CONFLICT", "Player "+p.ID+" already exists")
			return
		}
		if !errors.Is(err, store.ErrNotFound) {
			h.Logger.Error("Failed to check player", "id", p.ID, "error", err)
			respond.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to save player")
			return
		}
	}

	saved, err := h.Players.Upsert(r.Context(), p)
	if err != nil {
		h.Logger.Error("Failed to create player", "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to save player")
		return
	}
	h.invalidateRoster()
	h.mirror(r.Context(), "add", saved.ID, func(ctx context.Context) error { return h.Sheet.AddPlayer(ctx, saved) })

	respond.WriteJSONObject(w, http.StatusCreated, saved)
}

// UpdatePlayer replaces a stored player.
// @Summary Update player
// @Tags players
// @Accept json
// @Produce json
// @Param id path string true "Player ID"
// @Param player body teams.Player true "Player"
// @Success 200 {object} teams.Player
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /players/{id} [put]
func (h *Handler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	if !requireStorage(w, h.Players != nil) {
		return
	}
	id := chi.URLParam(r, "id")
	p, ok := decodePlayer(w, r)
	if !ok {
		return
	}
	if p.ID != "" && p.ID != id {
		respond.WriteError(w, http.StatusBadRequest, "ID_MISMATCH", "Body id does not match path id")
		return
	}
	if _, ok := h.loadPlayer(r.Context(), w, id); !ok {
		return
	}

	p.ID = id
	saved, err := h.Players.Upsert(r.Context(), p)
	if err != nil {
		h.Logger.Error("Failed to update player", "id", id, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to save player")
		return
	}
	h.invalidateRoster()
	h.mirror(r.Context(), "update", id, func(ctx context.Context) error { return h.Sheet.UpdatePlayer(ctx, saved) })

	respond.WriteJSONObject(w, http.StatusOK, saved)
}

// DeletePlayer removes a player.
// @Summary Delete player
// @Tags players
// @Param id path string true "Player ID"
// @Success 204 "Deleted"
// @Failure 404 {object} respond.ErrorResponse
// @Router /players/{id} [delete]
func (h *Handler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	if !requireStorage(w, h.Players != nil) {
		return
	}
	id := chi.URLParam(r, "id")
	err := h.Players.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Player "+id+" not found")
		return
	}
	if err != nil {
		h.Logger.Error("Failed to delete player", "id", id, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete player")
		return
	}
	h.invalidateRoster()
	h.mirror(r.Context(), "delete", id, func(ctx context.Context) error { return h.Sheet.DeletePlayer(ctx, id) })

	w.WriteHeader(http.StatusNoContent)
}

// ClearRelationships empties wants and/or avoids lists for every player.
// @Summary Clear relationships
// @Description Empties the wants list, the avoids list, or both, across the whole roster.
// @Tags players
// @Produce json
// @Param kind query string true "Which lists to clear" Enums(wants, avoids, all)
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Router /players/relationships/clear [post]
func (h *Handler) ClearRelationships(w http.ResponseWriter, r *http.Request) {
	if !requireStorage(w, h.Players != nil) {
		return
	}
	kind := r.URL.Query().Get("kind")
	n, err := h.Players.ClearRelationships(r.Context(), kind)
	if errors.Is(err, store.ErrRelationshipKind) {
		respond.WriteErrorDetail(w, http.StatusBadRequest, "INVALID_KIND", "kind must be wants, avoids or all", err.Error())
		return
	}
	if err != nil {
		h.Logger.Error("Failed to clear relationships", "kind", kind, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to clear relationships")
		return
	}
	h.invalidateRoster()

	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"kind":           kind,
		"playersUpdated": n,
	})
}

// SuggestedRating returns the attribute-derived rating for a player.
// @Summary Suggested rating
// @Description Derives a 1-10 rating from the player's eight attribute grades.
// @Tags players
// @Produce json
// @Param id path string true "Player ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} respond.ErrorResponse
// @Router /players/{id}/suggested-rating [get]
func (h *Handler) SuggestedRating(w http.ResponseWriter, r *http.Request) {
	if !requireStorage(w, h.Players != nil) {
		return
	}
	p, ok := h.loadPlayer(r.Context(), w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"id":             p.ID,
		"rating":         p.Rating,
		"suggested":      roster.SuggestedRating(p.Attributes),
		"suggestedExact": roster.SuggestedRatingFloat(p.Attributes),
	})
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

func (h *Handler) loadPlayer(ctx context.Context, w http.ResponseWriter, id string) (teams.Player, bool) {
	p, err := h.Players.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Player "+id+" not found")
		return teams.Player{}, false
	}
	if err != nil {
		h.Logger.Error("Failed to get player", "id", id, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get player")
		return teams.Player{}, false
	}
	return p, true
}

func decodePlayer(w http.ResponseWriter, r *http.Request) (teams.Player, bool) {
	var p teams.Player
	if err := respond.DecodeJSON(w, r, &p); err != nil {
		respond.WriteErrorDetail(w, http.StatusBadRequest, "INVALID_BODY", "Request body must be a player object", err.Error())
		return teams.Player{}, false
	}
	if strings.TrimSpace(p.Name) == "" {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_BODY", "name is required")
		return teams.Player{}, false
	}
	return p, true
}

// mirror forwards a roster write to the spreadsheet. Failures are logged;
// the database stays the source of truth.
func (h *Handler) mirror(ctx context.Context, action, id string, fn func(context.Context) error) {
	if h.Sheet == nil {
		return
	}
	if err := fn(context.WithoutCancel(ctx)); err != nil {
		h.Logger.Warn("Sheet mirror failed", "action", action, "player_id", id, "error", err)
	}
}
