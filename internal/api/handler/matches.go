package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/albapepper/fivea/internal/api/respond"
	"github.com/albapepper/fivea/internal/roster"
	"github.com/albapepper/fivea/internal/store"
)

// CreateMatchRequest is the body of POST /matches.
type CreateMatchRequest struct {
	PlayerIDs []string `json:"playerIds"`
	OwnerID   *string  `json:"ownerId,omitempty"`
}

// CreateMatch stores a match-day selection for background generation.
// @Summary Create match
// @Description Stores ten player ids. Teams are generated in the background; poll GET /matches/{id} for the result.
// @Tags matches
// @Accept json
// @Produce json
// @Param request body CreateMatchRequest true "Selection"
// @Success 202 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Failure 422 {object} respond.ErrorResponse
// @Router /matches [post]
func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	if !requireStorage(w, h.Matches != nil && h.Players != nil) {
		return
	}

	var req CreateMatchRequest
	if err := respond.DecodeJSON(w, r, &req); err != nil {
		respond.WriteErrorDetail(w, http.StatusBadRequest, "INVALID_BODY", "Request body must be JSON", err.Error())
		return
	}
	if err := roster.CheckIDs(req.PlayerIDs); err != nil {
		code := "INVALID_ROSTER"
		if errors.Is(err, roster.ErrDuplicateID) {
			code = "DUPLICATE_PLAYER"
		}
		respond.WriteErrorDetail(w, http.StatusUnprocessableEntity, code,
			"Select exactly 10 distinct players", err.Error())
		return
	}

	// Reject unknown ids up front instead of failing in the worker.
	if _, err := h.Players.GetMany(r.Context(), req.PlayerIDs); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respond.WriteErrorDetail(w, http.StatusNotFound, "NOT_FOUND", "Unknown player id", err.Error())
			return
		}
		h.Logger.Error("Failed to load players", "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load players")
		return
	}

	ownerID := h.OwnerID
	if req.OwnerID != nil {
		ownerID = *req.OwnerID
	}

	id, err := h.Matches.Create(r.Context(), req.PlayerIDs, ownerID)
	if err != nil {
		h.Logger.Error("Failed to create match", "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create match")
		return
	}
	h.Logger.Info("Match created", "match", id, "owner", ownerID)
	if h.MatchCreated != nil {
		h.MatchCreated()
	}

	w.Header().Set("Location", "/api/v1/matches/"+strconv.FormatInt(id, 10))
	respond.WriteJSONObject(w, http.StatusAccepted, map[string]any{
		"id":     id,
		"status": "pending",
	})
}

// GetMatch returns a match with its generated result, if any.
// @Summary Get match
// @Tags matches
// @Produce json
// @Param id path int true "Match ID"
// @Success 200 {object} match.Row
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /matches/{id} [get]
func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	if !requireStorage(w, h.Matches != nil) {
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_ID", "Match id must be a positive integer")
		return
	}

	m, err := h.Matches.GetByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Match "+strconv.FormatInt(id, 10)+" not found")
		return
	}
	if err != nil {
		h.Logger.Error("Failed to get match", "match", id, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get match")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, m)
}
