package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/albapepper/fivea/internal/api/respond"
	"github.com/albapepper/fivea/internal/cache"
	"github.com/albapepper/fivea/internal/roster"
	"github.com/albapepper/fivea/internal/store"
	"github.com/albapepper/fivea/internal/teams"
)

// GenerateRequest is the body of POST /teams/generate. Exactly one of
// Players and PlayerIDs must be set. OwnerID overrides the configured owner;
// an explicit empty string disables owner bias.
type GenerateRequest struct {
	Players   []teams.Player `json:"players,omitempty"`
	PlayerIDs []string       `json:"playerIds,omitempty"`
	OwnerID   *string        `json:"ownerId,omitempty"`
}

// GenerateTeams splits ten players into two teams.
// @Summary Generate teams
// @Description Splits exactly ten players into two five-a-side teams, relaxing social rules stage by stage until a valid split exists. Players may be sent inline or referenced by id from the stored roster.
// @Tags teams
// @Accept json
// @Produce json
// @Param request body GenerateRequest true "Roster"
// @Param If-None-Match header string false "ETag from a previous response"
// @Success 200 {object} teams.Result
// @Success 304 "Not modified"
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Failure 422 {object} respond.ErrorResponse
// @Router /teams/generate [post]
func (h *Handler) GenerateTeams(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := respond.DecodeJSON(w, r, &req); err != nil {
		respond.WriteErrorDetail(w, http.StatusBadRequest, "INVALID_BODY", "Request body must be JSON", err.Error())
		return
	}

	players, ok := h.resolvePlayers(w, r, req)
	if !ok {
		return
	}

	if err := roster.CheckPlayers(players); err != nil {
		code := "INVALID_ROSTER"
		if errors.Is(err, roster.ErrDuplicateID) {
			code = "DUPLICATE_PLAYER"
		}
		respond.WriteErrorDetail(w, http.StatusUnprocessableEntity, code,
			"Select exactly 10 distinct players", err.Error())
		return
	}

	ownerID := h.OwnerID
	if req.OwnerID != nil {
		ownerID = *req.OwnerID
	}

	cacheKey, err := cache.TeamsKey(players, ownerID)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fingerprint roster")
		return
	}
	if data, etag, ok := h.Cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, h.Cache.TTL(), true)
		return
	}

	gen := teams.New(
		teams.WithOwner(ownerID),
		teams.WithLogger(h.Logger),
		teams.WithRecorder(h.Recorder),
	)
	res := gen.Generate(players)

	data, err := json.Marshal(res)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to encode result")
		return
	}
	h.Logger.Info("Teams generated",
		"stage", res.Primary.Stage,
		"score", res.Primary.Score,
		"fallback", res.Primary.IsFallback,
		"secondary", res.Secondary != nil)

	etag := h.Cache.Set(cacheKey, data)
	if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
		respond.WriteNotModified(w, etag)
		return
	}
	respond.WriteJSON(w, data, etag, h.Cache.TTL(), false)
}

// resolvePlayers returns the normalized roster for req, writing an error
// response and returning false when it cannot.
func (h *Handler) resolvePlayers(w http.ResponseWriter, r *http.Request, req GenerateRequest) ([]teams.Player, bool) {
	switch {
	case len(req.Players) > 0 && len(req.PlayerIDs) > 0:
		respond.WriteError(w, http.StatusBadRequest, "INVALID_BODY", "Send either players or playerIds, not both")
		return nil, false

	case len(req.Players) > 0:
		players := make([]teams.Player, len(req.Players))
		for i, p := range req.Players {
			players[i] = roster.Normalize(p)
		}
		return players, true

	case len(req.PlayerIDs) > 0:
		if !requireStorage(w, h.Players != nil) {
			return nil, false
		}
		players, err := h.Players.GetMany(r.Context(), req.PlayerIDs)
		if errors.Is(err, store.ErrNotFound) {
			respond.WriteErrorDetail(w, http.StatusNotFound, "NOT_FOUND", "Unknown player id", err.Error())
			return nil, false
		}
		if err != nil {
			h.Logger.Error("Failed to load players", "error", err)
			respond.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load players")
			return nil, false
		}
		return players, true

	default:
		respond.WriteError(w, http.StatusBadRequest, "INVALID_BODY", "players or playerIds is required")
		return nil, false
	}
}
