package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/fivea/internal/api/handler"
	"github.com/albapepper/fivea/internal/cache"
	"github.com/albapepper/fivea/internal/config"
	"github.com/albapepper/fivea/internal/match"
	"github.com/albapepper/fivea/internal/metrics"
	"github.com/albapepper/fivea/internal/roster"
	"github.com/albapepper/fivea/internal/store"
	"github.com/albapepper/fivea/internal/teams"
)

// --------------------------------------------------------------------------
// Fakes
// --------------------------------------------------------------------------

type memPlayers struct {
	mu      sync.Mutex
	players map[string]teams.Player
	nextID  int
}

func newMemPlayers(players ...teams.Player) *memPlayers {
	m := &memPlayers{players: make(map[string]teams.Player), nextID: 100}
	for _, p := range players {
		m.players[p.ID] = roster.Normalize(p)
	}
	return m
}

func (m *memPlayers) List(context.Context) ([]teams.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]teams.Player, 0, len(m.players))
	for _, p := range m.players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memPlayers) Get(_ context.Context, id string) (teams.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.players[id]
	if !ok {
		return teams.Player{}, fmt.Errorf("player %s: %w", id, store.ErrNotFound)
	}
	return p, nil
}

func (m *memPlayers) GetMany(ctx context.Context, ids []string) ([]teams.Player, error) {
	out := make([]teams.Player, 0, len(ids))
	for _, id := range ids {
		p, err := m.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *memPlayers) Upsert(_ context.Context, p teams.Player) (teams.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p = roster.Normalize(p)
	if p.ID == "" {
		m.nextID++
		p.ID = strconv.Itoa(m.nextID)
	}
	m.players[p.ID] = p
	return p, nil
}

func (m *memPlayers) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.players[id]; !ok {
		return fmt.Errorf("player %s: %w", id, store.ErrNotFound)
	}
	delete(m.players, id)
	return nil
}

func (m *memPlayers) ClearRelationships(_ context.Context, kind string) (int64, error) {
	if kind != store.KindWants && kind != store.KindAvoids && kind != store.KindAll {
		return 0, fmt.Errorf("clear %q: %w", kind, store.ErrRelationshipKind)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, p := range m.players {
		if len(p.Wants) > 0 || len(p.Avoids) > 0 {
			n++
		}
		if kind != store.KindAvoids {
			p.Wants = []string{}
		}
		if kind != store.KindWants {
			p.Avoids = []string{}
		}
		m.players[id] = p
	}
	return n, nil
}

type memMatches struct {
	mu   sync.Mutex
	rows map[int64]*match.Row
}

func (m *memMatches) Create(_ context.Context, ids []string, owner string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rows == nil {
		m.rows = make(map[int64]*match.Row)
	}
	id := int64(len(m.rows) + 1)
	m.rows[id] = &match.Row{ID: id, PlayerIDs: ids, OwnerID: owner, Status: match.StatusPending}
	return id, nil
}

func (m *memMatches) GetByID(_ context.Context, id int64) (*match.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, fmt.Errorf("match %d: %w", id, store.ErrNotFound)
	}
	return row, nil
}

type recordingSheet struct {
	mu      sync.Mutex
	actions []string
}

func (s *recordingSheet) record(action, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions = append(s.actions, action+":"+id)
	return nil
}

func (s *recordingSheet) AddPlayer(_ context.Context, p teams.Player) error {
	return s.record("add", p.ID)
}

func (s *recordingSheet) UpdatePlayer(_ context.Context, p teams.Player) error {
	return s.record("update", p.ID)
}

func (s *recordingSheet) DeletePlayer(_ context.Context, id string) error {
	return s.record("delete", id)
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

func tenPlayers() []teams.Player {
	players := make([]teams.Player, teams.RosterSize)
	for i := range players {
		id := strconv.Itoa(i + 1)
		players[i] = teams.Player{
			ID: id, Name: "P" + id, Role: teams.RoleFLEX,
			Rating: 5, GKWillingness: teams.WillingYes,
		}
	}
	return players
}

func testConfig() *config.Config {
	return &config.Config{
		CORSAllowOrigins: []string{"*"},
		OwnerPlayerID:    config.DefaultOwnerPlayerID,
		RateLimitWindow:  time.Minute,
	}
}

type testServer struct {
	router  http.Handler
	players *memPlayers
	matches *memMatches
	sheet   *recordingSheet
	kicks   int
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		players: newMemPlayers(tenPlayers()...),
		matches: &memMatches{},
		sheet:   &recordingSheet{},
	}
	deps := handler.Deps{
		Players:      ts.players,
		Matches:      ts.matches,
		Sheet:        ts.sheet,
		Cache:        cache.New(true, time.Minute),
		Logger:       slog.New(slog.DiscardHandler),
		MatchCreated: func() { ts.kicks++ },
	}
	ts.router = NewRouter(deps, metrics.NewRecorder(prometheus.NewRegistry()), testConfig())
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rdr)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error.Code
}

// --------------------------------------------------------------------------
// Tests
// --------------------------------------------------------------------------

func TestHealthAndRoot(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get("X-Process-Time"))

	rec = ts.do(t, http.MethodGet, "/health/db", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = ts.do(t, http.MethodGet, "/health/cache", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"storage":true`)
}

func TestGenerateInlinePlayers(t *testing.T) {
	ts := newTestServer(t)
	body := handler.GenerateRequest{Players: tenPlayers()}

	rec := ts.do(t, http.MethodPost, "/api/v1/teams/generate", body)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	var res teams.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Equal(t, teams.StageStrict, res.Primary.Stage)
	require.Equal(t, float64(100), res.Primary.Score)
	require.Len(t, res.Primary.Team1.Players, teams.TeamSize)

	rec = ts.do(t, http.MethodPost, "/api/v1/teams/generate", body, "If-None-Match", etag)
	require.Equal(t, http.StatusNotModified, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/v1/teams/generate", body)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "HIT", rec.Header().Get("X-Cache"))
}

func TestGenerateRejectsBadRosters(t *testing.T) {
	ts := newTestServer(t)
	players := tenPlayers()

	rec := ts.do(t, http.MethodPost, "/api/v1/teams/generate", handler.GenerateRequest{Players: players[:9]})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "INVALID_ROSTER", errorCode(t, rec))

	dup := append([]teams.Player(nil), players...)
	dup[9].ID = "1"
	rec = ts.do(t, http.MethodPost, "/api/v1/teams/generate", handler.GenerateRequest{Players: dup})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "DUPLICATE_PLAYER", errorCode(t, rec))

	rec = ts.do(t, http.MethodPost, "/api/v1/teams/generate", map[string]any{})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/v1/teams/generate",
		handler.GenerateRequest{Players: players, PlayerIDs: []string{"1"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateByIDs(t *testing.T) {
	ts := newTestServer(t)
	ids := []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}
	noOwner := ""

	rec := ts.do(t, http.MethodPost, "/api/v1/teams/generate",
		handler.GenerateRequest{PlayerIDs: ids, OwnerID: &noOwner})
	require.Equal(t, http.StatusOK, rec.Code)

	ids[9] = "ghost"
	rec = ts.do(t, http.MethodPost, "/api/v1/teams/generate", handler.GenerateRequest{PlayerIDs: ids})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGenerateByIDsWithoutStorage(t *testing.T) {
	router := NewRouter(handler.Deps{Logger: slog.New(slog.DiscardHandler)}, nil, testConfig())

	data, err := json.Marshal(handler.GenerateRequest{PlayerIDs: []string{"1"}})
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/teams/generate", bytes.NewReader(data)))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, "STORAGE_UNAVAILABLE", errorCode(t, rec))
}

func TestPlayersCRUD(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/v1/players", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	var listed []teams.Player
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 10)

	rec = ts.do(t, http.MethodGet, "/api/v1/players", nil)
	require.Equal(t, "HIT", rec.Header().Get("X-Cache"))

	rec = ts.do(t, http.MethodPost, "/api/v1/players", teams.Player{Name: "New", Role: "att", Rating: 7})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created teams.Player
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, "101", created.ID)
	require.Equal(t, teams.RoleATT, created.Role)

	rec = ts.do(t, http.MethodGet, "/api/v1/players", nil)
	require.Equal(t, "MISS", rec.Header().Get("X-Cache"))

	rec = ts.do(t, http.MethodPost, "/api/v1/players", teams.Player{ID: "1", Name: "Dup"})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/v1/players", teams.Player{ID: "x"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	created.Rating = 9
	rec = ts.do(t, http.MethodPut, "/api/v1/players/101", created)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPut, "/api/v1/players/2", created)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "ID_MISMATCH", errorCode(t, rec))

	rec = ts.do(t, http.MethodPut, "/api/v1/players/999", teams.Player{Name: "Nobody"})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/v1/players/101", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"rating":9`)

	rec = ts.do(t, http.MethodDelete, "/api/v1/players/101", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = ts.do(t, http.MethodDelete, "/api/v1/players/101", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	require.Equal(t, []string{"add:101", "update:101", "delete:101"}, ts.sheet.actions)
}

func TestClearRelationshipsAndSuggestedRating(t *testing.T) {
	ts := newTestServer(t)
	p, err := ts.players.Get(context.Background(), "1")
	require.NoError(t, err)
	p.Wants = []string{"2"}
	p.Attributes.Vision = teams.LevelHigh
	_, err = ts.players.Upsert(context.Background(), p)
	require.NoError(t, err)

	rec := ts.do(t, http.MethodPost, "/api/v1/players/relationships/clear?kind=friends", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/v1/players/relationships/clear?kind=wants", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"kind":"wants","playersUpdated":1}`, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/api/v1/players/1/suggested-rating", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var sr struct {
		Suggested      int     `json:"suggested"`
		SuggestedExact float64 `json:"suggestedExact"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sr))
	require.Equal(t, roster.SuggestedRating(p.Attributes), sr.Suggested)
	require.InDelta(t, roster.SuggestedRatingFloat(p.Attributes), sr.SuggestedExact, 1e-9)
}

func TestMatches(t *testing.T) {
	ts := newTestServer(t)
	ids := []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}

	rec := ts.do(t, http.MethodPost, "/api/v1/matches", handler.CreateMatchRequest{PlayerIDs: ids})
	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Equal(t, "/api/v1/matches/1", rec.Header().Get("Location"))
	require.Equal(t, 1, ts.kicks)

	rec = ts.do(t, http.MethodGet, "/api/v1/matches/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var row match.Row
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &row))
	require.Equal(t, config.DefaultOwnerPlayerID, row.OwnerID)
	require.Equal(t, match.StatusPending, row.Status)

	rec = ts.do(t, http.MethodPost, "/api/v1/matches", handler.CreateMatchRequest{PlayerIDs: ids[:5]})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	bad := append([]string(nil), ids...)
	bad[0] = "ghost"
	rec = ts.do(t, http.MethodPost, "/api/v1/matches", handler.CreateMatchRequest{PlayerIDs: bad})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/v1/matches/abc", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	rec = ts.do(t, http.MethodGet, "/api/v1/matches/42", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodGet, "/api/v1/players/3", nil)

	rec := ts.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `route="/api/v1/players/{id}"`)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitEnabled = true
	cfg.RateLimitRequests = 2
	router := NewRouter(handler.Deps{Logger: slog.New(slog.DiscardHandler)}, nil, cfg)

	codes := make([]int, 0, 3)
	for range 3 {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		codes = append(codes, rec.Code)
	}
	require.Equal(t, http.StatusOK, codes[0])
	require.Contains(t, codes, http.StatusTooManyRequests)
}
