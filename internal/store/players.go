// Package store provides Postgres persistence for the player roster.
//
// All queries run through prepared statements registered by internal/db on
// every pooled connection.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/albapepper/fivea/internal/roster"
	"github.com/albapepper/fivea/internal/teams"
)

// ErrNotFound is returned when a player id does not exist.
var ErrNotFound = errors.New("not found")

// ErrRelationshipKind is returned by ClearRelationships for an unknown kind.
var ErrRelationshipKind = errors.New("kind must be wants, avoids or all")

// Relationship kinds accepted by ClearRelationships.
const (
	KindWants  = "wants"
	KindAvoids = "avoids"
	KindAll    = "all"
)

// DBTX is the subset of pgxpool.Pool and pgx.Tx the store needs.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Players reads and writes the players table.
type Players struct {
	db DBTX
}

// NewPlayers creates a players repository.
func NewPlayers(db DBTX) *Players {
	return &Players{db: db}
}

// List returns every player ordered by id.
func (s *Players) List(ctx context.Context) ([]teams.Player, error) {
	rows, err := s.db.Query(ctx, "player_list")
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	return collectPlayers(rows)
}

// Get returns one player.
func (s *Players) Get(ctx context.Context, id string) (teams.Player, error) {
	p, err := scanPlayer(s.db.QueryRow(ctx, "player_by_id", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return teams.Player{}, fmt.Errorf("player %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return teams.Player{}, fmt.Errorf("get player %s: %w", id, err)
	}
	return p, nil
}

// GetMany returns the players with the given ids, in the order requested.
// Any missing id yields ErrNotFound.
func (s *Players) GetMany(ctx context.Context, ids []string) ([]teams.Player, error) {
	rows, err := s.db.Query(ctx, "players_by_ids", ids)
	if err != nil {
		return nil, fmt.Errorf("get players: %w", err)
	}
	found, err := collectPlayers(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]teams.Player, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	out := make([]teams.Player, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("player %s: %w", id, ErrNotFound)
		}
		out = append(out, p)
	}
	return out, nil
}

// Upsert normalizes p and writes it. A player without an id gets a new one:
// the next numeric id when the roster is empty or uses numeric ids, a UUID
// otherwise.
func (s *Players) Upsert(ctx context.Context, p teams.Player) (teams.Player, error) {
	p = roster.Normalize(p)
	if p.ID == "" {
		id, err := s.nextID(ctx)
		if err != nil {
			return teams.Player{}, err
		}
		p.ID = id
	}

	attrs, err := json.Marshal(p.Attributes)
	if err != nil {
		return teams.Player{}, fmt.Errorf("encode attributes: %w", err)
	}

	if _, err := s.db.Exec(ctx, "player_upsert",
		p.ID, p.Name, p.RealName, string(p.Role), p.Rating, p.Avatar,
		string(p.GKWillingness), p.Wants, p.Avoids, attrs,
	); err != nil {
		return teams.Player{}, fmt.Errorf("upsert player %s: %w", p.ID, err)
	}
	return p, nil
}

// Delete removes a player.
func (s *Players) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, "player_delete", id)
	if err != nil {
		return fmt.Errorf("delete player %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("player %s: %w", id, ErrNotFound)
	}
	return nil
}

// ClearRelationships empties the wants list, the avoids list, or both, for
// every player. It returns the number of players changed.
func (s *Players) ClearRelationships(ctx context.Context, kind string) (int64, error) {
	stmt, ok := map[string]string{
		KindWants:  "players_clear_wants",
		KindAvoids: "players_clear_avoids",
		KindAll:    "players_clear_all",
	}[kind]
	if !ok {
		return 0, fmt.Errorf("clear %q: %w", kind, ErrRelationshipKind)
	}
	tag, err := s.db.Exec(ctx, stmt)
	if err != nil {
		return 0, fmt.Errorf("clear %s: %w", kind, err)
	}
	return tag.RowsAffected(), nil
}

// ImportPlayers upserts every player and records per-player failures
// without aborting.
func (s *Players) ImportPlayers(ctx context.Context, players []teams.Player) roster.ImportResult {
	var result roster.ImportResult
	for _, p := range players {
		if _, err := s.Upsert(ctx, p); err != nil {
			result.PlayersSkipped++
			result.AddErrorf("player %s: %v", p.ID, err)
			continue
		}
		result.PlayersUpserted++
	}
	return result
}

func (s *Players) nextID(ctx context.Context) (string, error) {
	var maxID, total int64
	if err := s.db.QueryRow(ctx, "players_max_id").Scan(&maxID, &total); err != nil {
		return "", fmt.Errorf("next player id: %w", err)
	}
	if maxID == 0 && total > 0 {
		return uuid.NewString(), nil
	}
	return strconv.FormatInt(maxID+1, 10), nil
}

// --------------------------------------------------------------------------
// Scanning
// --------------------------------------------------------------------------

func scanPlayer(row pgx.Row) (teams.Player, error) {
	var (
		p                 teams.Player
		role, willingness string
		attrs             []byte
	)
	if err := row.Scan(
		&p.ID, &p.Name, &p.RealName, &role, &p.Rating, &p.Avatar,
		&willingness, &p.Wants, &p.Avoids, &attrs,
	); err != nil {
		return teams.Player{}, err
	}
	p.Role = teams.Role(role)
	p.GKWillingness = teams.Willingness(willingness)
	if len(attrs) > 0 {
		if err := json.Unmarshal(attrs, &p.Attributes); err != nil {
			return teams.Player{}, fmt.Errorf("decode attributes for %s: %w", p.ID, err)
		}
	}
	return roster.Normalize(p), nil
}

func collectPlayers(rows pgx.Rows) ([]teams.Player, error) {
	defer rows.Close()
	var players []teams.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}
