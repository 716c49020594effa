package match

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/albapepper/fivea/internal/roster"
	"github.com/albapepper/fivea/internal/store"
	"github.com/albapepper/fivea/internal/teams"
)

// Store reads and writes the matches table.
type Store struct {
	db store.DBTX
}

// NewStore creates a match store.
func NewStore(db store.DBTX) *Store {
	return &Store{db: db}
}

// Create inserts a pending match and returns its id.
func (s *Store) Create(ctx context.Context, playerIDs []string, ownerID string) (int64, error) {
	if err := roster.CheckIDs(playerIDs); err != nil {
		return 0, err
	}
	var id int64
	if err := s.db.QueryRow(ctx, "match_insert", playerIDs, ownerID).Scan(&id); err != nil {
		return 0, fmt.Errorf("create match: %w", err)
	}
	return id, nil
}

// GetByID returns a single match. A missing id yields store.ErrNotFound.
func (s *Store) GetByID(ctx context.Context, id int64) (*Row, error) {
	m, err := scanRow(s.db.QueryRow(ctx, "match_by_id", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("match %d: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get match %d: %w", id, err)
	}
	return m, nil
}

// GetPending returns up to limit pending matches that have not exhausted
// their attempts, oldest first.
func (s *Store) GetPending(ctx context.Context, limit, maxAttempts int) ([]Row, error) {
	if limit <= 0 {
		limit = defaultMaxMatches
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	rows, err := s.db.Query(ctx, "matches_pending", limit, maxAttempts)
	if err != nil {
		return nil, fmt.Errorf("get pending matches: %w", err)
	}
	defer rows.Close()

	var matches []Row
	for rows.Next() {
		m, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		matches = append(matches, *m)
	}
	return matches, rows.Err()
}

// MarkGenerated stores a generated result.
func (s *Store) MarkGenerated(ctx context.Context, id int64, res *teams.Result) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	_, err = s.db.Exec(ctx, "match_mark_generated", id,
		string(res.Primary.Stage), res.Primary.Score, res.Primary.IsFallback, data)
	if err != nil {
		return fmt.Errorf("mark match %d generated: %w", id, err)
	}
	return nil
}

// RecordFailure increments attempts and records the error.
func (s *Store) RecordFailure(ctx context.Context, id int64, errMsg string) error {
	if _, err := s.db.Exec(ctx, "match_record_failure", id, errMsg); err != nil {
		return fmt.Errorf("record match %d failure: %w", id, err)
	}
	return nil
}

// RequeueForPlayer returns matches generated within window that include the
// player to pending. It returns the number of matches requeued.
func (s *Store) RequeueForPlayer(ctx context.Context, playerID string, window time.Duration) (int64, error) {
	tag, err := s.db.Exec(ctx, "matches_requeue_for_player", playerID, window.Seconds())
	if err != nil {
		return 0, fmt.Errorf("requeue matches for player %s: %w", playerID, err)
	}
	return tag.RowsAffected(), nil
}

// Cleanup deletes generated matches older than retention.
func (s *Store) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	tag, err := s.db.Exec(ctx, "matches_cleanup", retention.Seconds())
	if err != nil {
		return 0, fmt.Errorf("cleanup matches: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanRow(row pgx.Row) (*Row, error) {
	var (
		m      Row
		stage  *string
		result []byte
	)
	if err := row.Scan(
		&m.ID, &m.PlayerIDs, &m.OwnerID, &m.Status, &stage, &m.Score,
		&m.IsFallback, &result, &m.Attempts, &m.LastError, &m.CreatedAt, &m.GeneratedAt,
	); err != nil {
		return nil, err
	}
	if stage != nil {
		st := teams.Stage(*stage)
		m.Stage = &st
	}
	if len(result) > 0 {
		m.Result = new(teams.Result)
		if err := json.Unmarshal(result, m.Result); err != nil {
			return nil, fmt.Errorf("decode result for match %d: %w", m.ID, err)
		}
	}
	return &m, nil
}
