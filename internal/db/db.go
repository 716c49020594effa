// Package db provides a pgxpool-based connection pool with prepared statement
// registration, schema migration and health checking.
package db

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/albapepper/fivea/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	if err := cfg.RequireDatabase(); err != nil {
		return nil, err
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection. Statements that
	// reference tables are skipped until the schema exists.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// Migrate applies the embedded schema. It is idempotent. Connections opened
// before the first migration are reset so they pick up the prepared
// statements.
func (p *Pool) Migrate(ctx context.Context) error {
	if _, err := p.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	p.Reset()
	return nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// PlayerColumns is the column list every player statement selects, in the
// order store.scanPlayer expects.
const PlayerColumns = "id, name, real_name, role, rating, avatar, gk_willingness, wants_with, avoids_with, attributes"

// MatchColumns is the column list every match statement selects, in the
// order match.scanRow expects.
const MatchColumns = "id, player_ids, owner_id, status, stage, score, is_fallback, result, attempts, last_error, created_at, generated_at"

// Statements maps prepared statement names to SQL.
var Statements = map[string]string{
	// Players
	"player_list":          "SELECT " + PlayerColumns + " FROM " + config.PlayersTable + " ORDER BY id",
	"player_by_id":         "SELECT " + PlayerColumns + " FROM " + config.PlayersTable + " WHERE id = $1",
	"players_by_ids":       "SELECT " + PlayerColumns + " FROM " + config.PlayersTable + " WHERE id = ANY($1) ORDER BY id",
	"player_delete":        "DELETE FROM " + config.PlayersTable + " WHERE id = $1",
	"players_max_id":       "SELECT COALESCE(MAX(CASE WHEN id ~ '^[0-9]{1,18}$' THEN id::bigint END), 0), COUNT(*) FROM " + config.PlayersTable,
	"player_upsert":        playerUpsertSQL,
	"players_clear_wants":  "UPDATE " + config.PlayersTable + " SET wants_with = '{}', updated_at = NOW() WHERE cardinality(wants_with) > 0",
	"players_clear_avoids": "UPDATE " + config.PlayersTable + " SET avoids_with = '{}', updated_at = NOW() WHERE cardinality(avoids_with) > 0",
	"players_clear_all":    "UPDATE " + config.PlayersTable + " SET wants_with = '{}', avoids_with = '{}', updated_at = NOW() WHERE cardinality(wants_with) > 0 OR cardinality(avoids_with) > 0",

	// Matches
	"match_insert":               "INSERT INTO " + config.MatchesTable + " (player_ids, owner_id) VALUES ($1, $2) RETURNING id",
	"match_by_id":                "SELECT " + MatchColumns + " FROM " + config.MatchesTable + " WHERE id = $1",
	"matches_pending":            "SELECT " + MatchColumns + " FROM " + config.MatchesTable + " WHERE status = 'pending' AND attempts < $2 ORDER BY created_at, id LIMIT $1",
	"match_mark_generated":       "UPDATE " + config.MatchesTable + " SET status = 'generated', stage = $2, score = $3, is_fallback = $4, result = $5, last_error = NULL, generated_at = NOW(), updated_at = NOW() WHERE id = $1",
	"match_record_failure":       "UPDATE " + config.MatchesTable + " SET attempts = attempts + 1, last_error = $2, updated_at = NOW() WHERE id = $1",
	"matches_requeue_for_player": "UPDATE " + config.MatchesTable + " SET status = 'pending', attempts = 0, updated_at = NOW() WHERE $1 = ANY(player_ids) AND status = 'generated' AND generated_at > NOW() - make_interval(secs => $2)",
	"matches_cleanup":            "DELETE FROM " + config.MatchesTable + " WHERE status = 'generated' AND generated_at < NOW() - make_interval(secs => $1)",
}

const playerUpsertSQL = `
	INSERT INTO ` + config.PlayersTable + ` (
		id, name, real_name, role, rating, avatar,
		gk_willingness, wants_with, avoids_with, attributes
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		real_name = EXCLUDED.real_name,
		role = EXCLUDED.role,
		rating = EXCLUDED.rating,
		avatar = EXCLUDED.avatar,
		gk_willingness = EXCLUDED.gk_willingness,
		wants_with = EXCLUDED.wants_with,
		avoids_with = EXCLUDED.avoids_with,
		attributes = EXCLUDED.attributes,
		updated_at = NOW()`

// registerPreparedStatements registers all statements the API and CLI use.
// Before the schema exists only health_check is registered.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	if _, err := conn.Prepare(ctx, "health_check", "SELECT 1"); err != nil {
		return fmt.Errorf("prepare %q: %w", "health_check", err)
	}

	var ready bool
	if err := conn.QueryRow(ctx, "SELECT to_regclass($1) IS NOT NULL AND to_regclass($2) IS NOT NULL",
		config.PlayersTable, config.MatchesTable).Scan(&ready); err != nil {
		return fmt.Errorf("check schema: %w", err)
	}
	if !ready {
		return nil
	}

	for name, sql := range Statements {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
