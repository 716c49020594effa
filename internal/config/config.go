// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/fivea.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Table names (must match schema.sql)
// --------------------------------------------------------------------------

const (
	PlayersTable = "players"
	MatchesTable = "matches"
)

// DefaultOwnerPlayerID is the owner used when OWNER_PLAYER_ID is unset.
const DefaultOwnerPlayerID = "10"

// ErrDatabaseURL is returned by RequireDatabase when no DSN is configured.
var ErrDatabaseURL = errors.New("DATABASE_URL must be set")

// --------------------------------------------------------------------------
// Config struct, populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Database
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Cache
	CacheEnabled bool
	CacheTTL     time.Duration

	// Team generation
	OwnerPlayerID string

	// Match processing
	MatchWorkers        int
	MatchMaxAttempts    int
	MatchRetention      time.Duration
	RequeueWindow       time.Duration
	MaintenanceInterval time.Duration

	// Spreadsheet sync
	AppsScriptURL          string
	SheetRequestsPerMinute int
	SheetTimeout           time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
// It never fails on a missing database URL; callers that need storage check
// RequireDatabase.
func Load() (*Config, error) {
	return &Config{
		DatabaseURL:    envOr("DATABASE_URL", ""),
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		CacheEnabled: envBool("CACHE_ENABLED", true),
		CacheTTL:     time.Duration(envInt("CACHE_TTL_SECONDS", 300)) * time.Second,

		OwnerPlayerID: envOr("OWNER_PLAYER_ID", DefaultOwnerPlayerID),

		MatchWorkers:        envInt("MATCH_WORKERS", 4),
		MatchMaxAttempts:    envInt("MATCH_MAX_ATTEMPTS", 3),
		MatchRetention:      time.Duration(envInt("MATCH_RETENTION_DAYS", 30)) * 24 * time.Hour,
		RequeueWindow:       time.Duration(envInt("REQUEUE_WINDOW_HOURS", 48)) * time.Hour,
		MaintenanceInterval: time.Duration(envInt("MAINTENANCE_INTERVAL_MINUTES", 15)) * time.Minute,

		AppsScriptURL:          envOr("APPS_SCRIPT_URL", ""),
		SheetRequestsPerMinute: envInt("SHEET_REQUESTS_PER_MINUTE", 30),
		SheetTimeout:           time.Duration(envInt("SHEET_TIMEOUT_SECONDS", 30)) * time.Second,
	}, nil
}

// RequireDatabase returns ErrDatabaseURL when no database is configured.
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return ErrDatabaseURL
	}
	return nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
