// Package match persists match-day requests and generates their teams in a
// bounded worker pool. A match is ten player ids plus an optional owner; it
// stays pending until a worker stores the generated Result, and returns to
// pending when a roster change touches one of its players.
package match

import (
	"fmt"
	"time"

	"github.com/albapepper/fivea/internal/teams"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	defaultMaxMatches  = 50
	defaultMaxAttempts = 3
	defaultWorkers     = 4
)

// Match statuses.
const (
	StatusPending   = "pending"
	StatusGenerated = "generated"
)

// --------------------------------------------------------------------------
// Types
// --------------------------------------------------------------------------

// Row is a match row from the database.
type Row struct {
	ID          int64         `json:"id"`
	PlayerIDs   []string      `json:"playerIds"`
	OwnerID     string        `json:"ownerId,omitempty"`
	Status      string        `json:"status"`
	Stage       *teams.Stage  `json:"stage,omitempty"`
	Score       *float64      `json:"score,omitempty"`
	IsFallback  bool          `json:"isFallback"`
	Result      *teams.Result `json:"result,omitempty"`
	Attempts    int           `json:"attempts"`
	LastError   *string       `json:"lastError,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	GeneratedAt *time.Time    `json:"generatedAt,omitempty"`
}

// Outcome tracks the result of generating a single match.
type Outcome struct {
	MatchID  int64
	Stage    teams.Stage
	Score    float64
	Fallback bool
	Success  bool
	Error    string
	Duration time.Duration
	Result   *teams.Result
}

// Summary returns a human-readable summary.
func (o *Outcome) Summary() string {
	status := "ok"
	if !o.Success {
		status = "FAILED"
	}
	return fmt.Sprintf("match=%d stage=%s score=%g fallback=%v status=%s dur=%s",
		o.MatchID, o.Stage, o.Score, o.Fallback, status, o.Duration.Round(time.Millisecond))
}

// RunResult tracks the outcome of one ProcessPending run.
type RunResult struct {
	MatchesFound     int
	MatchesProcessed int
	MatchesSucceeded int
	MatchesFailed    int
	Fallbacks        int
	Duration         time.Duration
	Errors           []string
	Outcomes         []Outcome
}

// Summary returns a human-readable summary.
func (r *RunResult) Summary() string {
	return fmt.Sprintf(
		"found=%d processed=%d succeeded=%d failed=%d fallbacks=%d dur=%s",
		r.MatchesFound, r.MatchesProcessed, r.MatchesSucceeded,
		r.MatchesFailed, r.Fallbacks, r.Duration.Round(time.Millisecond))
}
