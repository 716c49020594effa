package roster

import "fmt"

// ImportResult tracks counts and errors from an import or sync run.
type ImportResult struct {
	PlayersUpserted int
	PlayersSkipped  int
	MatchesRequeued int
	Errors          []string
}

// Add merges another ImportResult into this one.
func (r *ImportResult) Add(other ImportResult) {
	r.PlayersUpserted += other.PlayersUpserted
	r.PlayersSkipped += other.PlayersSkipped
	r.MatchesRequeued += other.MatchesRequeued
	r.Errors = append(r.Errors, other.Errors...)
}

// AddErrorf records a formatted error message.
func (r *ImportResult) AddErrorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the run.
func (r *ImportResult) Summary() string {
	return fmt.Sprintf(
		"players=%d skipped=%d matches_requeued=%d errors=%d",
		r.PlayersUpserted, r.PlayersSkipped, r.MatchesRequeued, len(r.Errors),
	)
}
