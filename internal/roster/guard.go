package roster

import (
	"errors"
	"fmt"
	"strings"

	"github.com/albapepper/fivea/internal/teams"
)

// ErrDuplicateID is returned when a match-day roster lists a player twice or
// contains a player without an id.
var ErrDuplicateID = errors.New("player ids must be unique and non-empty")

// CheckIDs validates a match-day selection: exactly teams.RosterSize distinct,
// non-empty ids.
func CheckIDs(ids []string) error {
	if len(ids) != teams.RosterSize {
		return fmt.Errorf("%w: got %d", teams.ErrRosterSize, len(ids))
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			return fmt.Errorf("%w: %q", ErrDuplicateID, id)
		}
		seen[id] = true
	}
	return nil
}

// CheckPlayers applies CheckIDs to the players' ids.
func CheckPlayers(players []teams.Player) error {
	ids := make([]string, len(players))
	for i, p := range players {
		ids[i] = p.ID
	}
	return CheckIDs(ids)
}
