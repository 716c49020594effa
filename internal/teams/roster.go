package teams

import (
	"errors"
	"fmt"
)

const (
	// RosterSize is the only roster size the engine accepts.
	RosterSize = 10
	// TeamSize is the number of players per side.
	TeamSize = RosterSize / 2
)

// ErrRosterSize is returned by CheckRoster when the roster is not exactly
// RosterSize players.
var ErrRosterSize = errors.New("roster must contain exactly 10 players")

// CheckRoster is the engine's only precondition. Duplicate ids or malformed
// attributes are not checked here.
func CheckRoster(players []Player) error {
	if len(players) != RosterSize {
		return fmt.Errorf("%w: got %d", ErrRosterSize, len(players))
	}
	return nil
}
