package teams

// --------------------------------------------------------------------------
// Hard limits
// --------------------------------------------------------------------------

const (
	maxGKPerSide  = 1
	maxDefPerSide = 2

	// A side without a GK-role player needs this many "yes"/"low" keepers.
	requiredCapableWhenNoGK = 2
)

// Roles that must be split 1-1 when exactly two of them are in the roster.
var splitRoles = []Role{RoleATT, RoleDEF}

// --------------------------------------------------------------------------
// Failure accounting
// --------------------------------------------------------------------------

// FailureReason tags why a partition was rejected.
type FailureReason string

const (
	FailSocial      FailureReason = "social"
	FailRoles       FailureReason = "roles"
	FailEmergencyGK FailureReason = "emergencyGK"
	FailRoleSplit   FailureReason = "roleSplit"
	FailWantsStrict FailureReason = "wantsStrict"
	FailWantsMutual FailureReason = "wantsMutual"
	FailOwnerBias   FailureReason = "ownerBias"
)

// FailureReasons lists every rejection tag in report order.
var FailureReasons = []FailureReason{
	FailSocial, FailRoles, FailEmergencyGK, FailRoleSplit,
	FailWantsStrict, FailWantsMutual, FailOwnerBias,
}

// failureStats counts rejections across every stage of one call.
type failureStats map[FailureReason]int

func (f failureStats) total() int {
	n := 0
	for _, v := range f {
		n += v
	}
	return n
}

// pct is the share of all recorded failures tagged r, rounded.
func (f failureStats) pct(r FailureReason) int {
	total := f.total()
	if total == 0 {
		return 0
	}
	return roundInt(float64(f[r]) / float64(total) * 100)
}

// --------------------------------------------------------------------------
// Rule sets
// --------------------------------------------------------------------------

type wantsMode int

const (
	wantsStrict wantsMode = iota
	wantsUnilateral
	wantsOff
)

// ruleSet is what one orchestrator state enforces. The avoids rule is always on.
type ruleSet struct {
	wants      wantsMode
	structural bool // role caps, emergency GK, forced role split
	ownerBias  bool
}

var stageRules = map[Stage]ruleSet{
	StageStrict:            {wants: wantsStrict, structural: true, ownerBias: true},
	StageRelaxedUnilateral: {wants: wantsUnilateral, structural: true, ownerBias: true},
	StageRelaxedMutual:     {wants: wantsOff, structural: true, ownerBias: true},
	StageSocialHard:        {wants: wantsStrict},
}

// --------------------------------------------------------------------------
// Per-side checks
// --------------------------------------------------------------------------

// gkProfile summarizes goalkeeper coverage of one side.
type gkProfile struct {
	gkRoles int
	yes     int
	low     int
	no      int
}

func (g gkProfile) capable() int { return g.yes + g.low }

func (g gkProfile) emergencyOK() bool {
	return g.gkRoles > 0 || g.capable() >= requiredCapableWhenNoGK
}

func profileGK(side []Player) gkProfile {
	var g gkProfile
	for _, p := range side {
		if p.Role == RoleGK {
			g.gkRoles++
		}
		switch p.GKWillingness {
		case WillingYes:
			g.yes++
		case WillingLow:
			g.low++
		default:
			g.no++
		}
	}
	return g
}

func countRole(side []Player, role Role) int {
	n := 0
	for _, p := range side {
		if p.Role == role {
			n++
		}
	}
	return n
}

// hasSocialConflict reports whether any member avoids another member.
// Checking every member's list covers both directions.
func hasSocialConflict(side []Player) bool {
	ids := make(map[string]struct{}, len(side))
	for _, p := range side {
		ids[p.ID] = struct{}{}
	}
	for _, p := range side {
		for _, id := range p.Avoids {
			if id == p.ID {
				continue
			}
			if _, ok := ids[id]; ok {
				return true
			}
		}
	}
	return false
}

// validateSide applies the per-side hard rules. Returns "" when the side passes.
func validateSide(side []Player, structural bool) FailureReason {
	if hasSocialConflict(side) {
		return FailSocial
	}
	if !structural {
		return ""
	}

	g := profileGK(side)
	if g.gkRoles > maxGKPerSide || countRole(side, RoleDEF) > maxDefPerSide {
		return FailRoles
	}
	if !g.emergencyOK() {
		return FailEmergencyGK
	}
	return ""
}

// --------------------------------------------------------------------------
// Whole-partition checks
// --------------------------------------------------------------------------

// roleSplitOK enforces the 1-1 split of a role present exactly twice.
func roleSplitOK(sideA, sideB, roster []Player) bool {
	for _, role := range splitRoles {
		if countRole(roster, role) != 2 {
			continue
		}
		if countRole(sideA, role) != 1 || countRole(sideB, role) != 1 {
			return false
		}
	}
	return true
}

// validateWants applies the stage's "wants" rule. Returns "" when it passes.
func validateWants(sideA, sideB []Player, mode wantsMode) FailureReason {
	if mode == wantsOff {
		return ""
	}

	side := make(map[string]int, len(sideA)+len(sideB))
	byID := make(map[string]Player, len(sideA)+len(sideB))
	for _, p := range sideA {
		side[p.ID] = 0
		byID[p.ID] = p
	}
	for _, p := range sideB {
		side[p.ID] = 1
		byID[p.ID] = p
	}

	for _, src := range append(append([]Player(nil), sideA...), sideB...) {
		for _, targetID := range src.Wants {
			targetSide, ok := side[targetID]
			if !ok || targetSide == side[src.ID] {
				continue
			}
			if mode == wantsStrict {
				return FailWantsStrict
			}
			if byID[targetID].wants(src.ID) {
				return FailWantsMutual
			}
		}
	}
	return ""
}

// ownerBiasViolated reports whether the owner sits on the strictly stronger side.
func ownerBiasViolated(ownerInA bool, ratingA, ratingB int) bool {
	if ratingA == ratingB {
		return false
	}
	aStronger := ratingA > ratingB
	return ownerInA == aStronger
}

func inSide(side []Player, id string) bool {
	for _, p := range side {
		if p.ID == id {
			return true
		}
	}
	return false
}
