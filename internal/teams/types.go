// Package teams splits a ten-player roster into two five-a-side teams.
//
// Every 5/5 partition of the roster is enumerated, filtered through hard
// rules (role caps, goalkeeper coverage, social "avoids") and a "wants" rule
// whose strictness drops stage by stage, scored for rating and attribute
// balance, deduplicated by canonical key, and ranked. The best partition of
// the first stage with any survivor becomes the primary option, the next one
// the secondary option. A terminal power-ranked snake split guarantees a
// result for any ten-player roster.
//
// Pipeline: guard → enumerate → validate → score → canonicalize → rank → report.
package teams

// --------------------------------------------------------------------------
// Roster model
// --------------------------------------------------------------------------

// Role is a player's preferred position.
type Role string

const (
	RoleGK   Role = "GK"
	RoleDEF  Role = "DEF"
	RoleMID  Role = "MID"
	RoleATT  Role = "ATT"
	RoleFLEX Role = "FLEX"
)

// Roles lists every valid role.
var Roles = []Role{RoleGK, RoleDEF, RoleMID, RoleATT, RoleFLEX}

// Level is a three-step skill grade. The zero value reads as LevelMid.
type Level string

const (
	LevelLow  Level = "low"
	LevelMid  Level = "mid"
	LevelHigh Level = "high"
)

// Willingness is how happy a player is to go in goal.
type Willingness string

const (
	WillingYes Willingness = "yes"
	WillingLow Willingness = "low"
	WillingNo  Willingness = "no"
)

// Attribute names one of the eight skill attributes.
type Attribute string

const (
	AttrShooting Attribute = "shooting"
	AttrControl  Attribute = "control"
	AttrPassing  Attribute = "passing"
	AttrDefense  Attribute = "defense"
	AttrPace     Attribute = "pace"
	AttrVision   Attribute = "vision"
	AttrGrit     Attribute = "grit"
	AttrStamina  Attribute = "stamina"
)

// AllAttributes is the fixed iteration order used for scoring and reports.
var AllAttributes = []Attribute{
	AttrShooting, AttrControl, AttrPassing, AttrDefense,
	AttrPace, AttrVision, AttrGrit, AttrStamina,
}

// Attributes holds a player's eight skill grades.
type Attributes struct {
	Shooting Level `json:"shooting" yaml:"shooting"`
	Control  Level `json:"control" yaml:"control"`
	Passing  Level `json:"passing" yaml:"passing"`
	Defense  Level `json:"defense" yaml:"defense"`
	Pace     Level `json:"pace" yaml:"pace"`
	Vision   Level `json:"vision" yaml:"vision"`
	Grit     Level `json:"grit" yaml:"grit"`
	Stamina  Level `json:"stamina" yaml:"stamina"`
}

// Get returns the grade for a. Unknown attributes and empty grades are mid.
func (a Attributes) Get(attr Attribute) Level {
	var l Level
	switch attr {
	case AttrShooting:
		l = a.Shooting
	case AttrControl:
		l = a.Control
	case AttrPassing:
		l = a.Passing
	case AttrDefense:
		l = a.Defense
	case AttrPace:
		l = a.Pace
	case AttrVision:
		l = a.Vision
	case AttrGrit:
		l = a.Grit
	case AttrStamina:
		l = a.Stamina
	}
	if l != LevelLow && l != LevelHigh {
		return LevelMid
	}
	return l
}

// Set assigns the grade for attr. Unknown attributes are ignored.
func (a *Attributes) Set(attr Attribute, l Level) {
	switch attr {
	case AttrShooting:
		a.Shooting = l
	case AttrControl:
		a.Control = l
	case AttrPassing:
		a.Passing = l
	case AttrDefense:
		a.Defense = l
	case AttrPace:
		a.Pace = l
	case AttrVision:
		a.Vision = l
	case AttrGrit:
		a.Grit = l
	case AttrStamina:
		a.Stamina = l
	}
}

// Player is one roster entry. Wants and Avoids hold other players' ids and
// are directional: A wanting B says nothing about B wanting A.
type Player struct {
	ID            string      `json:"id" yaml:"id"`
	Name          string      `json:"name" yaml:"name"`
	RealName      string      `json:"realName,omitempty" yaml:"realName,omitempty"`
	Role          Role        `json:"role" yaml:"role"`
	Rating        int         `json:"rating" yaml:"rating"`
	Avatar        string      `json:"avatar,omitempty" yaml:"avatar,omitempty"`
	Attributes    Attributes  `json:"attributes" yaml:"attributes"`
	GKWillingness Willingness `json:"gkWillingness" yaml:"gkWillingness"`
	Wants         []string    `json:"wantsWith" yaml:"wantsWith"`
	Avoids        []string    `json:"avoidsWith" yaml:"avoidsWith"`
}

func (p Player) wants(id string) bool  { return contains(p.Wants, id) }
func (p Player) avoids(id string) bool { return contains(p.Avoids, id) }

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// --------------------------------------------------------------------------
// Stages
// --------------------------------------------------------------------------

// Stage records which rule set produced an option.
type Stage string

const (
	StageStrict            Stage = "STRICT"
	StageRelaxedUnilateral Stage = "RELAXED_UNILATERAL"
	StageRelaxedMutual     Stage = "RELAXED_MUTUAL"
	StageSocialHard        Stage = "SOCIAL_HARD_FALLBACK"
	StageFallback          Stage = "FALLBACK"
)

// Stages is the orchestrator's state order.
var Stages = []Stage{
	StageStrict, StageRelaxedUnilateral, StageRelaxedMutual,
	StageSocialHard, StageFallback,
}

// IsFallback reports whether s is one of the two fallback tiers.
func (s Stage) IsFallback() bool {
	return s == StageSocialHard || s == StageFallback
}

// --------------------------------------------------------------------------
// Output
// --------------------------------------------------------------------------

// Team is one side of an option.
type Team struct {
	Players     []Player `json:"players"`
	TotalRating int      `json:"totalRating"`
}

// Option is one accepted split promoted to output.
type Option struct {
	Team1                 Team    `json:"team1"`
	Team2                 Team    `json:"team2"`
	Score                 float64 `json:"score"`
	Stage                 Stage   `json:"stage"`
	SocialSatisfactionPct int     `json:"socialSatisfactionPct"`
	Explanation           string  `json:"explanation"`
	IsFallback            bool    `json:"isFallback"`
}

// RatingDiff is the absolute difference between the two team ratings.
func (o *Option) RatingDiff() int {
	return absInt(o.Team1.TotalRating - o.Team2.TotalRating)
}

// Comparison describes how the secondary option differs from the primary.
type Comparison struct {
	Reason          string   `json:"reason"`
	ScoreDelta      float64  `json:"scoreDelta"`
	RatingDiffDelta int      `json:"ratingDiffDelta"`
	SocialDelta     int      `json:"socialDelta"`
	MovedToTeam1    []string `json:"movedToTeam1"`
	MovedToTeam2    []string `json:"movedToTeam2"`
}

// Result is the outcome of one generation call.
type Result struct {
	Primary         *Option     `json:"primary"`
	Secondary       *Option     `json:"secondary"`
	SecondaryReason string      `json:"secondaryReason"`
	Comparison      *Comparison `json:"comparison"`
}

const (
	secondaryOptionReason   = "Second option has lower balance score than Option 1 under the same constraint stage."
	noSecondaryOptionReason = "No second option available under current constraints."
)

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
