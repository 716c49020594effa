package teams

import (
	"math"
	"sort"
)

// --------------------------------------------------------------------------
// Weights
// --------------------------------------------------------------------------

const (
	balanceBase = 100.0

	ratingWeight  = 10.0
	attrWeight    = 5.0
	paceWeight    = 10.0
	staminaWeight = 8.0
	defenseWeight = 5.0

	yesImbalanceWeight = 8.0
	lowSupportReward   = 6.0
	lowSupportPenalty  = 6.0

	attackImbalanceWeight  = 6.0
	attackHeavyThreshold   = 5
	attackCoveredReward    = 6.0
	attackUncoveredPenalty = 8.0
)

type levelWeights struct{ high, mid, low float64 }

var (
	physicalWeights  = levelWeights{high: 2, mid: 0, low: -2}
	technicalWeights = levelWeights{high: 1.5, mid: 0, low: -1}
	mentalWeights    = levelWeights{high: 1, mid: 0, low: -0.5}
)

func weightsFor(attr Attribute) levelWeights {
	switch attr {
	case AttrPace, AttrStamina:
		return physicalWeights
	case AttrVision, AttrGrit:
		return mentalWeights
	default:
		return technicalWeights
	}
}

// attrValue is the weighted value of one player's grade for attr.
func attrValue(p Player, attr Attribute) float64 {
	w := weightsFor(attr)
	switch p.Attributes.Get(attr) {
	case LevelHigh:
		return w.high
	case LevelLow:
		return w.low
	default:
		return w.mid
	}
}

// --------------------------------------------------------------------------
// Side statistics
// --------------------------------------------------------------------------

type sideStats struct {
	rating int
	attrs  map[Attribute]float64
}

func statsFor(side []Player) sideStats {
	s := sideStats{attrs: make(map[Attribute]float64, len(AllAttributes))}
	for _, p := range side {
		s.rating += p.Rating
		for _, a := range AllAttributes {
			s.attrs[a] += attrValue(p, a)
		}
	}
	return s
}

// --------------------------------------------------------------------------
// Soft adjustments
// --------------------------------------------------------------------------

// gkPreference is the goalkeeper-willingness adjustment and the facts behind it.
type gkPreference struct {
	applied      bool
	adjustment   float64
	yesImbalance int
	weakerTeam   string // "T1", "T2" or "Even"
	weakerHasLow bool
}

// gkPreferenceFor only applies when at least one side has no GK-role player.
func gkPreferenceFor(t1, t2 gkProfile) gkPreference {
	pref := gkPreference{weakerTeam: "Even"}
	if t1.gkRoles > 0 && t2.gkRoles > 0 {
		return pref
	}

	pref.applied = true
	pref.yesImbalance = absInt(t1.yes - t2.yes)
	pref.adjustment = -float64(pref.yesImbalance) * yesImbalanceWeight

	if t1.yes != t2.yes {
		weaker := t2
		pref.weakerTeam = "T2"
		if t1.yes < t2.yes {
			weaker = t1
			pref.weakerTeam = "T1"
		}
		pref.weakerHasLow = weaker.low > 0
		if pref.weakerHasLow {
			pref.adjustment += lowSupportReward
		} else {
			pref.adjustment -= lowSupportPenalty
		}
	}
	return pref
}

// attackSpread penalizes uneven ATT counts and, when the roster is
// attacker-heavy, rewards the ATT-heavier side carrying a defender.
type attackSpread struct {
	adjustment  float64
	att1, att2  int
	heavySide   string // "T1", "T2" or "Even"
	heavyHasDef bool
	heavyRoster bool
}

func attackSpreadFor(t1, t2 []Player) attackSpread {
	s := attackSpread{
		att1:      countRole(t1, RoleATT),
		att2:      countRole(t2, RoleATT),
		heavySide: "Even",
	}
	s.adjustment = -float64(absInt(s.att1-s.att2)) * attackImbalanceWeight
	s.heavyRoster = s.att1+s.att2 >= attackHeavyThreshold

	if s.att1 == s.att2 {
		return s
	}
	heavy := t2
	s.heavySide = "T2"
	if s.att1 > s.att2 {
		heavy = t1
		s.heavySide = "T1"
	}
	s.heavyHasDef = countRole(heavy, RoleDEF) > 0

	if s.heavyRoster {
		if s.heavyHasDef {
			s.adjustment += attackCoveredReward
		} else {
			s.adjustment -= attackUncoveredPenalty
		}
	}
	return s
}

// --------------------------------------------------------------------------
// Score
// --------------------------------------------------------------------------

// ScoreBreakdown itemizes a balance score.
type ScoreBreakdown struct {
	RatingDiff       int
	AttrDiffs        map[Attribute]float64
	TotalAttrDiff    float64
	RatingPenalty    float64
	AttrPenalty      float64
	PacePenalty      float64
	StaminaPenalty   float64
	DefensePenalty   float64
	GKAdjustment     float64
	AttackAdjustment float64
	Total            float64
}

// balanceScore scores the parity of two sides. Pace, stamina and defense are
// counted in the aggregate attribute penalty and again individually.
func balanceScore(s1, s2 sideStats) ScoreBreakdown {
	b := ScoreBreakdown{
		RatingDiff: absInt(s1.rating - s2.rating),
		AttrDiffs:  make(map[Attribute]float64, len(AllAttributes)),
	}
	for _, a := range AllAttributes {
		d := math.Abs(s1.attrs[a] - s2.attrs[a])
		b.AttrDiffs[a] = d
		b.TotalAttrDiff += d
	}

	b.RatingPenalty = float64(b.RatingDiff) * ratingWeight
	b.AttrPenalty = b.TotalAttrDiff * attrWeight
	b.PacePenalty = b.AttrDiffs[AttrPace] * paceWeight
	b.StaminaPenalty = b.AttrDiffs[AttrStamina] * staminaWeight
	b.DefensePenalty = b.AttrDiffs[AttrDefense] * defenseWeight

	b.Total = balanceBase - b.RatingPenalty - b.AttrPenalty -
		b.PacePenalty - b.StaminaPenalty - b.DefensePenalty
	return b
}

// scored bundles everything computed for one oriented partition.
type scored struct {
	team1, team2 []Player
	stats1       sideStats
	stats2       sideStats
	breakdown    ScoreBreakdown
	gk           gkPreference
	attack       attackSpread
}

func scorePartition(team1, team2 []Player) scored {
	sc := scored{
		team1:  team1,
		team2:  team2,
		stats1: statsFor(team1),
		stats2: statsFor(team2),
	}
	sc.gk = gkPreferenceFor(profileGK(team1), profileGK(team2))
	sc.attack = attackSpreadFor(team1, team2)
	sc.breakdown = balanceScore(sc.stats1, sc.stats2)
	sc.breakdown.GKAdjustment = sc.gk.adjustment
	sc.breakdown.AttackAdjustment = sc.attack.adjustment
	sc.breakdown.Total += sc.gk.adjustment + sc.attack.adjustment
	return sc
}

// powerValue orders players for the absolute fallback.
func powerValue(p Player) float64 {
	return float64(p.Rating) + attrValue(p, AttrPace) + attrValue(p, AttrControl)
}

// sortByID orders a side by id so output does not depend on input order.
func sortByID(side []Player) []Player {
	out := append([]Player(nil), side...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// roundInt rounds half up, matching how scores and percentages are displayed.
func roundInt(v float64) int {
	return int(math.Floor(v + 0.5))
}
