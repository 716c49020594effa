package roster

import (
	"math"

	"github.com/albapepper/fivea/internal/teams"
)

const suggestedRatingBase = 5.51

// Per-attribute step added for "high" and subtracted for "low".
var suggestedRatingSteps = map[teams.Attribute]float64{
	teams.AttrShooting: 0.31,
	teams.AttrControl:  0.37,
	teams.AttrPassing:  0.34,
	teams.AttrDefense:  0.28,
	teams.AttrPace:     0.26,
	teams.AttrVision:   0.4,
	teams.AttrGrit:     0.34,
	teams.AttrStamina:  0.26,
}

// SuggestedRatingFloat estimates a 1-10 rating from attribute grades. An
// all-mid player sits at 5.51.
func SuggestedRatingFloat(a teams.Attributes) float64 {
	suggested := suggestedRatingBase
	for _, attr := range teams.AllAttributes {
		switch a.Get(attr) {
		case teams.LevelHigh:
			suggested += suggestedRatingSteps[attr]
		case teams.LevelLow:
			suggested -= suggestedRatingSteps[attr]
		}
	}
	return math.Max(MinRating, math.Min(MaxRating, suggested))
}

// SuggestedRating rounds SuggestedRatingFloat half up.
func SuggestedRating(a teams.Attributes) int {
	return clampRating(int(math.Floor(SuggestedRatingFloat(a) + 0.5)))
}
