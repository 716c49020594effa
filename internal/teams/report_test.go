package teams

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSocialSatisfaction(t *testing.T) {
	team1 := []Player{
		{ID: "a", Name: "Ann", Wants: []string{"b"}},
		{ID: "b", Name: "Bob", Wants: []string{"a"}},
	}
	team2 := []Player{
		{ID: "c", Name: "Cat", Wants: []string{"a", "ghost"}, Avoids: []string{"b"}},
		{ID: "d", Name: "Dan", Avoids: []string{"c"}},
	}

	s := socialFor(team1, team2)
	require.Equal(t, socialSatisfaction{wantsMet: 2, wantsTotal: 3, dislikesMet: 1, dislikesTotal: 2}, s)
	require.Equal(t, 60, s.percentage())
	require.Equal(t, 100, socialSatisfaction{}.percentage())

	require.Equal(t, "Ann <-> Bob", metLinks(team1, team2, wantsLinks))
	require.Equal(t, "Cat !> Bob", metLinks(team1, team2, dislikeLinks))
	require.Equal(t, "No met links", metLinks(team2, nil, wantsLinks))
}

func TestFormatLineupOrdersByRole(t *testing.T) {
	side := []Player{
		{Name: "Zed", Role: RoleATT},
		{Name: "Amy", Role: RoleMID},
		{Name: "Kim", Role: RoleGK},
		{Name: "Bea", Role: RoleDEF},
		{Name: "Al", Role: RoleMID},
		{Name: "Flo", Role: RoleFLEX},
	}
	require.Equal(t, "[GK] Kim [FLEX] Flo [DEF] Bea [MID] Al [MID] Amy [ATT] Zed", formatLineup(side))
}

func TestFormatting(t *testing.T) {
	require.Equal(t, "+6", formatAdjustment(6))
	require.Equal(t, "-14", formatAdjustment(-14))
	require.Equal(t, "0", formatAdjustment(0))
	require.Equal(t, "2.5", formatNumber(2.5))
	require.Equal(t, "T1", favored(2, 1))
	require.Equal(t, "T2", favored(-1, 0))
	require.Equal(t, "Even", favored(3, 3))
	require.Equal(t, "highly balanced", scoreLabel(70))
	require.Equal(t, "balanced", scoreLabel(40))
	require.Equal(t, "playable but imbalanced", scoreLabel(0))
	require.Equal(t, "imbalanced", scoreLabel(-0.5))
}

func TestAnalysisReportSections(t *testing.T) {
	res := Generate(variedRoster(), "")
	require.NotNil(t, res)
	report := res.Primary.Explanation

	require.True(t, strings.HasPrefix(report, "Analysis (Score: "))
	last := -1
	for _, header := range []string{"[Details]", "[Balance]", "[Emergency GK]", "[Attack]", "[Lineups]", "[Social]"} {
		idx := strings.Index(report, header)
		require.Greater(t, idx, last, "section %s out of order", header)
		last = idx
	}
	require.Contains(t, report, "- Stage: "+string(res.Primary.Stage)+".")
	for _, label := range attributeLabels {
		require.Contains(t, report, "- "+label+": T1 (")
	}
	require.Contains(t, report, "- Rating: T1 (")
	require.Contains(t, report, "[GK] Player 0")
	require.NotContains(t, report, "FALLBACK USED")
}

func TestCompareOptions(t *testing.T) {
	mk := func(id, name string, rating int) Player {
		return Player{ID: id, Name: name, Rating: rating}
	}
	ann, bob, cat, dan := mk("a", "Ann", 6), mk("b", "Bob", 4), mk("c", "Cat", 5), mk("d", "Dan", 5)

	primary := &Option{
		Team1:                 Team{Players: []Player{ann, bob}, TotalRating: 10},
		Team2:                 Team{Players: []Player{cat, dan}, TotalRating: 10},
		Score:                 90,
		SocialSatisfactionPct: 100,
	}
	secondary := &Option{
		Team1:                 Team{Players: []Player{ann, cat}, TotalRating: 11},
		Team2:                 Team{Players: []Player{dan, bob}, TotalRating: 9},
		Score:                 82.5,
		SocialSatisfactionPct: 50,
	}

	c := compareOptions(primary, secondary, secondaryOptionReason)
	require.Equal(t, &Comparison{
		Reason:          secondaryOptionReason,
		ScoreDelta:      -7.5,
		RatingDiffDelta: 2,
		SocialDelta:     -50,
		MovedToTeam1:    []string{"Cat"},
		MovedToTeam2:    []string{"Bob"},
	}, c)

	same := compareOptions(primary, primary, "")
	require.Equal(t, []string{}, same.MovedToTeam1)
	require.Equal(t, []string{}, same.MovedToTeam2)
}

func TestResultComparisonMatchesOptions(t *testing.T) {
	res := Generate(variedRoster(), "p3")
	require.NotNil(t, res)
	require.NotNil(t, res.Secondary)
	require.NotNil(t, res.Comparison)
	require.Equal(t, res.Primary.Stage, res.Secondary.Stage)
	require.LessOrEqual(t, res.Secondary.Score, res.Primary.Score)
	require.Equal(t, res.Secondary.Score-res.Primary.Score, res.Comparison.ScoreDelta)
	require.Len(t, res.Comparison.MovedToTeam1, len(res.Comparison.MovedToTeam2))
	require.NotEmpty(t, res.Comparison.MovedToTeam1)
}
