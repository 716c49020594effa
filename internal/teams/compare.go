package teams

import "sort"

// compareOptions diffs the secondary option against the primary. Name lists
// are sorted for stable display.
func compareOptions(primary, secondary *Option, reason string) *Comparison {
	primaryTeam1 := make(map[string]struct{}, len(primary.Team1.Players))
	for _, p := range primary.Team1.Players {
		primaryTeam1[p.ID] = struct{}{}
	}

	movedToTeam1 := []string{}
	for _, p := range secondary.Team1.Players {
		if _, ok := primaryTeam1[p.ID]; !ok {
			movedToTeam1 = append(movedToTeam1, p.Name)
		}
	}
	movedToTeam2 := []string{}
	for _, p := range secondary.Team2.Players {
		if _, ok := primaryTeam1[p.ID]; ok {
			movedToTeam2 = append(movedToTeam2, p.Name)
		}
	}
	sort.Strings(movedToTeam1)
	sort.Strings(movedToTeam2)

	return &Comparison{
		Reason:          reason,
		ScoreDelta:      secondary.Score - primary.Score,
		RatingDiffDelta: secondary.RatingDiff() - primary.RatingDiff(),
		SocialDelta:     secondary.SocialSatisfactionPct - primary.SocialSatisfactionPct,
		MovedToTeam1:    movedToTeam1,
		MovedToTeam2:    movedToTeam2,
	}
}
