package teams

import "sort"

// snakeSplit deals players sorted by power into two sides using a 1-2-2-1
// pattern: positions 0 and 3 of every block of four go to side A, 1 and 2 to
// side B. Ties in power are broken by id so the split is order independent.
func snakeSplit(players []Player) (sideA, sideB []Player) {
	sorted := append([]Player(nil), players...)
	sort.SliceStable(sorted, func(i, j int) bool {
		pi, pj := powerValue(sorted[i]), powerValue(sorted[j])
		if pi != pj {
			return pi > pj
		}
		return sorted[i].ID < sorted[j].ID
	})

	for i, p := range sorted {
		if i%4 == 0 || i%4 == 3 {
			sideA = append(sideA, p)
		} else {
			sideB = append(sideB, p)
		}
	}
	return sideA, sideB
}

// absoluteFallback ignores every constraint and always succeeds.
func absoluteFallback(players []Player, failures failureStats) *Option {
	sideA, sideB := snakeSplit(players)
	sc := scorePartition(sideA, sideB)
	social := socialFor(sideA, sideB)

	return &Option{
		Team1:                 Team{Players: sideA, TotalRating: sc.stats1.rating},
		Team2:                 Team{Players: sideB, TotalRating: sc.stats2.rating},
		Score:                 sc.breakdown.Total,
		Stage:                 StageFallback,
		SocialSatisfactionPct: social.percentage(),
		Explanation:           fallbackReport(sc, players, failures, social),
		IsFallback:            true,
	}
}
