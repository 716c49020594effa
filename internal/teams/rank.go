package teams

import (
	"sort"
	"strings"
)

// candidate is one canonical partition surviving a stage.
type candidate struct {
	scored       scored
	social       socialSatisfaction
	score        float64
	ratingDiff   int
	canonicalKey string
	displayKey   string
}

// toOption promotes a ranked candidate to output.
func (c *candidate) toOption(stage Stage) *Option {
	return &Option{
		Team1:                 Team{Players: c.scored.team1, TotalRating: c.scored.stats1.rating},
		Team2:                 Team{Players: c.scored.team2, TotalRating: c.scored.stats2.rating},
		Score:                 c.score,
		Stage:                 stage,
		SocialSatisfactionPct: c.social.percentage(),
		Explanation:           analysisReport(c.scored, stage, c.social),
		IsFallback:            stage.IsFallback(),
	}
}

func sideKey(side []Player) string {
	ids := make([]string, len(side))
	for i, p := range side {
		ids[i] = p.ID
	}
	sort.Strings(ids)
	return strings.Join(ids, ",")
}

// canonicalize orients a partition so the side with the smaller sorted id
// list is team1. Both orientations of one partition yield the same keys.
func canonicalize(sideA, sideB []Player) (team1, team2 []Player, canonicalKey, displayKey string) {
	keyA, keyB := sideKey(sideA), sideKey(sideB)
	if keyA <= keyB {
		return sortByID(sideA), sortByID(sideB), keyA + "||" + keyB, keyA + "|" + keyB
	}
	return sortByID(sideB), sortByID(sideA), keyB + "||" + keyA, keyB + "|" + keyA
}

// better is the ranking order: higher score, then smaller rating difference,
// then smaller display key.
func better(a, b *candidate) bool {
	if a.score != b.score {
		return a.score > b.score
	}
	if a.ratingDiff != b.ratingDiff {
		return a.ratingDiff < b.ratingDiff
	}
	return a.displayKey < b.displayKey
}

// candidateSet dedupes mirrored partitions by canonical key, keeping the
// better orientation.
type candidateSet struct {
	byKey map[string]*candidate
}

func newCandidateSet() *candidateSet {
	return &candidateSet{byKey: make(map[string]*candidate)}
}

func (s *candidateSet) offer(c *candidate) {
	existing, ok := s.byKey[c.canonicalKey]
	if !ok || better(c, existing) {
		s.byKey[c.canonicalKey] = c
	}
}

func (s *candidateSet) ranked() []*candidate {
	out := make([]*candidate, 0, len(s.byKey))
	for _, c := range s.byKey {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return better(out[i], out[j]) })
	return out
}
