package teams

import "strings"

// socialSatisfaction counts honored "wants" and "avoids" links. Only links
// whose target is in the roster count.
type socialSatisfaction struct {
	wantsMet      int
	wantsTotal    int
	dislikesMet   int
	dislikesTotal int
}

func (s socialSatisfaction) percentage() int {
	total := s.wantsTotal + s.dislikesTotal
	if total == 0 {
		return 100
	}
	return roundInt(float64(s.wantsMet+s.dislikesMet) / float64(total) * 100)
}

// sideIndex maps player id to side number (1 or 2).
func sideIndex(team1, team2 []Player) map[string]int {
	idx := make(map[string]int, len(team1)+len(team2))
	for _, p := range team1 {
		idx[p.ID] = 1
	}
	for _, p := range team2 {
		idx[p.ID] = 2
	}
	return idx
}

func socialFor(team1, team2 []Player) socialSatisfaction {
	idx := sideIndex(team1, team2)
	var s socialSatisfaction
	for _, p := range append(append([]Player(nil), team1...), team2...) {
		for _, id := range p.Wants {
			side, ok := idx[id]
			if !ok {
				continue
			}
			s.wantsTotal++
			if side == idx[p.ID] {
				s.wantsMet++
			}
		}
		for _, id := range p.Avoids {
			side, ok := idx[id]
			if !ok {
				continue
			}
			s.dislikesTotal++
			if side != idx[p.ID] {
				s.dislikesMet++
			}
		}
	}
	return s
}

// linkKind selects which relationship list metLinks reports.
type linkKind struct {
	list       func(Player) []string
	met        func(sameSide bool) bool
	mutualSep  string
	oneWaySep  string
	noneMarker string
}

var (
	wantsLinks = linkKind{
		list:       func(p Player) []string { return p.Wants },
		met:        func(same bool) bool { return same },
		mutualSep:  " <-> ",
		oneWaySep:  " -> ",
		noneMarker: "No met links",
	}
	dislikeLinks = linkKind{
		list:       func(p Player) []string { return p.Avoids },
		met:        func(same bool) bool { return !same },
		mutualSep:  " <!> ",
		oneWaySep:  " !> ",
		noneMarker: "No met dislikes",
	}
)

// metLinks lists honored links by display name; mutual links appear once.
func metLinks(team1, team2 []Player, kind linkKind) string {
	all := append(append([]Player(nil), team1...), team2...)
	idx := sideIndex(team1, team2)
	byID := make(map[string]Player, len(all))
	for _, p := range all {
		byID[p.ID] = p
	}

	var links []string
	seen := make(map[string]struct{})
	for _, src := range all {
		for _, targetID := range kind.list(src) {
			target, ok := byID[targetID]
			if !ok || !kind.met(idx[src.ID] == idx[targetID]) {
				continue
			}

			var key, line string
			if contains(kind.list(target), src.ID) {
				a, b := src.ID, targetID
				if b < a {
					a, b = b, a
				}
				key = a + "|" + b
				line = src.Name + kind.mutualSep + target.Name
			} else {
				key = src.ID + "->" + targetID
				line = src.Name + kind.oneWaySep + target.Name
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			links = append(links, line)
		}
	}

	if len(links) == 0 {
		return kind.noneMarker
	}
	return strings.Join(links, ", ")
}
