package teams

// combinations returns every k-subset of n indices in lexicographic order.
// For n=10, k=5 that is 252 subsets; each subset and its complement form one
// raw partition.
func combinations(n, k int) [][]int {
	var out [][]int
	current := make([]int, 0, k)

	var backtrack func(start int)
	backtrack = func(start int) {
		if len(current) == k {
			out = append(out, append([]int(nil), current...))
			return
		}
		for i := start; i < n; i++ {
			current = append(current, i)
			backtrack(i + 1)
			current = current[:len(current)-1]
		}
	}

	backtrack(0)
	return out
}

// split materializes the side picked by indices and its complement.
func split(players []Player, indices []int) (sideA, sideB []Player) {
	picked := make([]bool, len(players))
	for _, i := range indices {
		picked[i] = true
	}
	sideA = make([]Player, 0, len(indices))
	sideB = make([]Player, 0, len(players)-len(indices))
	for i, p := range players {
		if picked[i] {
			sideA = append(sideA, p)
		} else {
			sideB = append(sideB, p)
		}
	}
	return sideA, sideB
}
