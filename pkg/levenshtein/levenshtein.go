// Package levenshtein measures edit distance between short identifiers and
// picks the closest candidate for "did you mean" hints.
package levenshtein

// Distance returns the number of single-rune insertions, deletions and
// substitutions that turn a into b.
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}

	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)

	for j := range prev {
		prev[j] = j
	}

	for i, x := range ra {
		cur[0] = i + 1

		for j, y := range rb {
			cost := 1
			if x == y {
				cost = 0
			}

			cur[j+1] = min(prev[j+1]+1, cur[j]+1, prev[j]+cost)
		}

		prev, cur = cur, prev
	}

	return prev[len(rb)]
}

// Closest returns the candidate nearest to target within maxDistance edits.
// Ties go to the earlier candidate. ok is false when nothing is close enough.
func Closest(target string, candidates []string, maxDistance int) (best string, ok bool) {
	bestDist := maxDistance + 1

	for _, c := range candidates {
		if d := Distance(target, c); d < bestDist {
			best, bestDist = c, d
		}
	}

	return best, bestDist <= maxDistance
}
