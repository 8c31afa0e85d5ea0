package resolver

// BestMatch returns the candidate most similar to name, or "" when there are
// no candidates. Ties go to the earlier candidate.
func BestMatch(name string, candidates []string) string {
	best := ""
	bestScore := -1.0
	for _, candidate := range candidates {
		score := similarity(name, candidate)
		if score > bestScore {
			best, bestScore = candidate, score
		}
	}
	return best
}

// similarity calculates the similarity between two strings (0.0-1.0)
// from their Levenshtein distance over runes.
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0.0
	}

	distance := levenshteinDistance(ra, rb)
	maxLen := max(len(ra), len(rb))

	return 1.0 - float64(distance)/float64(maxLen)
}

// levenshteinDistance calculates the edit distance between two rune slices.
func levenshteinDistance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Two rows are enough: each cell only looks at the previous row.
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}
