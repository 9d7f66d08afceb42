// internal/workers/matching/search-jobs/levenshtein.go
package searchjobs

// Levenshtein returns the edit distance between a and b, counted in runes.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// withinDistance reports whether Levenshtein(a, b) <= max without
// computing the distance for strings whose lengths already differ by more.
func withinDistance(a, b string, max int) bool {
	d := len([]rune(a)) - len([]rune(b))
	if d < 0 {
		d = -d
	}
	if d > max {
		return false
	}
	return Levenshtein(a, b) <= max
}
