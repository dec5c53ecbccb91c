package similarity

import "strings"

// Similarity returns 1 - distance/maxLen for the lowercased inputs.
// Case-insensitively equal strings (including two empty strings) score 1.0.
func Similarity(a, b string) float64 {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la == lb {
		return 1.0
	}

	ra, rb := []rune(la), []rune(lb)
	maxLen := max(len(ra), len(rb))
	return 1 - float64(distance(ra, rb))/float64(maxLen)
}

// Distance is the Levenshtein edit distance between a and b, compared
// case-insensitively, with unit cost for insertion, deletion and substitution.
func Distance(a, b string) int {
	return distance([]rune(strings.ToLower(a)), []rune(strings.ToLower(b)))
}

func distance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Two rows of the (len(a)+1) x (len(b)+1) matrix are enough.
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
