package similarity

import "strings"

// OverlapKind classifies how two keyword texts overlap
type OverlapKind string

const (
	OverlapNone OverlapKind = ""

	// OverlapExactDuplicate: the texts are equal ignoring case
	OverlapExactDuplicate OverlapKind = "exact_duplicate"

	// OverlapPhraseContainsExact: one text contains the other
	OverlapPhraseContainsExact OverlapKind = "phrase_contains_exact"

	// OverlapBroadPhrase: the texts share most of their words
	OverlapBroadPhrase OverlapKind = "broad_phrase_overlap"
)

// WordOverlapRatio is the share of the shorter keyword's words that must
// appear in the other keyword for OverlapBroadPhrase.
const WordOverlapRatio = 0.7

// String returns a human-readable label for use in alert reasons
func (k OverlapKind) String() string {
	switch k {
	case OverlapExactDuplicate:
		return "exact duplicate"
	case OverlapPhraseContainsExact:
		return "phrase contains exact"
	case OverlapBroadPhrase:
		return "broad/phrase word overlap"
	default:
		return "none"
	}
}

// Overlap classifies the overlap between a and b using WordOverlapRatio.
func Overlap(a, b string) OverlapKind {
	return OverlapWithRatio(a, b, WordOverlapRatio)
}

// OverlapWithRatio is Overlap with a configurable word-overlap ratio.
//
// Checks run in priority order and the first match wins: exact duplicate,
// then substring containment, then word-set overlap. Containment must come
// before the word check so that a short keyword inside a longer one is not
// reported as mere word overlap.
func OverlapWithRatio(a, b string, ratio float64) OverlapKind {
	la, lb := strings.ToLower(a), strings.ToLower(b)

	if la == lb {
		return OverlapExactDuplicate
	}
	if strings.Contains(la, lb) || strings.Contains(lb, la) {
		return OverlapPhraseContainsExact
	}

	wordsA, wordsB := wordSet(la), wordSet(lb)
	shorter := min(len(wordsA), len(wordsB))
	if shorter == 0 {
		return OverlapNone
	}

	common := 0
	for w := range wordsA {
		if _, ok := wordsB[w]; ok {
			common++
		}
	}
	if float64(common) >= ratio*float64(shorter) {
		return OverlapBroadPhrase
	}
	return OverlapNone
}

func wordSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
