// Package similarity compares keyword strings.
//
// Similarity is a normalized Levenshtein score in [0, 1]. Overlap classifies
// how two keyword texts overlap (exact duplicate, containment, or shared
// words) in a fixed priority order. Both functions are pure, case-insensitive
// and symmetric in their classification.
package similarity
