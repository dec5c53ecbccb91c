package cannibalization

// forEachPair calls fn once for every unordered pair (i, j) with i < j,
// in row-major order. Every detector that compares items pairwise goes
// through here so that they all visit pairs in the same order.
func forEachPair[T any](items []T, fn func(i, j int, a, b T)) {
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			fn(i, j, items[i], items[j])
		}
	}
}

// pairCount is the number of pairs forEachPair visits for n items.
func pairCount(n int) int {
	if n < 2 {
		return 0
	}
	return n * (n - 1) / 2
}
