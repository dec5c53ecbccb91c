package cannibalization

import "github.com/adscope/kwc/internal/types"

// Summarize counts results per severity band.
// TotalWastedSpend is left at 0: the results carry no spend attribution.
func Summarize(results []types.CannibalizationResult) types.CannibalizationSummary {
	summary := types.CannibalizationSummary{Total: len(results)}
	for _, r := range results {
		switch r.Severity() {
		case types.SeveritySevere:
			summary.Severe++
		case types.SeverityModerate:
			summary.Moderate++
		default:
			summary.Mild++
		}
	}
	return summary
}

// FilterResults keeps results scoring at least minScore whose severity is in
// severities (all severities when empty). The input slice is not modified.
func FilterResults(results []types.CannibalizationResult, minScore int, severities ...types.Severity) []types.CannibalizationResult {
	allowed := make(map[types.Severity]bool, len(severities))
	for _, s := range severities {
		allowed[s] = true
	}

	filtered := make([]types.CannibalizationResult, 0, len(results))
	for _, r := range results {
		if r.Score < minScore {
			continue
		}
		if len(allowed) > 0 && !allowed[r.Severity()] {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}
