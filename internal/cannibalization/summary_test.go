package cannibalization

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/adscope/kwc/internal/types"
)

func scored(scores ...int) []types.CannibalizationResult {
	results := make([]types.CannibalizationResult, 0, len(scores))
	for _, s := range scores {
		results = append(results, types.CannibalizationResult{Keyword1: "a", Keyword2: "b", Score: s})
	}
	return results
}

func TestGetCannibalizationSummary_Empty(t *testing.T) {
	assert.Equal(t, types.CannibalizationSummary{}, GetCannibalizationSummary(nil))
	assert.Equal(t, types.CannibalizationSummary{}, GetCannibalizationSummary([]types.CannibalizationResult{}))
}

func TestSummarize_Bands(t *testing.T) {
	summary := Summarize(scored(100, 80, 79, 60, 59, 50, 0))

	assert.Equal(t, 7, summary.Total)
	assert.Equal(t, 2, summary.Severe)
	assert.Equal(t, 2, summary.Moderate)
	assert.Equal(t, 3, summary.Mild)
	assert.Equal(t, 0.0, summary.TotalWastedSpend)
}

func TestSuggestAction(t *testing.T) {
	tests := []struct {
		name               string
		score              int
		differentCampaigns bool
		matchTypeCause     bool
		want               string
	}{
		{"severe across campaigns", 90, true, false, ActionRemoveOrNegate},
		{"severe boundary across campaigns", 80, true, true, ActionRemoveOrNegate},
		{"severe same campaign", 100, false, true, ActionConsolidate},
		{"moderate with overlap", 70, true, true, ActionReviewMatchTypes},
		{"moderate boundary with overlap", 60, false, true, ActionReviewMatchTypes},
		{"moderate without overlap", 79, true, false, ActionMonitor},
		{"mild", 59, true, true, ActionCrossNegativesOrBid},
		{"mild zero", 0, false, false, ActionCrossNegativesOrBid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SuggestAction(tt.score, tt.differentCampaigns, tt.matchTypeCause))
		})
	}
}

func TestFilterResults(t *testing.T) {
	results := scored(100, 75, 55)

	assert.Len(t, FilterResults(results, 0), 3)
	assert.Len(t, FilterResults(results, 60), 2)
	assert.Len(t, FilterResults(results, 0, types.SeveritySevere), 1)
	assert.Len(t, FilterResults(results, 0, types.SeverityModerate, types.SeverityMild), 2)
	assert.Empty(t, FilterResults(results, 90, types.SeverityMild))
	assert.Len(t, results, 3, "input must not be modified")
}

func TestSortByScore_Stable(t *testing.T) {
	results := []types.CannibalizationResult{
		{Keyword1: "first", Score: 70},
		{Keyword1: "top", Score: 100},
		{Keyword1: "second", Score: 70},
	}

	SortByScore(results)

	assert.Equal(t, "top", results[0].Keyword1)
	assert.Equal(t, "first", results[1].Keyword1)
	assert.Equal(t, "second", results[2].Keyword1)
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 100, clampScore(250))
	assert.Equal(t, 0, clampScore(-5))
	assert.Equal(t, 64, clampScore(64))
}
