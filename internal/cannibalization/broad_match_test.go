package cannibalization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adscope/kwc/internal/types"
)

func broadFixture(broadImpressions, broadCTR, exactImpressions, exactCTR float64) ([]types.KeywordRecord, []types.PerformanceRecord) {
	keywords := []types.KeywordRecord{
		{Keyword: "running shoes", MatchType: types.MatchBroad},
		{Keyword: "running shoes for men", MatchType: types.MatchExact},
	}
	performances := []types.PerformanceRecord{
		{Keyword: "running shoes", CampaignID: "auto-broad", Impressions: broadImpressions, CTR: broadCTR},
		{Keyword: "running shoes for men", CampaignID: "exact-men", Impressions: exactImpressions, CTR: exactCTR},
	}
	return keywords, performances
}

func TestDetectBroadMatchCannibalization(t *testing.T) {
	keywords, performances := broadFixture(1000, 0.3, 200, 0.8)

	results := DetectBroadMatchCannibalization(keywords, performances)

	require.Len(t, results, 1)
	r := results[0]
	assert.Equal(t, "running shoes", r.Keyword1)
	assert.Equal(t, "running shoes for men", r.Keyword2)
	assert.Equal(t, "running shoes", r.Keyword1ID)
	assert.Equal(t, types.IdentifierKindTextFallback, r.Keyword1IDKind)
	assert.Equal(t, "auto-broad", r.Campaign1ID)
	assert.Equal(t, "exact-men", r.Campaign2ID)
	assert.Equal(t, BroadMatchScore, r.Score)
	assert.Equal(t, ReasonBroadMatchSteal, r.Reason)
	assert.Equal(t, "Add 'running shoes for men' as negative exact to broad match campaign", r.SuggestedAction)
	assert.Equal(t, types.DetectorBroadMatch, r.Detector)
}

func TestDetectBroadMatchCannibalization_Conditions(t *testing.T) {
	tests := []struct {
		name                      string
		broadImpr, broadCTR       float64
		specificImpr, specificCTR float64
		want                      int
	}{
		{"steals impressions", 1000, 0.3, 200, 0.8, 1},
		{"exactly twice the impressions", 400, 0.3, 200, 0.8, 0},
		{"fewer impressions", 300, 0.3, 200, 0.8, 0},
		{"equal ctr", 1000, 0.8, 200, 0.8, 0},
		{"better ctr", 1000, 0.9, 200, 0.8, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keywords, performances := broadFixture(tt.broadImpr, tt.broadCTR, tt.specificImpr, tt.specificCTR)
			assert.Len(t, DetectBroadMatchCannibalization(keywords, performances), tt.want)
		})
	}
}

func TestDetectBroadMatchCannibalization_MatchTypes(t *testing.T) {
	performances := []types.PerformanceRecord{
		{Keyword: "shoes", Impressions: 5000, CTR: 0.1},
		{Keyword: "red shoes", Impressions: 100, CTR: 1.0},
		{Keyword: "blue shoes", Impressions: 100, CTR: 1.0},
		{Keyword: "cheap shoes online", Impressions: 100, CTR: 1.0},
		{Keyword: "shoes sale", Impressions: 100, CTR: 1.0},
	}
	keywords := []types.KeywordRecord{
		{Keyword: "shoes", MatchType: types.MatchBroad},
		{Keyword: "red shoes", MatchType: types.MatchPhrase},
		{Keyword: "blue shoes", MatchType: types.MatchExact},
		{Keyword: "cheap shoes online", MatchType: types.MatchLongTail},
		{Keyword: "shoes sale", MatchType: types.MatchBroad},
	}

	results := DetectBroadMatchCannibalization(keywords, performances)

	require.Len(t, results, 2)
	assert.Equal(t, "red shoes", results[0].Keyword2)
	assert.Equal(t, "blue shoes", results[1].Keyword2)
}

func TestDetectBroadMatchCannibalization_CaseInsensitiveContainment(t *testing.T) {
	keywords := []types.KeywordRecord{
		{Keyword: "Running Shoes", MatchType: types.MatchBroad},
		{Keyword: "RUNNING SHOES FOR MEN", MatchType: types.MatchPhrase},
	}
	performances := []types.PerformanceRecord{
		{Keyword: "running shoes", Impressions: 1000, CTR: 0.3},
		{Keyword: "running shoes for men", Impressions: 200, CTR: 0.8},
	}

	assert.Len(t, DetectBroadMatchCannibalization(keywords, performances), 1)
}

func TestDetectBroadMatchCannibalization_LookupByID(t *testing.T) {
	keywords := []types.KeywordRecord{
		{ID: "kw-b", Keyword: "running shoes", MatchType: types.MatchBroad},
		{ID: "kw-e", Keyword: "running shoes for men", MatchType: types.MatchExact},
	}
	performances := []types.PerformanceRecord{
		{KeywordID: "kw-b", Keyword: "running shoes", Impressions: 1000, CTR: 0.3},
		{KeywordID: "kw-e", Keyword: "running shoes for men", Impressions: 200, CTR: 0.8},
	}

	results := DetectBroadMatchCannibalization(keywords, performances)

	require.Len(t, results, 1)
	assert.Equal(t, "kw-b", results[0].Keyword1ID)
	assert.Equal(t, "kw-e", results[0].Keyword2ID)
	assert.Equal(t, types.IdentifierKindID, results[0].Keyword2IDKind)
}

func TestDetectBroadMatchCannibalization_MissingPerformance(t *testing.T) {
	keywords, performances := broadFixture(1000, 0.3, 200, 0.8)

	assert.Empty(t, DetectBroadMatchCannibalization(keywords, performances[:1]))
	assert.Empty(t, DetectBroadMatchCannibalization(keywords, nil))
	assert.Empty(t, DetectBroadMatchCannibalization(nil, performances))
}
