package types

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMatchType(t *testing.T) {
	tests := []struct {
		input   string
		want    MatchType
		wantErr bool
	}{
		{"broad", MatchBroad, false},
		{"Broad", MatchBroad, false},
		{"EXACT", MatchExact, false},
		{" phrase ", MatchPhrase, false},
		{"LongTail", MatchLongTail, false},
		{"long-tail", MatchLongTail, false},
		{"long tail", MatchLongTail, false},
		{"long_tail", MatchLongTail, false},
		{"", "", true},
		{"fuzzy", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMatchType(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchType_IsSpecific(t *testing.T) {
	assert.True(t, MatchExact.IsSpecific())
	assert.True(t, MatchPhrase.IsSpecific())
	assert.False(t, MatchBroad.IsSpecific())
	assert.False(t, MatchLongTail.IsSpecific())
}

func TestMatchType_UnmarshalJSON(t *testing.T) {
	var kw KeywordRecord
	require.NoError(t, json.Unmarshal([]byte(`{"keyword":"running shoes","match_type":"Exact"}`), &kw))
	assert.Equal(t, MatchExact, kw.MatchType)

	err := json.Unmarshal([]byte(`{"keyword":"running shoes","match_type":"sideways"}`), &kw)
	assert.Error(t, err)
}

func TestKeywordRecord_Validate(t *testing.T) {
	assert.NoError(t, KeywordRecord{Keyword: "shoes", MatchType: MatchBroad}.Validate())
	assert.ErrorContains(t, KeywordRecord{Keyword: "  ", MatchType: MatchBroad}.Validate(), "keyword is required")
	assert.ErrorContains(t, KeywordRecord{Keyword: "shoes"}.Validate(), "invalid match type")
}

func TestPerformanceRecord_Validate(t *testing.T) {
	valid := PerformanceRecord{Keyword: "shoes", Impressions: 100, Clicks: 2, CTR: 2}
	assert.NoError(t, valid.Validate())

	noKey := PerformanceRecord{}
	assert.ErrorContains(t, noKey.Validate(), "keyword_id or keyword is required")

	negative := valid
	negative.Spend = -1
	assert.ErrorContains(t, negative.Validate(), "spend cannot be negative")

	nan := valid
	nan.ACOS = math.NaN()
	assert.ErrorContains(t, nan.Validate(), "acos must be a finite number")

	inf := valid
	inf.ROAS = math.Inf(1)
	assert.ErrorContains(t, inf.Validate(), "roas must be a finite number")
}

func TestResolveIdentifier(t *testing.T) {
	withID := PerformanceRecord{KeywordID: "kw-1", Keyword: "Test Keyword"}
	withoutID := PerformanceRecord{Keyword: "Test Keyword"}

	assert.Equal(t, Identifier{Kind: IdentifierKindID, Value: "kw-1"}, ResolveIdentifier(withID))
	assert.Equal(t, Identifier{Kind: IdentifierKindTextFallback, Value: "Test Keyword"}, ResolveIdentifier(withoutID))
	assert.Equal(t, "kw-1", ResolveID(withID))
	assert.Equal(t, "Test Keyword", ResolveID(withoutID))
	assert.True(t, ResolveIdentifier(withoutID).IsFallback())
	assert.False(t, ResolveIdentifier(withID).IsFallback())
}

func TestKeywordIdentifier(t *testing.T) {
	assert.Equal(t, "kw-1", KeywordIdentifier(KeywordRecord{ID: "kw-1", Keyword: "a"}).Value)
	assert.Equal(t, IdentifierKindTextFallback, KeywordIdentifier(KeywordRecord{Keyword: "a"}).Kind)
}

func TestSeverityForScore(t *testing.T) {
	assert.Equal(t, SeveritySevere, SeverityForScore(100))
	assert.Equal(t, SeveritySevere, SeverityForScore(80))
	assert.Equal(t, SeverityModerate, SeverityForScore(79))
	assert.Equal(t, SeverityModerate, SeverityForScore(60))
	assert.Equal(t, SeverityMild, SeverityForScore(59))
	assert.Equal(t, SeverityMild, SeverityForScore(0))
}

func TestCannibalizationResult_Validate(t *testing.T) {
	assert.NoError(t, CannibalizationResult{Keyword1: "a", Keyword2: "b", Score: 70}.Validate())
	assert.ErrorContains(t, CannibalizationResult{Keyword1: "a", Keyword2: "b", Score: 101}.Validate(), "score")
	assert.ErrorContains(t, CannibalizationResult{Keyword1: "a", Score: 70}.Validate(), "both keywords")
}
