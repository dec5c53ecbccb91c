package types

import (
	"fmt"
	"math"
	"strings"
)

// MatchType is the targeting granularity of a keyword
type MatchType string

const (
	MatchBroad    MatchType = "broad"
	MatchPhrase   MatchType = "phrase"
	MatchExact    MatchType = "exact"
	MatchLongTail MatchType = "long_tail"
)

// IsValid checks if the match type value is valid
func (m MatchType) IsValid() bool {
	switch m {
	case MatchBroad, MatchPhrase, MatchExact, MatchLongTail:
		return true
	}
	return false
}

// IsSpecific reports whether the match type is narrower than broad match.
// Long-tail keywords are not counted: they are a keyword shape, not an auction setting.
func (m MatchType) IsSpecific() bool {
	return m == MatchPhrase || m == MatchExact
}

// ParseMatchType accepts the spellings used by ad platforms and exports
// ("Broad", "EXACT", "LongTail", "long-tail") and returns the canonical value.
func ParseMatchType(s string) (MatchType, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)
	if normalized == "longtail" {
		normalized = string(MatchLongTail)
	}
	m := MatchType(normalized)
	if !m.IsValid() {
		return "", fmt.Errorf("invalid match type: %q", s)
	}
	return m, nil
}

// UnmarshalText lets snapshot files use any spelling ParseMatchType accepts.
func (m *MatchType) UnmarshalText(text []byte) error {
	parsed, err := ParseMatchType(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// KeywordRecord is a keyword as assigned by the campaign-management side.
// Several records may share the same text (one per campaign).
type KeywordRecord struct {
	ID        string    `json:"id,omitempty" yaml:"id,omitempty"`
	Keyword   string    `json:"keyword" yaml:"keyword"`
	MatchType MatchType `json:"match_type" yaml:"match_type"`
	Category  string    `json:"category,omitempty" yaml:"category,omitempty"`
}

// NormalizedText is the grouping identity of the record.
func (k KeywordRecord) NormalizedText() string {
	return NormalizeKeyword(k.Keyword)
}

// Validate checks if the keyword record has valid field values
func (k KeywordRecord) Validate() error {
	if strings.TrimSpace(k.Keyword) == "" {
		return fmt.Errorf("keyword is required")
	}
	if !k.MatchType.IsValid() {
		return fmt.Errorf("invalid match type: %s", k.MatchType)
	}
	return nil
}

// PerformanceRecord carries the metrics measured for one keyword.
// CTR, CVR and ACOS are percentages; ROAS is a ratio.
type PerformanceRecord struct {
	KeywordID   string  `json:"keyword_id" yaml:"keyword_id"`
	Keyword     string  `json:"keyword" yaml:"keyword"`
	CampaignID  string  `json:"campaign_id,omitempty" yaml:"campaign_id,omitempty"`
	Impressions float64 `json:"impressions" yaml:"impressions"`
	Clicks      float64 `json:"clicks" yaml:"clicks"`
	Spend       float64 `json:"spend" yaml:"spend"`
	Sales       float64 `json:"sales" yaml:"sales"`
	CTR         float64 `json:"ctr" yaml:"ctr"`
	CVR         float64 `json:"cvr" yaml:"cvr"`
	ACOS        float64 `json:"acos" yaml:"acos"`
	ROAS        float64 `json:"roas" yaml:"roas"`
}

// Validate checks the record the way an ingestion pipeline should.
// The detectors themselves never validate metrics.
func (p PerformanceRecord) Validate() error {
	if p.KeywordID == "" && strings.TrimSpace(p.Keyword) == "" {
		return fmt.Errorf("keyword_id or keyword is required")
	}
	metrics := []struct {
		name  string
		value float64
	}{
		{"impressions", p.Impressions},
		{"clicks", p.Clicks},
		{"spend", p.Spend},
		{"sales", p.Sales},
		{"ctr", p.CTR},
		{"cvr", p.CVR},
		{"acos", p.ACOS},
		{"roas", p.ROAS},
	}
	for _, m := range metrics {
		if math.IsNaN(m.value) || math.IsInf(m.value, 0) {
			return fmt.Errorf("%s must be a finite number (got %v)", m.name, m.value)
		}
		if m.value < 0 {
			return fmt.Errorf("%s cannot be negative (got %v)", m.name, m.value)
		}
	}
	return nil
}

// CampaignAssignments maps a resolved identifier (keyword id or keyword text)
// to the single campaign it runs in.
type CampaignAssignments map[string]string

// CampaignSets maps a keyword id or keyword text to every campaign it is assigned to.
type CampaignSets map[string][]string

// NormalizeKeyword folds keyword text for comparison.
func NormalizeKeyword(s string) string {
	return strings.ToLower(s)
}
