package types

import "fmt"

// DetectorName identifies which detector produced a result
type DetectorName string

const (
	DetectorPairwise      DetectorName = "pairwise"
	DetectorSelfDuplicate DetectorName = "self_duplicate"
	DetectorBroadMatch    DetectorName = "broad_match"
)

// CannibalizationResult is one alert: two keywords competing for the same auctions.
type CannibalizationResult struct {
	Keyword1       string         `json:"keyword1"`
	Keyword2       string         `json:"keyword2"`
	Keyword1ID     string         `json:"keyword1_id"`
	Keyword2ID     string         `json:"keyword2_id"`
	Keyword1IDKind IdentifierKind `json:"keyword1_id_kind,omitempty"`
	Keyword2IDKind IdentifierKind `json:"keyword2_id_kind,omitempty"`
	Campaign1ID    string         `json:"campaign1_id,omitempty"`
	Campaign2ID    string         `json:"campaign2_id,omitempty"`

	// Score is 0-100, higher is more severe
	Score int `json:"score"`

	// Reason lists the triggered rules joined by "; " in the order they fired
	Reason string `json:"reason"`

	SuggestedAction string       `json:"suggested_action"`
	Detector        DetectorName `json:"detector,omitempty"`
}

// Severity returns the severity band of the result's score
func (r CannibalizationResult) Severity() Severity {
	return SeverityForScore(r.Score)
}

// Validate checks if the result has valid values
func (r CannibalizationResult) Validate() error {
	if r.Score < 0 || r.Score > 100 {
		return fmt.Errorf("score must be between 0 and 100 (got %d)", r.Score)
	}
	if r.Keyword1 == "" || r.Keyword2 == "" {
		return fmt.Errorf("both keywords must be set")
	}
	return nil
}

// CannibalizationSummary counts results per severity band.
type CannibalizationSummary struct {
	Total    int `json:"total"`
	Severe   int `json:"severe"`
	Moderate int `json:"moderate"`
	Mild     int `json:"mild"`

	// TotalWastedSpend needs spend attribution per alert, which no detector
	// produces. It is always 0.
	TotalWastedSpend float64 `json:"total_wasted_spend"`
}

// Severity buckets a cannibalization score
type Severity string

const (
	SeveritySevere   Severity = "severe"
	SeverityModerate Severity = "moderate"
	SeverityMild     Severity = "mild"
)

// Score bands shared by every detector and the summary.
const (
	SevereScore   = 80
	ModerateScore = 60
)

// SeverityForScore maps a score onto its band
func SeverityForScore(score int) Severity {
	switch {
	case score >= SevereScore:
		return SeveritySevere
	case score >= ModerateScore:
		return SeverityModerate
	default:
		return SeverityMild
	}
}

// IsValid checks if the severity value is valid
func (s Severity) IsValid() bool {
	switch s {
	case SeveritySevere, SeverityModerate, SeverityMild:
		return true
	}
	return false
}
