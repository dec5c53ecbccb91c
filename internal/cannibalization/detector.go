package cannibalization

import (
	"fmt"
	"sort"

	"github.com/adscope/kwc/internal/types"
)

// Detector runs the cannibalization detectors with a fixed scoring Config.
// It holds no state between calls and is safe for concurrent use.
type Detector struct {
	config Config

	// Observer, when set, is told about every detector run made through Analyze
	Observer Observer
}

// NewDetector creates a detector after validating its configuration.
//
// Example:
//
//	cfg, err := cannibalization.ConfigFromEnv()
//	if err != nil {
//	    return fmt.Errorf("loading engine config: %w", err)
//	}
//	detector, err := cannibalization.NewDetector(cfg)
//	if err != nil {
//	    return fmt.Errorf("failed to create detector: %w", err)
//	}
func NewDetector(config Config) (*Detector, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Detector{config: config}, nil
}

// Config returns the scoring configuration of the detector
func (d *Detector) Config() Config {
	return d.config
}

var defaultDetector = &Detector{config: DefaultConfig()}

// DetectCannibalization runs the pairwise scanner with DefaultConfig.
func DetectCannibalization(performances []types.PerformanceRecord, keywords []types.KeywordRecord, assignments types.CampaignAssignments) []types.CannibalizationResult {
	return defaultDetector.DetectCannibalization(performances, keywords, assignments)
}

// FindSelfCannibalization runs the self-duplicate detector with DefaultConfig.
func FindSelfCannibalization(keywords []types.KeywordRecord, campaignSets types.CampaignSets) []types.CannibalizationResult {
	return defaultDetector.FindSelfCannibalization(keywords, campaignSets)
}

// DetectBroadMatchCannibalization runs the broad-match detector with DefaultConfig.
func DetectBroadMatchCannibalization(keywords []types.KeywordRecord, performances []types.PerformanceRecord) []types.CannibalizationResult {
	return defaultDetector.DetectBroadMatchCannibalization(keywords, performances)
}

// GetCannibalizationSummary is Summarize under the name used by callers of the engine.
func GetCannibalizationSummary(results []types.CannibalizationResult) types.CannibalizationSummary {
	return Summarize(results)
}

// SortByScore orders results by descending score. Ties keep their input order.
func SortByScore(results []types.CannibalizationResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
}

func clampScore(score int) int {
	return max(0, min(score, MaxScore))
}
