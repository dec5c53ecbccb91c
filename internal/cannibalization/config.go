package cannibalization

import (
	"fmt"
	"os"
	"strconv"

	"github.com/adscope/kwc/internal/similarity"
)

// Config holds the scoring rules of the detection engine.
// DefaultConfig reproduces the package constants exactly.
type Config struct {
	// SignificanceThreshold is the minimum pairwise score to report
	// Default: 50
	SignificanceThreshold int `yaml:"significance_threshold" json:"significance_threshold"`

	// Rule weights for the pairwise scanner
	WeightCrossCampaignDuplicate int `yaml:"weight_cross_campaign_duplicate" json:"weight_cross_campaign_duplicate"`
	WeightOverlap                int `yaml:"weight_overlap" json:"weight_overlap"`
	WeightHighSimilarity         int `yaml:"weight_high_similarity" json:"weight_high_similarity"`
	WeightCombinedWorse          int `yaml:"weight_combined_worse" json:"weight_combined_worse"`
	WeightLowCTR                 int `yaml:"weight_low_ctr" json:"weight_low_ctr"`
	WeightSameCampaignOverlap    int `yaml:"weight_same_campaign_overlap" json:"weight_same_campaign_overlap"`

	// HighSimilarityThreshold: similarity strictly above this triggers the similarity rule
	// Default: 0.8
	HighSimilarityThreshold float64 `yaml:"high_similarity_threshold" json:"high_similarity_threshold"`

	// LowCTRSimilarityThreshold: similarity strictly above this arms the low-CTR rule
	// Default: 0.6
	LowCTRSimilarityThreshold float64 `yaml:"low_ctr_similarity_threshold" json:"low_ctr_similarity_threshold"`

	// LowCTRThreshold is the CTR percentage under which both keywords count as low CTR
	// Default: 0.5
	LowCTRThreshold float64 `yaml:"low_ctr_threshold" json:"low_ctr_threshold"`

	// CombinedACOSFactor: combined ACOS above average ACOS times this adds WeightCombinedWorse
	// Default: 1.2
	CombinedACOSFactor float64 `yaml:"combined_acos_factor" json:"combined_acos_factor"`

	// WordOverlapRatio is the share of the shorter keyword's words that must be shared
	// Default: 0.7
	WordOverlapRatio float64 `yaml:"word_overlap_ratio" json:"word_overlap_ratio"`

	// BroadImpressionRatio: broad impressions must exceed specific impressions times this
	// Default: 2.0
	BroadImpressionRatio float64 `yaml:"broad_impression_ratio" json:"broad_impression_ratio"`

	// Fixed scores of the self-duplicate and broad-match detectors
	SelfDuplicateScore int `yaml:"self_duplicate_score" json:"self_duplicate_score"`
	BroadMatchScore    int `yaml:"broad_match_score" json:"broad_match_score"`
}

// DefaultConfig returns the engine's reference scoring rules
func DefaultConfig() Config {
	return Config{
		SignificanceThreshold:        SignificanceThreshold,
		WeightCrossCampaignDuplicate: WeightCrossCampaignDuplicate,
		WeightOverlap:                WeightOverlap,
		WeightHighSimilarity:         WeightHighSimilarity,
		WeightCombinedWorse:          WeightCombinedWorse,
		WeightLowCTR:                 WeightLowCTR,
		WeightSameCampaignOverlap:    WeightSameCampaignOverlap,
		HighSimilarityThreshold:      HighSimilarityThreshold,
		LowCTRSimilarityThreshold:    LowCTRSimilarityThreshold,
		LowCTRThreshold:              LowCTRThreshold,
		CombinedACOSFactor:           CombinedACOSFactor,
		WordOverlapRatio:             similarity.WordOverlapRatio,
		BroadImpressionRatio:         BroadImpressionRatio,
		SelfDuplicateScore:           SelfDuplicateScore,
		BroadMatchScore:              BroadMatchScore,
	}
}

// Validate checks if the configuration has valid values
func (c Config) Validate() error {
	if c.SignificanceThreshold < 1 || c.SignificanceThreshold > MaxScore {
		return fmt.Errorf("significance_threshold must be between 1 and %d (got %d)",
			MaxScore, c.SignificanceThreshold)
	}

	weights := []struct {
		name  string
		value int
	}{
		{"weight_cross_campaign_duplicate", c.WeightCrossCampaignDuplicate},
		{"weight_overlap", c.WeightOverlap},
		{"weight_high_similarity", c.WeightHighSimilarity},
		{"weight_combined_worse", c.WeightCombinedWorse},
		{"weight_low_ctr", c.WeightLowCTR},
		{"weight_same_campaign_overlap", c.WeightSameCampaignOverlap},
		{"self_duplicate_score", c.SelfDuplicateScore},
		{"broad_match_score", c.BroadMatchScore},
	}
	for _, w := range weights {
		if w.value < 0 || w.value > MaxScore {
			return fmt.Errorf("%s must be between 0 and %d (got %d)", w.name, MaxScore, w.value)
		}
	}

	ratios := []struct {
		name  string
		value float64
	}{
		{"high_similarity_threshold", c.HighSimilarityThreshold},
		{"low_ctr_similarity_threshold", c.LowCTRSimilarityThreshold},
		{"word_overlap_ratio", c.WordOverlapRatio},
	}
	for _, r := range ratios {
		if r.value < 0.0 || r.value > 1.0 {
			return fmt.Errorf("%s must be between 0.0 and 1.0 (got %.2f)", r.name, r.value)
		}
	}

	if c.LowCTRThreshold < 0 || c.LowCTRThreshold > 100 {
		return fmt.Errorf("low_ctr_threshold must be a percentage between 0 and 100 (got %.2f)",
			c.LowCTRThreshold)
	}
	if c.CombinedACOSFactor <= 0 {
		return fmt.Errorf("combined_acos_factor must be positive (got %.2f)", c.CombinedACOSFactor)
	}
	if c.BroadImpressionRatio <= 0 {
		return fmt.Errorf("broad_impression_ratio must be positive (got %.2f)", c.BroadImpressionRatio)
	}
	return nil
}

// String returns a human-readable representation of the config
func (c Config) String() string {
	return fmt.Sprintf(
		"Config{Threshold: %d, Weights: [dup=%d overlap=%d sim=%d worse=%d ctr=%d same=%d], "+
			"Similarity: %.2f, LowCTRSimilarity: %.2f, LowCTR: %.2f, ACOSFactor: %.2f, "+
			"WordOverlap: %.2f, BroadRatio: %.2f, SelfDup: %d, Broad: %d}",
		c.SignificanceThreshold, c.WeightCrossCampaignDuplicate, c.WeightOverlap,
		c.WeightHighSimilarity, c.WeightCombinedWorse, c.WeightLowCTR, c.WeightSameCampaignOverlap,
		c.HighSimilarityThreshold, c.LowCTRSimilarityThreshold, c.LowCTRThreshold,
		c.CombinedACOSFactor, c.WordOverlapRatio, c.BroadImpressionRatio,
		c.SelfDuplicateScore, c.BroadMatchScore,
	)
}

// ConfigFromEnv creates a Config from environment variables, falling back to defaults
//
// Environment variables:
//   - KWC_SIGNIFICANCE_THRESHOLD: Minimum pairwise score to report (default: 50)
//   - KWC_WEIGHT_CROSS_CAMPAIGN_DUPLICATE: Same text in different campaigns (default: 90)
//   - KWC_WEIGHT_OVERLAP: Overlapping match types (default: 70)
//   - KWC_WEIGHT_HIGH_SIMILARITY: Near-duplicate text (default: 40)
//   - KWC_WEIGHT_COMBINED_WORSE: Combined ACOS worse than individual (default: 20)
//   - KWC_WEIGHT_LOW_CTR: Both keywords with low CTR (default: 30)
//   - KWC_WEIGHT_SAME_CAMPAIGN_OVERLAP: Overlap inside one campaign (default: 50)
//   - KWC_SIMILARITY_THRESHOLD: Similarity for the near-duplicate rule (default: 0.8)
//   - KWC_LOW_CTR_SIMILARITY_THRESHOLD: Similarity for the low-CTR rule (default: 0.6)
//   - KWC_LOW_CTR_THRESHOLD: CTR percentage considered low (default: 0.5)
//   - KWC_COMBINED_ACOS_FACTOR: Combined vs average ACOS factor (default: 1.2)
//   - KWC_WORD_OVERLAP_RATIO: Shared word ratio for word overlap (default: 0.7)
//   - KWC_BROAD_IMPRESSION_RATIO: Broad vs specific impression ratio (default: 2.0)
//   - KWC_SELF_DUPLICATE_SCORE: Score of self-duplicate alerts (default: 100)
//   - KWC_BROAD_MATCH_SCORE: Score of broad-match alerts (default: 70)
//
// Returns an error if any environment variable has an invalid value.
func ConfigFromEnv() (Config, error) {
	return ApplyEnv(DefaultConfig())
}

// ApplyEnv overlays KWC_* environment variables onto cfg and validates the result.
func ApplyEnv(cfg Config) (Config, error) {
	ints := []struct {
		key  string
		dest *int
	}{
		{"KWC_SIGNIFICANCE_THRESHOLD", &cfg.SignificanceThreshold},
		{"KWC_WEIGHT_CROSS_CAMPAIGN_DUPLICATE", &cfg.WeightCrossCampaignDuplicate},
		{"KWC_WEIGHT_OVERLAP", &cfg.WeightOverlap},
		{"KWC_WEIGHT_HIGH_SIMILARITY", &cfg.WeightHighSimilarity},
		{"KWC_WEIGHT_COMBINED_WORSE", &cfg.WeightCombinedWorse},
		{"KWC_WEIGHT_LOW_CTR", &cfg.WeightLowCTR},
		{"KWC_WEIGHT_SAME_CAMPAIGN_OVERLAP", &cfg.WeightSameCampaignOverlap},
		{"KWC_SELF_DUPLICATE_SCORE", &cfg.SelfDuplicateScore},
		{"KWC_BROAD_MATCH_SCORE", &cfg.BroadMatchScore},
	}
	for _, v := range ints {
		if err := parseEnvInt(v.key, v.dest); err != nil {
			return cfg, err
		}
	}

	floats := []struct {
		key  string
		dest *float64
	}{
		{"KWC_SIMILARITY_THRESHOLD", &cfg.HighSimilarityThreshold},
		{"KWC_LOW_CTR_SIMILARITY_THRESHOLD", &cfg.LowCTRSimilarityThreshold},
		{"KWC_LOW_CTR_THRESHOLD", &cfg.LowCTRThreshold},
		{"KWC_COMBINED_ACOS_FACTOR", &cfg.CombinedACOSFactor},
		{"KWC_WORD_OVERLAP_RATIO", &cfg.WordOverlapRatio},
		{"KWC_BROAD_IMPRESSION_RATIO", &cfg.BroadImpressionRatio},
	}
	for _, v := range floats {
		if err := parseEnvFloat(v.key, v.dest); err != nil {
			return cfg, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration from environment: %w", err)
	}
	return cfg, nil
}

// parseEnvFloat parses a float64 from an environment variable
func parseEnvFloat(key string, dest *float64) error {
	value := os.Getenv(key)
	if value == "" {
		return nil // Use default
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dest = parsed
	return nil
}

// parseEnvInt parses an int from an environment variable
func parseEnvInt(key string, dest *int) error {
	value := os.Getenv(key)
	if value == "" {
		return nil // Use default
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dest = parsed
	return nil
}
