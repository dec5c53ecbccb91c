package cannibalization

import "github.com/adscope/kwc/internal/types"

// Rule weights for the pairwise scanner. Rules are independent and additive.
const (
	WeightCrossCampaignDuplicate = 90 // same text, different campaigns
	WeightOverlap                = 70 // any OverlapKind other than none
	WeightHighSimilarity         = 40 // similarity above HighSimilarityThreshold
	WeightCombinedWorse          = 20 // on top of WeightHighSimilarity
	WeightLowCTR                 = 30
	WeightSameCampaignOverlap    = 50
)

// Fixed scores of the single-rule detectors.
const (
	SelfDuplicateScore = 100
	BroadMatchScore    = 70
)

const (
	// SignificanceThreshold is the minimum pairwise score that is reported.
	SignificanceThreshold = 50

	// MaxScore is the clamp applied to accumulated scores.
	MaxScore = 100

	SevereScore   = types.SevereScore
	ModerateScore = types.ModerateScore
)

const (
	HighSimilarityThreshold   = 0.8
	LowCTRSimilarityThreshold = 0.6

	// LowCTRThreshold is a CTR percentage
	LowCTRThreshold = 0.5

	// CombinedACOSFactor: combined ACOS above avg individual ACOS times this is "worse"
	CombinedACOSFactor = 1.2

	// BroadImpressionRatio: broad impressions must exceed specific impressions times this
	BroadImpressionRatio = 2.0
)

// Reasons and fixed suggested actions. Reasons are joined with ReasonSeparator.
const (
	ReasonSeparator = "; "

	ReasonCrossCampaignDuplicate = "Exact same keyword in multiple campaigns"
	ReasonCombinedWorse          = "Combined performance worse than individual"
	ReasonLowCTR                 = "Both keywords have low CTR — may be competing"
	ReasonSameCampaignOverlap    = "Same campaign with overlapping match types"
	ReasonSelfDuplicate          = "Exact duplicate keyword in multiple campaigns"
	ReasonBroadMatchSteal        = "Broad match may be stealing impressions from more specific match"

	ActionSelfDuplicate = "Remove from lower-performing campaign and add as negative"
)
