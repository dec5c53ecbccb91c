package cannibalization

import (
	"fmt"
	"strings"

	"github.com/adscope/kwc/internal/similarity"
	"github.com/adscope/kwc/internal/types"
)

// DetectCannibalization compares every unordered pair of performance records
// and reports pairs whose accumulated rule score reaches the significance
// threshold, sorted by descending score.
//
// Each record is resolved to a KeywordRecord by its keyword text (case-insensitive).
// When several keyword records share text the last one wins; that tie-break is
// incidental and callers should not build on which match type is picked.
// Pairs with an unresolvable side are skipped.
func (d *Detector) DetectCannibalization(performances []types.PerformanceRecord, keywords []types.KeywordRecord, assignments types.CampaignAssignments) []types.CannibalizationResult {
	return d.scanPairs(performances, keywords, assignmentLookup(assignments))
}

// campaignResolver returns the campaign a performance record runs in and
// whether it is assigned at all.
type campaignResolver func(p types.PerformanceRecord, id types.Identifier) (string, bool)

// recordCampaign reads the campaign off the record itself. Analyze uses it
// when the caller supplies no assignment map, so that text-keyed records in
// different campaigns never share one map entry.
func recordCampaign(p types.PerformanceRecord, _ types.Identifier) (string, bool) {
	return p.CampaignID, p.CampaignID != ""
}

func (d *Detector) scanPairs(performances []types.PerformanceRecord, keywords []types.KeywordRecord, campaignOf campaignResolver) []types.CannibalizationResult {
	byText := make(map[string]types.KeywordRecord, len(keywords))
	for _, kw := range keywords {
		byText[kw.NormalizedText()] = kw
	}

	results := make([]types.CannibalizationResult, 0)
	forEachPair(performances, func(_, _ int, p1, p2 types.PerformanceRecord) {
		kw1, ok1 := byText[types.NormalizeKeyword(p1.Keyword)]
		kw2, ok2 := byText[types.NormalizeKeyword(p2.Keyword)]
		if !ok1 || !ok2 {
			return
		}
		if result, ok := d.scorePair(p1, p2, kw1, kw2, campaignOf); ok {
			results = append(results, result)
		}
	})

	SortByScore(results)
	return results
}

// pairScore accumulates triggered rules for one pair.
type pairScore struct {
	score   int
	reasons []string
}

func (s *pairScore) add(weight int, reason string) {
	s.score += weight
	s.reasons = append(s.reasons, reason)
}

func (d *Detector) scorePair(p1, p2 types.PerformanceRecord, kw1, kw2 types.KeywordRecord, campaignOf campaignResolver) (types.CannibalizationResult, bool) {
	cfg := d.config
	id1, id2 := types.ResolveIdentifier(p1), types.ResolveIdentifier(p2)
	campaign1, assigned1 := campaignOf(p1, id1)
	campaign2, assigned2 := campaignOf(p2, id2)

	overlap := similarity.OverlapWithRatio(kw1.Keyword, kw2.Keyword, cfg.WordOverlapRatio)
	sim := similarity.Similarity(kw1.Keyword, kw2.Keyword)

	var s pairScore

	if kw1.NormalizedText() == kw2.NormalizedText() && assigned1 && assigned2 && campaign1 != campaign2 {
		s.add(cfg.WeightCrossCampaignDuplicate, ReasonCrossCampaignDuplicate)
	}

	if overlap != similarity.OverlapNone {
		s.add(cfg.WeightOverlap, fmt.Sprintf("Overlapping match types (%s)", overlap))
	}

	if sim > cfg.HighSimilarityThreshold {
		s.add(cfg.WeightHighSimilarity, fmt.Sprintf("High text similarity (%.0f%%)", sim*100))

		// Unvalidated metrics flow straight through: zero sales yields +Inf or NaN.
		combinedACOS := (p1.Spend + p2.Spend) / (p1.Sales + p2.Sales) * 100
		avgACOS := (p1.ACOS + p2.ACOS) / 2
		if combinedACOS > avgACOS*cfg.CombinedACOSFactor {
			s.add(cfg.WeightCombinedWorse, ReasonCombinedWorse)
		}
	}

	if p1.CTR < cfg.LowCTRThreshold && p2.CTR < cfg.LowCTRThreshold && sim > cfg.LowCTRSimilarityThreshold {
		s.add(cfg.WeightLowCTR, ReasonLowCTR)
	}

	sameCampaign := assigned1 && assigned2 && campaign1 == campaign2
	if sameCampaign && overlap != similarity.OverlapNone {
		s.add(cfg.WeightSameCampaignOverlap, ReasonSameCampaignOverlap)
	}

	score := clampScore(s.score)
	if score < cfg.SignificanceThreshold {
		return types.CannibalizationResult{}, false
	}

	return types.CannibalizationResult{
		Keyword1:        p1.Keyword,
		Keyword2:        p2.Keyword,
		Keyword1ID:      id1.Value,
		Keyword2ID:      id2.Value,
		Keyword1IDKind:  id1.Kind,
		Keyword2IDKind:  id2.Kind,
		Campaign1ID:     campaign1,
		Campaign2ID:     campaign2,
		Score:           score,
		Reason:          strings.Join(s.reasons, ReasonSeparator),
		SuggestedAction: SuggestAction(score, campaign1 != campaign2, overlap != similarity.OverlapNone),
		Detector:        types.DetectorPairwise,
	}, true
}
