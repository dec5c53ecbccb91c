package cannibalization

import (
	"fmt"
	"strings"

	"github.com/adscope/kwc/internal/types"
)

// DetectBroadMatchCannibalization reports broad-match keywords that appear
// to take impressions from a phrase or exact keyword containing their text.
//
// A pair is reported when both keywords have performance data, the broad
// keyword has more than BroadImpressionRatio times the impressions of the
// specific one, and a lower CTR. Performance is looked up by keyword ID when
// the record has one, otherwise by keyword text.
func (d *Detector) DetectBroadMatchCannibalization(keywords []types.KeywordRecord, performances []types.PerformanceRecord) []types.CannibalizationResult {
	lookup := newPerformanceIndex(performances)

	results := make([]types.CannibalizationResult, 0)
	for _, broad := range keywords {
		if broad.MatchType != types.MatchBroad {
			continue
		}
		broadText := broad.NormalizedText()

		for _, specific := range keywords {
			if !specific.MatchType.IsSpecific() {
				continue
			}
			if !strings.Contains(specific.NormalizedText(), broadText) {
				continue
			}

			broadPerf, ok1 := lookup.find(broad)
			specificPerf, ok2 := lookup.find(specific)
			if !ok1 || !ok2 {
				continue
			}

			if broadPerf.Impressions > d.config.BroadImpressionRatio*specificPerf.Impressions &&
				broadPerf.CTR < specificPerf.CTR {
				id1, id2 := types.ResolveIdentifier(broadPerf), types.ResolveIdentifier(specificPerf)
				results = append(results, types.CannibalizationResult{
					Keyword1:        broad.Keyword,
					Keyword2:        specific.Keyword,
					Keyword1ID:      id1.Value,
					Keyword2ID:      id2.Value,
					Keyword1IDKind:  id1.Kind,
					Keyword2IDKind:  id2.Kind,
					Campaign1ID:     broadPerf.CampaignID,
					Campaign2ID:     specificPerf.CampaignID,
					Score:           clampScore(d.config.BroadMatchScore),
					Reason:          ReasonBroadMatchSteal,
					SuggestedAction: fmt.Sprintf("Add '%s' as negative exact to broad match campaign", specific.Keyword),
					Detector:        types.DetectorBroadMatch,
				})
			}
		}
	}
	return results
}

// performanceIndex finds the performance record of a keyword. Later records
// overwrite earlier ones with the same key.
type performanceIndex struct {
	byID   map[string]types.PerformanceRecord
	byText map[string]types.PerformanceRecord
}

func newPerformanceIndex(performances []types.PerformanceRecord) performanceIndex {
	idx := performanceIndex{
		byID:   make(map[string]types.PerformanceRecord, len(performances)),
		byText: make(map[string]types.PerformanceRecord, len(performances)),
	}
	for _, p := range performances {
		if p.KeywordID != "" {
			idx.byID[p.KeywordID] = p
		}
		idx.byText[types.NormalizeKeyword(p.Keyword)] = p
	}
	return idx
}

func (idx performanceIndex) find(kw types.KeywordRecord) (types.PerformanceRecord, bool) {
	if kw.ID != "" {
		if p, ok := idx.byID[kw.ID]; ok {
			return p, true
		}
	}
	p, ok := idx.byText[kw.NormalizedText()]
	return p, ok
}
