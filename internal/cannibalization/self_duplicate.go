package cannibalization

import (
	"slices"

	"github.com/adscope/kwc/internal/types"
)

// FindSelfCannibalization reports keyword records with identical text
// (ignoring case) whose campaign assignments differ.
//
// Each record's campaigns are looked up in campaignSets by its ID when that
// key is present, otherwise by its keyword text. A pair is reported when some
// campaign appears in one list but not the other; identical lists (including
// two empty ones) are not. This detector does not use performance data.
func (d *Detector) FindSelfCannibalization(keywords []types.KeywordRecord, campaignSets types.CampaignSets) []types.CannibalizationResult {
	groups := make(map[string][]types.KeywordRecord)
	order := make([]string, 0)
	for _, kw := range keywords {
		key := kw.NormalizedText()
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], kw)
	}

	results := make([]types.CannibalizationResult, 0)
	for _, key := range order {
		group := groups[key]
		if len(group) < 2 {
			continue
		}
		forEachPair(group, func(_, _ int, kw1, kw2 types.KeywordRecord) {
			campaigns1 := campaignsFor(campaignSets, kw1)
			campaigns2 := campaignsFor(campaignSets, kw2)
			only1 := missingFrom(campaigns1, campaigns2)
			only2 := missingFrom(campaigns2, campaigns1)
			if len(only1) == 0 && len(only2) == 0 {
				return
			}

			id1, id2 := types.KeywordIdentifier(kw1), types.KeywordIdentifier(kw2)
			results = append(results, types.CannibalizationResult{
				Keyword1:        kw1.Keyword,
				Keyword2:        kw2.Keyword,
				Keyword1ID:      id1.Value,
				Keyword2ID:      id2.Value,
				Keyword1IDKind:  id1.Kind,
				Keyword2IDKind:  id2.Kind,
				Campaign1ID:     firstOf(only1, campaigns1),
				Campaign2ID:     firstOf(only2, campaigns2),
				Score:           clampScore(d.config.SelfDuplicateScore),
				Reason:          ReasonSelfDuplicate,
				SuggestedAction: ActionSelfDuplicate,
				Detector:        types.DetectorSelfDuplicate,
			})
		})
	}
	return results
}

func campaignsFor(sets types.CampaignSets, kw types.KeywordRecord) []string {
	if kw.ID != "" {
		if campaigns, ok := sets[kw.ID]; ok {
			return campaigns
		}
	}
	return sets[kw.Keyword]
}

// missingFrom returns the campaigns in a that are not in b.
func missingFrom(a, b []string) []string {
	var missing []string
	for _, c := range a {
		if !slices.Contains(b, c) {
			missing = append(missing, c)
		}
	}
	return missing
}

func firstOf(preferred, fallback []string) string {
	if len(preferred) > 0 {
		return preferred[0]
	}
	if len(fallback) > 0 {
		return fallback[0]
	}
	return ""
}
