package cannibalization

import (
	"slices"

	"github.com/adscope/kwc/internal/types"
)

// assignmentLookup resolves a record's campaign through the caller's map,
// keyed by resolved identifier. Text-keyed records with equal text share one entry.
func assignmentLookup(assignments types.CampaignAssignments) campaignResolver {
	return func(_ types.PerformanceRecord, id types.Identifier) (string, bool) {
		campaign, ok := assignments[id.Value]
		return campaign, ok && campaign != ""
	}
}

// CampaignSetsFromPerformances builds the multi-valued assignment map from
// performance records, keyed by resolved identifier, campaigns in first-seen order.
func CampaignSetsFromPerformances(performances []types.PerformanceRecord) types.CampaignSets {
	sets := make(types.CampaignSets, len(performances))
	for _, p := range performances {
		if p.CampaignID == "" {
			continue
		}
		key := types.ResolveID(p)
		if !slices.Contains(sets[key], p.CampaignID) {
			sets[key] = append(sets[key], p.CampaignID)
		}
	}
	return sets
}
