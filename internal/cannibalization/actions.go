package cannibalization

// Suggested actions for pairwise results, keyed by severity and cause.
const (
	ActionRemoveOrNegate      = "Remove from lower-performing campaign or add negative"
	ActionConsolidate         = "Consolidate into single keyword with best match type"
	ActionReviewMatchTypes    = "Review match type strategy"
	ActionMonitor             = "Monitor and consider consolidating"
	ActionCrossNegativesOrBid = "Add cross-negatives or adjust bids"
)

// SuggestAction picks the remediation text for a scored pair.
// differentCampaigns is true when the two keywords run in different campaigns;
// matchTypeCause is true when an overlap rule contributed to the score.
func SuggestAction(score int, differentCampaigns, matchTypeCause bool) string {
	switch {
	case score >= SevereScore && differentCampaigns:
		return ActionRemoveOrNegate
	case score >= SevereScore:
		return ActionConsolidate
	case score >= ModerateScore && matchTypeCause:
		return ActionReviewMatchTypes
	case score >= ModerateScore:
		return ActionMonitor
	default:
		return ActionCrossNegativesOrBid
	}
}
