// Package cannibalization finds advertising keywords that compete with each
// other in ad auctions and explains why.
//
// # Overview
//
// Three detectors look at a closed snapshot of keywords and their
// performance metrics:
//
//  1. DetectCannibalization: scores every unordered pair of performance
//     records against a set of additive rules (duplicate text across
//     campaigns, overlapping match types, near-duplicate text, low CTR on
//     similar keywords, overlap inside one campaign). Pairs scoring at least
//     SignificanceThreshold are reported, highest score first.
//  2. FindSelfCannibalization: identical keyword text assigned to differing
//     campaign sets. Always scores SelfDuplicateScore.
//  3. DetectBroadMatchCannibalization: a broad keyword with far more
//     impressions and a lower CTR than a phrase/exact keyword containing
//     its text. Always scores BroadMatchScore.
//
// Summarize buckets any combination of results into severe (>= 80),
// moderate (60-79) and mild (< 60).
//
// # Scoring Rules
//
// Pairwise rules, all additive, clamped to 100:
//
//	+90  same text, both assigned, different campaigns
//	+70  Overlap(kw1, kw2) is not none
//	+40  Similarity(kw1, kw2) > 0.8
//	+20  ... and combined ACOS > average ACOS * 1.2
//	+30  both CTR < 0.5 and similarity > 0.6
//	+50  same campaign and overlap
//
// The weights and thresholds are named constants; Config carries a copy of
// them so deployments can tune scoring (see ConfigFromEnv). The package-level
// functions always use DefaultConfig.
//
// # Identifiers
//
// Performance records without a keyword id are identified by their keyword
// text (see types.ResolveIdentifier). Results carry the identifier kind so
// callers can tell a real id match from two records that only share text.
//
// # Usage
//
//	results := cannibalization.DetectCannibalization(perfs, keywords, assignments)
//	results = append(results, cannibalization.FindSelfCannibalization(keywords, campaignSets)...)
//	results = append(results, cannibalization.DetectBroadMatchCannibalization(keywords, perfs)...)
//	cannibalization.SortByScore(results)
//	summary := cannibalization.GetCannibalizationSummary(results)
//
// or, with a tuned config and all detectors at once:
//
//	detector, err := cannibalization.NewDetector(cfg)
//	if err != nil {
//	    return err
//	}
//	report, err := detector.Analyze(ctx, cannibalization.Input{
//	    Keywords:     keywords,
//	    Performances: perfs,
//	})
//
// # Concurrency
//
// Detectors are synchronous, perform no I/O and keep no state between calls.
// Cost is quadratic in the number of records; for inputs much larger than a
// few thousand keywords, callers should shard by campaign, match type or
// prefix before calling.
//
// # Error Handling
//
// Well-formed input never produces an error. Unresolvable lookups are
// skipped silently. Metrics are not validated here: negative or NaN values
// flow into the arithmetic as-is, so validate at ingestion (the snapshot
// loaders do).
package cannibalization
