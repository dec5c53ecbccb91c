package cannibalization

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/adscope/kwc/internal/types"
)

// Input is one closed snapshot to analyze.
type Input struct {
	Keywords     []types.KeywordRecord     `json:"keywords"`
	Performances []types.PerformanceRecord `json:"performances"`

	// Assignments feeds the pairwise scanner. When nil each record's own
	// CampaignID is used.
	Assignments types.CampaignAssignments `json:"assignments,omitempty"`

	// CampaignSets feeds the self-duplicate detector. When nil it is derived
	// from the performance records' CampaignID.
	CampaignSets types.CampaignSets `json:"campaign_sets,omitempty"`
}

// Report is the outcome of running every detector over one Input.
type Report struct {
	RunID     string                        `json:"run_id"`
	StartedAt time.Time                     `json:"started_at"`
	Duration  time.Duration                 `json:"duration_ns"`
	Results   []types.CannibalizationResult `json:"results"`
	Summary   types.CannibalizationSummary  `json:"summary"`
	Detectors []DetectorStats               `json:"detectors"`
}

// DetectorStats describes one detector's share of a run
type DetectorStats struct {
	Name     types.DetectorName `json:"name"`
	Results  int                `json:"results"`
	Pairs    int                `json:"pairs"`
	Duration time.Duration      `json:"duration_ns"`
}

// Observer receives per-detector timings and results from Analyze.
// Implementations must be safe for concurrent use.
type Observer interface {
	ObserveDetector(name types.DetectorName, elapsed time.Duration, pairs int, results []types.CannibalizationResult)
	ObserveRun(summary types.CannibalizationSummary, elapsed time.Duration)
}

// Analyze runs the pairwise, self-duplicate and broad-match detectors
// concurrently over in, then merges their results by descending score.
// Ties keep detector order (pairwise, self-duplicate, broad-match).
//
// The detectors read in without modifying it. ctx is checked before each
// detector starts; a running detector is not interrupted.
func (d *Detector) Analyze(ctx context.Context, in Input) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analysis cancelled: %w", err)
	}

	startTime := time.Now()
	report := &Report{
		RunID:     uuid.New().String(),
		StartedAt: startTime,
	}

	campaignOf := recordCampaign
	if in.Assignments != nil {
		campaignOf = assignmentLookup(in.Assignments)
	}
	campaignSets := in.CampaignSets
	if campaignSets == nil {
		campaignSets = CampaignSetsFromPerformances(in.Performances)
	}

	log.Printf("[ANALYZE] Run %s: %d keywords, %d performance records",
		report.RunID, len(in.Keywords), len(in.Performances))

	type stage struct {
		name    types.DetectorName
		pairs   int
		run     func() []types.CannibalizationResult
		results []types.CannibalizationResult
		elapsed time.Duration
	}
	stages := []*stage{
		{
			name:  types.DetectorPairwise,
			pairs: pairCount(len(in.Performances)),
			run: func() []types.CannibalizationResult {
				return d.scanPairs(in.Performances, in.Keywords, campaignOf)
			},
		},
		{
			name:  types.DetectorSelfDuplicate,
			pairs: selfDuplicatePairs(in.Keywords),
			run: func() []types.CannibalizationResult {
				return d.FindSelfCannibalization(in.Keywords, campaignSets)
			},
		},
		{
			name:  types.DetectorBroadMatch,
			pairs: broadMatchPairs(in.Keywords),
			run: func() []types.CannibalizationResult {
				return d.DetectBroadMatchCannibalization(in.Keywords, in.Performances)
			},
		},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, st := range stages {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("%s detector not started: %w", st.name, err)
			}
			began := time.Now()
			st.results = st.run()
			st.elapsed = time.Since(began)
			if d.Observer != nil {
				d.Observer.ObserveDetector(st.name, st.elapsed, st.pairs, st.results)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analysis cancelled: %w", err)
	}

	report.Results = make([]types.CannibalizationResult, 0)
	for _, st := range stages {
		report.Results = append(report.Results, st.results...)
		report.Detectors = append(report.Detectors, DetectorStats{
			Name:     st.name,
			Results:  len(st.results),
			Pairs:    st.pairs,
			Duration: st.elapsed,
		})
	}
	SortByScore(report.Results)
	report.Summary = Summarize(report.Results)
	report.Duration = time.Since(startTime)

	if d.Observer != nil {
		d.Observer.ObserveRun(report.Summary, report.Duration)
	}

	log.Printf("[ANALYZE] Run %s done in %v: %d alerts (%d severe, %d moderate, %d mild)",
		report.RunID, report.Duration.Round(time.Millisecond), report.Summary.Total,
		report.Summary.Severe, report.Summary.Moderate, report.Summary.Mild)

	return report, nil
}

// selfDuplicatePairs counts the pairs FindSelfCannibalization compares.
func selfDuplicatePairs(keywords []types.KeywordRecord) int {
	sizes := make(map[string]int)
	for _, kw := range keywords {
		sizes[kw.NormalizedText()]++
	}
	total := 0
	for _, n := range sizes {
		total += pairCount(n)
	}
	return total
}

// broadMatchPairs counts broad x specific keyword combinations considered.
func broadMatchPairs(keywords []types.KeywordRecord) int {
	broad, specific := 0, 0
	for _, kw := range keywords {
		switch {
		case kw.MatchType == types.MatchBroad:
			broad++
		case kw.MatchType.IsSpecific():
			specific++
		}
	}
	return broad * specific
}
