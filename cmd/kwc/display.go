package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/adscope/kwc/internal/cannibalization"
	"github.com/adscope/kwc/internal/config"
	"github.com/adscope/kwc/internal/types"
)

// resultView is the serialized shape of one alert
type resultView struct {
	Detector        string `json:"detector" yaml:"detector"`
	Score           int    `json:"score" yaml:"score"`
	Severity        string `json:"severity" yaml:"severity"`
	Keyword1        string `json:"keyword1" yaml:"keyword1"`
	Keyword2        string `json:"keyword2" yaml:"keyword2"`
	Keyword1ID      string `json:"keyword1_id" yaml:"keyword1_id"`
	Keyword2ID      string `json:"keyword2_id" yaml:"keyword2_id"`
	Keyword1IDKind  string `json:"keyword1_id_kind,omitempty" yaml:"keyword1_id_kind,omitempty"`
	Keyword2IDKind  string `json:"keyword2_id_kind,omitempty" yaml:"keyword2_id_kind,omitempty"`
	Campaign1ID     string `json:"campaign1_id,omitempty" yaml:"campaign1_id,omitempty"`
	Campaign2ID     string `json:"campaign2_id,omitempty" yaml:"campaign2_id,omitempty"`
	Reason          string `json:"reason" yaml:"reason"`
	SuggestedAction string `json:"suggested_action" yaml:"suggested_action"`
}

type summaryView struct {
	Total            int     `json:"total" yaml:"total"`
	Severe           int     `json:"severe" yaml:"severe"`
	Moderate         int     `json:"moderate" yaml:"moderate"`
	Mild             int     `json:"mild" yaml:"mild"`
	TotalWastedSpend float64 `json:"total_wasted_spend" yaml:"total_wasted_spend"`
}

type detectorView struct {
	Name     string `json:"name" yaml:"name"`
	Pairs    int    `json:"pairs" yaml:"pairs"`
	Results  int    `json:"results" yaml:"results"`
	Duration string `json:"duration" yaml:"duration"`
}

// reportView is the serialized shape of an analysis run
type reportView struct {
	RunID     string         `json:"run_id" yaml:"run_id"`
	Source    string         `json:"source" yaml:"source"`
	StartedAt string         `json:"started_at" yaml:"started_at"`
	Duration  string         `json:"duration" yaml:"duration"`
	Summary   summaryView    `json:"summary" yaml:"summary"`
	Detectors []detectorView `json:"detectors" yaml:"detectors"`
	Results   []resultView   `json:"results" yaml:"results"`
}

func newResultView(r types.CannibalizationResult) resultView {
	return resultView{
		Detector:        string(r.Detector),
		Score:           r.Score,
		Severity:        string(r.Severity()),
		Keyword1:        r.Keyword1,
		Keyword2:        r.Keyword2,
		Keyword1ID:      r.Keyword1ID,
		Keyword2ID:      r.Keyword2ID,
		Keyword1IDKind:  string(r.Keyword1IDKind),
		Keyword2IDKind:  string(r.Keyword2IDKind),
		Campaign1ID:     r.Campaign1ID,
		Campaign2ID:     r.Campaign2ID,
		Reason:          r.Reason,
		SuggestedAction: r.SuggestedAction,
	}
}

func newSummaryView(s types.CannibalizationSummary) summaryView {
	return summaryView{
		Total:            s.Total,
		Severe:           s.Severe,
		Moderate:         s.Moderate,
		Mild:             s.Mild,
		TotalWastedSpend: s.TotalWastedSpend,
	}
}

// newReportView builds the serialized report. results may be a filtered
// subset of report.Results; the summary is recomputed over what is shown.
func newReportView(report *cannibalization.Report, source string, results []types.CannibalizationResult) reportView {
	view := reportView{
		RunID:     report.RunID,
		Source:    source,
		StartedAt: report.StartedAt.UTC().Format(time.RFC3339),
		Duration:  report.Duration.String(),
		Summary:   newSummaryView(cannibalization.Summarize(results)),
		Detectors: make([]detectorView, 0, len(report.Detectors)),
		Results:   make([]resultView, 0, len(results)),
	}
	for _, d := range report.Detectors {
		view.Detectors = append(view.Detectors, detectorView{
			Name:     string(d.Name),
			Pairs:    d.Pairs,
			Results:  d.Results,
			Duration: d.Duration.String(),
		})
	}
	for _, r := range results {
		view.Results = append(view.Results, newResultView(r))
	}
	return view
}

// writeStructured encodes v as JSON or YAML.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported structured format %q", format)
	}
}

// severityColor picks the display color for a severity band
func severityColor(s types.Severity) *color.Color {
	switch s {
	case types.SeveritySevere:
		return color.New(color.FgRed, color.Bold)
	case types.SeverityModerate:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgHiBlack)
	}
}

// formatCampaigns renders the campaign pair of a result, if known
func formatCampaigns(r types.CannibalizationResult) string {
	c1, c2 := r.Campaign1ID, r.Campaign2ID
	if c1 == "" && c2 == "" {
		return ""
	}
	if c1 == "" {
		c1 = "?"
	}
	if c2 == "" {
		c2 = "?"
	}
	if c1 == c2 {
		return c1
	}
	return c1 + " vs " + c2
}

// displayResult prints one alert in a three-line format
func displayResult(w io.Writer, r types.CannibalizationResult) {
	sev := r.Severity()
	cyan := color.New(color.FgCyan).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	fmt.Fprintf(w, "%s %s  %s %s %s\n",
		severityColor(sev).Sprintf("[%3d %-8s]", r.Score, sev),
		gray(string(r.Detector)),
		cyan(r.Keyword1), gray("<->"), cyan(r.Keyword2))

	if campaigns := formatCampaigns(r); campaigns != "" {
		fmt.Fprintf(w, "  Campaigns: %s\n", campaigns)
	}
	fmt.Fprintf(w, "  Reason: %s\n", r.Reason)
	fmt.Fprintf(w, "  Action: %s\n", r.SuggestedAction)
}

// displaySummary prints severity counts on one line
func displaySummary(w io.Writer, s types.CannibalizationSummary) {
	fmt.Fprintf(w, "%d alerts: %s, %s, %s\n",
		s.Total,
		severityColor(types.SeveritySevere).Sprintf("%d severe", s.Severe),
		severityColor(types.SeverityModerate).Sprintf("%d moderate", s.Moderate),
		severityColor(types.SeverityMild).Sprintf("%d mild", s.Mild),
	)
}

// displayReport prints a human-readable report
func displayReport(w io.Writer, report *cannibalization.Report, source string, results []types.CannibalizationResult) {
	bold := color.New(color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()

	fmt.Fprintf(w, "\n%s %s (run %s, %s)\n\n", bold("Cannibalization report:"), source,
		shortRunID(report.RunID), report.Duration.Round(time.Microsecond))

	if len(results) == 0 {
		fmt.Fprintf(w, "%s No cannibalization found\n\n", green("✓"))
		return
	}

	for _, r := range results {
		displayResult(w, r)
		fmt.Fprintln(w)
	}
	displaySummary(w, cannibalization.Summarize(results))
	if hidden := len(report.Results) - len(results); hidden > 0 {
		fmt.Fprintf(w, "(%d more hidden by filters)\n", hidden)
	}
	fmt.Fprintln(w)
}

// shortRunID trims a UUID for display
func shortRunID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}
