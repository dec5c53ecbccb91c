package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adscope/kwc/internal/cannibalization"
	"github.com/adscope/kwc/internal/config"
	"github.com/adscope/kwc/internal/metrics"
	"github.com/adscope/kwc/internal/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [snapshot.yaml]",
	Short: "Detect keyword cannibalization in a snapshot",
	Long: `Run every detector over a keyword snapshot and list the alerts,
highest score first.

Detectors:
- pairwise:       scores every pair of performance records
- self_duplicate: same keyword text assigned to different campaigns
- broad_match:    broad keywords out-earning the specific keywords they contain

Examples:
  kwc analyze export.yaml                   # Analyze a snapshot file
  kwc analyze --from-db                     # Analyze the last imported snapshot
  kwc analyze export.yaml --severity severe # Only severe alerts
  kwc analyze export.yaml --min-score 70 -n 10
  kwc analyze export.yaml --json            # Machine-readable output`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fromDB, _ := cmd.Flags().GetBool("from-db")
		minScore, _ := cmd.Flags().GetInt("min-score")
		severityFlags, _ := cmd.Flags().GetStringSlice("severity")
		limit, _ := cmd.Flags().GetInt("limit")

		severities, err := parseSeverities(severityFlags)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		return runAnalyze(ctx, cmd.OutOrStdout(), cfg, args, analyzeOptions{
			fromDB:     fromDB,
			minScore:   minScore,
			severities: severities,
			limit:      limit,
		})
	},
}

type analyzeOptions struct {
	fromDB      bool
	minScore    int
	severities  []types.Severity
	limit       int
	summaryOnly bool
}

func runAnalyze(ctx context.Context, w io.Writer, c *config.Config, args []string, opts analyzeOptions) error {
	snap, source, err := loadSnapshot(ctx, c, args, opts.fromDB)
	if err != nil {
		return err
	}

	detector, err := cannibalization.NewDetector(c.Engine)
	if err != nil {
		return err
	}

	var recorder *metrics.Recorder
	if c.MetricsFile != "" {
		recorder = metrics.NewRecorder()
		detector.Observer = recorder
	}

	report, err := detector.Analyze(ctx, snap.Input())
	if err != nil {
		return err
	}

	if recorder != nil {
		if err := recorder.WriteTextfile(c.MetricsFile); err != nil {
			return err
		}
	}

	results := cannibalization.FilterResults(report.Results, opts.minScore, opts.severities...)
	if opts.limit > 0 && len(results) > opts.limit {
		results = results[:opts.limit]
	}

	if opts.summaryOnly {
		summary := cannibalization.Summarize(results)
		if c.Format != config.FormatText {
			return writeStructured(w, c.Format, newSummaryView(summary))
		}
		displaySummary(w, summary)
		return nil
	}

	if c.Format != config.FormatText {
		return writeStructured(w, c.Format, newReportView(report, source, results))
	}
	displayReport(w, report, source, results)
	return nil
}

// parseSeverities validates --severity values
func parseSeverities(values []string) ([]types.Severity, error) {
	severities := make([]types.Severity, 0, len(values))
	for _, v := range values {
		s := types.Severity(strings.ToLower(strings.TrimSpace(v)))
		if !s.IsValid() {
			return nil, fmt.Errorf("invalid severity %q (want severe, moderate or mild)", v)
		}
		severities = append(severities, s)
	}
	return severities, nil
}

func init() {
	analyzeCmd.Flags().Bool("from-db", false, "Analyze the snapshot stored in the database")
	analyzeCmd.Flags().Int("min-score", 0, "Hide alerts scoring below this")
	analyzeCmd.Flags().StringSlice("severity", nil, "Only show these severities (severe, moderate, mild)")
	analyzeCmd.Flags().IntP("limit", "n", 0, "Show at most this many alerts (0 = all)")

	rootCmd.AddCommand(analyzeCmd)
}
