package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary [snapshot.yaml]",
	Short: "Count cannibalization alerts by severity",
	Long: `Run the same analysis as 'kwc analyze' but print only the severity counts.

Examples:
  kwc summary export.yaml
  kwc summary --from-db --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fromDB, _ := cmd.Flags().GetBool("from-db")
		minScore, _ := cmd.Flags().GetInt("min-score")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		return runAnalyze(ctx, cmd.OutOrStdout(), cfg, args, analyzeOptions{
			fromDB:      fromDB,
			minScore:    minScore,
			summaryOnly: true,
		})
	},
}

func init() {
	summaryCmd.Flags().Bool("from-db", false, "Summarize the snapshot stored in the database")
	summaryCmd.Flags().Int("min-score", 0, "Ignore alerts scoring below this")

	rootCmd.AddCommand(summaryCmd)
}
