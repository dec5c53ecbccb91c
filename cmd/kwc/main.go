package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/adscope/kwc/internal/config"
)

// cfg is resolved once per invocation in PersistentPreRunE
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "kwc",
	Short: "Keyword cannibalization detector",
	Long: `kwc finds ad keywords that compete with each other.

It scores keyword pairs by text similarity, match-type overlap, campaign
placement and performance, flags keywords duplicated across campaigns, and
spots broad-match keywords stealing impressions from more specific ones.

Configuration is read from --config, else ./kwc.yaml, then overlaid by KWC_*
environment variables and finally by command-line flags.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		quiet, _ := cmd.Flags().GetBool("quiet")
		if quiet {
			log.SetOutput(io.Discard)
		}

		configPath, _ := cmd.Flags().GetString("config")
		resolved, err := config.Resolve(configPath)
		if err != nil {
			return err
		}
		if err := applyFlagOverrides(cmd, resolved); err != nil {
			return err
		}
		cfg = resolved
		return nil
	},
}

// applyFlagOverrides lets explicitly set flags win over file and env config.
func applyFlagOverrides(cmd *cobra.Command, c *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("db") {
		c.Database, _ = flags.GetString("db")
	}
	if flags.Changed("format") {
		c.Format, _ = flags.GetString("format")
	}
	if flags.Changed("json") {
		if asJSON, _ := flags.GetBool("json"); asJSON {
			c.Format = config.FormatJSON
		}
	}
	if flags.Changed("strict") {
		c.StrictInput, _ = flags.GetBool("strict")
	}
	if flags.Changed("metrics-file") {
		c.MetricsFile, _ = flags.GetString("metrics-file")
	}
	return c.Validate()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default ./kwc.yaml if present)")
	rootCmd.PersistentFlags().String("db", "", "SQLite database path (overrides config)")
	rootCmd.PersistentFlags().String("format", "", "Output format: text, json or yaml")
	rootCmd.PersistentFlags().Bool("json", false, "Shorthand for --format json")
	rootCmd.PersistentFlags().Bool("strict", false, "Reject snapshots containing invalid records")
	rootCmd.PersistentFlags().String("metrics-file", "", "Write Prometheus metrics to this file after analysis")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress log output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
