package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/adscope/kwc/internal/config"
	"github.com/adscope/kwc/internal/similarity"
)

var compareCmd = &cobra.Command{
	Use:   "compare <keyword> <keyword>",
	Short: "Show how similar two keywords are",
	Long: `Print the edit-distance similarity and match-type overlap of two keywords,
using the same functions the detectors score with.

Examples:
  kwc compare "running shoes" "running shoes for men"
  kwc compare "yoga mat" "mat yoga" --json`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCompare(cmd.OutOrStdout(), cfg, args[0], args[1])
	},
}

type comparisonView struct {
	Keyword1   string  `json:"keyword1" yaml:"keyword1"`
	Keyword2   string  `json:"keyword2" yaml:"keyword2"`
	Distance   int     `json:"distance" yaml:"distance"`
	Similarity float64 `json:"similarity" yaml:"similarity"`
	Overlap    string  `json:"overlap" yaml:"overlap"`
}

func compareKeywords(c *config.Config, a, b string) comparisonView {
	return comparisonView{
		Keyword1:   a,
		Keyword2:   b,
		Distance:   similarity.Distance(a, b),
		Similarity: similarity.Similarity(a, b),
		Overlap:    similarity.OverlapWithRatio(a, b, c.Engine.WordOverlapRatio).String(),
	}
}

func runCompare(w io.Writer, c *config.Config, a, b string) error {
	view := compareKeywords(c, a, b)
	if c.Format != config.FormatText {
		return writeStructured(w, c.Format, view)
	}

	cyan := color.New(color.FgCyan).SprintFunc()
	simColor := color.New(color.FgGreen)
	if view.Similarity > c.Engine.HighSimilarityThreshold {
		simColor = color.New(color.FgRed, color.Bold)
	}

	fmt.Fprintf(w, "%s vs %s\n", cyan(a), cyan(b))
	fmt.Fprintf(w, "  Edit distance: %d\n", view.Distance)
	fmt.Fprintf(w, "  Similarity:    %s\n", simColor.Sprintf("%.0f%%", view.Similarity*100))
	fmt.Fprintf(w, "  Overlap:       %s\n", view.Overlap)
	return nil
}

func init() {
	rootCmd.AddCommand(compareCmd)
}
