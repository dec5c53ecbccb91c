package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/adscope/kwc/internal/config"
	"github.com/adscope/kwc/internal/snapshot"
	"github.com/adscope/kwc/internal/storage/sqlite"
)

var importCmd = &cobra.Command{
	Use:   "import <snapshot.yaml>",
	Short: "Store a snapshot in the database",
	Long: `Validate a snapshot file and store it in the SQLite database, replacing
whatever was imported before. Later runs can use 'kwc analyze --from-db'.

Examples:
  kwc import export.yaml
  kwc import export.yaml --db /var/lib/kwc/kwc.db --strict`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd.Context(), cmd.OutOrStdout(), cfg, args[0])
	},
}

func runImport(ctx context.Context, w io.Writer, c *config.Config, path string) error {
	snap, err := snapshot.Load(path, snapshot.Options{Strict: c.StrictInput})
	if err != nil {
		return err
	}

	store, err := sqlite.New(c.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	lockPath, err := sqlite.AcquireImportLock(c.Database, path)
	if err != nil {
		return err
	}
	defer func() { _ = sqlite.ReleaseImportLock(lockPath) }()

	rec, err := store.ImportSnapshot(ctx, snap, path)
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(w, "%s Imported %d keywords and %d performance records into %s (import #%d)\n",
		green("✓"), rec.Keywords, rec.Performances, c.Database, rec.ID)
	return nil
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past imports",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		return runHistory(cmd.Context(), cmd.OutOrStdout(), cfg, limit)
	},
}

type importView struct {
	ID           int64  `json:"id" yaml:"id"`
	Source       string `json:"source" yaml:"source"`
	ImportedAt   string `json:"imported_at" yaml:"imported_at"`
	Keywords     int    `json:"keywords" yaml:"keywords"`
	Performances int    `json:"performances" yaml:"performances"`
	Assignments  int    `json:"assignments" yaml:"assignments"`
	CampaignSets int    `json:"campaign_sets" yaml:"campaign_sets"`
}

func runHistory(ctx context.Context, w io.Writer, c *config.Config, limit int) error {
	records, err := listImports(ctx, c.Database, limit)
	if err != nil {
		return err
	}

	if c.Format != config.FormatText {
		views := make([]importView, 0, len(records))
		for _, r := range records {
			views = append(views, importView{
				ID:           r.ID,
				Source:       r.Source,
				ImportedAt:   r.ImportedAt.Format(time.RFC3339),
				Keywords:     r.Keywords,
				Performances: r.Performances,
				Assignments:  r.Assignments,
				CampaignSets: r.CampaignSets,
			})
		}
		return writeStructured(w, c.Format, views)
	}

	if len(records) == 0 {
		yellow := color.New(color.FgYellow).SprintFunc()
		fmt.Fprintf(w, "%s No imports yet\n", yellow("!"))
		return nil
	}

	cyan := color.New(color.FgCyan).SprintFunc()
	for _, r := range records {
		fmt.Fprintf(w, "#%-4d %s  %s  %d keywords, %d performance records\n",
			r.ID, r.ImportedAt.Local().Format("2006-01-02 15:04:05"), cyan(r.Source),
			r.Keywords, r.Performances)
	}
	return nil
}

// listImports reads the import log without creating the database when it
// does not exist yet.
func listImports(ctx context.Context, path string, limit int) ([]sqlite.ImportRecord, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	store, err := sqlite.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	return store.ListImports(ctx, limit)
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of imports to show (0 = all)")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(historyCmd)
}
