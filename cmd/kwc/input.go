package main

import (
	"context"
	"fmt"

	"github.com/adscope/kwc/internal/config"
	"github.com/adscope/kwc/internal/snapshot"
	"github.com/adscope/kwc/internal/storage/sqlite"
)

// loadSnapshot reads analysis input from, in order of preference: the file
// argument, the database (fromDB), or the configured snapshot file.
// It returns the snapshot and a label naming where it came from.
func loadSnapshot(ctx context.Context, c *config.Config, args []string, fromDB bool) (*snapshot.Snapshot, string, error) {
	opts := snapshot.Options{Strict: c.StrictInput}

	switch {
	case len(args) > 0:
		snap, err := snapshot.Load(args[0], opts)
		if err != nil {
			return nil, "", err
		}
		return snap, args[0], nil

	case fromDB:
		store, err := sqlite.New(c.Database)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open database: %w", err)
		}
		defer func() { _ = store.Close() }()

		snap, err := store.LoadSnapshot(ctx)
		if err != nil {
			return nil, "", err
		}
		// Stored data was imported leniently or strictly; recheck under the
		// current setting.
		if err := snap.Check(opts); err != nil {
			return nil, "", err
		}
		return snap, c.Database, nil

	case c.SnapshotFile != "":
		snap, err := snapshot.Load(c.SnapshotFile, opts)
		if err != nil {
			return nil, "", err
		}
		return snap, c.SnapshotFile, nil
	}

	return nil, "", fmt.Errorf("no input: pass a snapshot file, use --from-db, or set snapshot_file in config")
}
