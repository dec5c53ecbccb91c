// Package sqlite keeps keyword snapshots in a local SQLite database so that
// analyses can be rerun without the original export files.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// Store is the SQLite-backed snapshot store
type Store struct {
	db   *sql.DB
	path string
}

// New opens (creating if needed) the database at path and initializes the schema.
func New(path string) (*Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	if err := migrateImportFlags(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Printf("[STORE] Opened %s", path)
	return &Store{db: db, path: path}, nil
}

// migrateImportFlags adds the map-presence columns to imports tables
// created before they existed.
func migrateImportFlags(db *sql.DB) error {
	for _, column := range []string{"has_assignments", "has_campaign_sets"} {
		var exists bool
		err := db.QueryRow(`
			SELECT COUNT(*) > 0 FROM pragma_table_info('imports') WHERE name = ?
		`, column).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check for %s column: %w", column, err)
		}
		if exists {
			continue
		}
		if _, err := db.Exec(`ALTER TABLE imports ADD COLUMN ` + column + ` INTEGER NOT NULL DEFAULT 0`); err != nil {
			return fmt.Errorf("failed to add %s column: %w", column, err)
		}
	}
	return nil
}

// Path returns the database file the store was opened on
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// withTx runs fn in a transaction, committing only if fn succeeds.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
