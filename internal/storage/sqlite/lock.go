package sqlite

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"
)

// ImportLock is the content of the lock file held while an import rewrites
// the database. Readers ignore it; a second importer refuses to start.
type ImportLock struct {
	PID       int       `json:"pid"`
	Hostname  string    `json:"hostname"`
	Source    string    `json:"source"`
	StartedAt time.Time `json:"started_at"`
}

// LockPath returns the lock file path for a database
func LockPath(dbPath string) string {
	return dbPath + ".import-lock"
}

// AcquireImportLock creates the import lock for dbPath. A lock left behind by
// a process that no longer exists is taken over.
// Returns the lock file path for ReleaseImportLock.
func AcquireImportLock(dbPath, source string) (string, error) {
	lockPath := LockPath(dbPath)

	if data, err := os.ReadFile(lockPath); err == nil {
		var existing ImportLock
		if json.Unmarshal(data, &existing) == nil && isProcessAlive(existing.PID, existing.Hostname) {
			return "", fmt.Errorf("another import is running (PID %d on %s, importing %s since %s)",
				existing.PID, existing.Hostname, existing.Source, existing.StartedAt.Format(time.RFC3339))
		}
		// Stale lock - will overwrite
	}

	hostname, err := os.Hostname()
	if err != nil {
		return "", fmt.Errorf("failed to get hostname: %w", err)
	}

	data, err := json.MarshalIndent(ImportLock{
		PID:       os.Getpid(),
		Hostname:  hostname,
		Source:    source,
		StartedAt: time.Now(),
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal lock: %w", err)
	}

	if err := os.WriteFile(lockPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to create import lock: %w", err)
	}
	return lockPath, nil
}

// ReleaseImportLock removes the lock file. Safe to call with "".
func ReleaseImportLock(lockPath string) error {
	if lockPath == "" {
		return nil
	}
	if err := os.Remove(lockPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove import lock: %w", err)
	}
	return nil
}

// isProcessAlive reports whether pid exists on hostname. Remote hosts and
// unverifiable processes count as alive.
func isProcessAlive(pid int, hostname string) bool {
	currentHost, err := os.Hostname()
	if err != nil {
		return true
	}
	if !strings.EqualFold(hostname, currentHost) {
		return true
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	// Signal 0 probes for existence (Unix: kill -0)
	err = process.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	// EPERM: exists but owned by someone else
	return errors.Is(err, syscall.EPERM)
}
