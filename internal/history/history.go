// Package history records generation runs in a SQLite database.
// The database is stored in .bridgegen/history.db next to the config file.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DBFileName is the history database file inside the config directory.
const DBFileName = "history.db"

// ErrNotFound is returned when a run ID is unknown.
var ErrNotFound = errors.New("run not found")

// Store manages the .bridgegen/history.db SQLite database.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open opens or creates the history database in the given .bridgegen
// directory. It initializes the schema if the database is new.
func Open(configDir string) (*Store, error) {
	dbPath := filepath.Join(configDir, DBFileName)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	// WAL lets a running server and the CLI share the file
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	s := &Store{db: db, dbPath: dbPath}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

// Clear removes every recorded run.
func (s *Store) Clear() error {
	_, err := s.db.Exec("DELETE FROM run_files; DELETE FROM runs;")
	if err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// Stats returns history statistics.
type Stats struct {
	RunCount  int64
	FileCount int64
}

// GetStats returns statistics about the history contents.
func (s *Store) GetStats() (*Stats, error) {
	var stats Stats

	if err := s.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&stats.RunCount); err != nil {
		return nil, fmt.Errorf("count runs: %w", err)
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM run_files").Scan(&stats.FileCount); err != nil {
		return nil, fmt.Errorf("count run files: %w", err)
	}

	return &stats, nil
}
