package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Run is one recorded generation run.
type Run struct {
	ID        string
	CreatedAt time.Time
	Function  string
	Namespace string
	Platforms []string
	OutputDir string

	// Files is only populated by Record's caller and by Files.
	Files []File

	// FileCount is set when loading runs; Record derives it from Files.
	FileCount int
}

// File is one file written by a run.
type File struct {
	Platform string
	Path     string
}

// Record stores run and returns its ID. A new UUID is assigned when run.ID
// is empty, and CreatedAt defaults to now.
func (s *Store) Record(ctx context.Context, run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, function_name, namespace, platforms, output_dir, file_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.UTC().Format(time.RFC3339Nano), run.Function, run.Namespace,
		strings.Join(run.Platforms, ","), run.OutputDir, len(run.Files),
	)
	if err != nil {
		return "", fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_files (run_id, seq, platform, path) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, f := range run.Files {
		if _, err := stmt.ExecContext(ctx, run.ID, i, f.Platform, f.Path); err != nil {
			return "", fmt.Errorf("insert file %s: %w", f.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit transaction: %w", err)
	}
	return run.ID, nil
}

// List returns recorded runs, newest first. A limit of zero or less
// returns every run.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, function_name, namespace, platforms, output_dir, file_count
		FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return runs, nil
}

// Get returns one run including its files.
// Returns ErrNotFound if the ID is unknown.
func (s *Store) Get(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, function_name, namespace, platforms, output_dir, file_count
		FROM runs WHERE id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
	}
	if err != nil {
		return nil, err
	}

	run.Files, err = s.Files(ctx, runID)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// Files returns the files written by a run in write order.
func (s *Store) Files(ctx context.Context, runID string) ([]File, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT platform, path FROM run_files WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("query files for %s: %w", runID, err)
	}
	defer rows.Close()

	var out []File
	for rows.Next() {
		var f File
		if err := rows.Scan(&f.Platform, &f.Path); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var run Run
	var createdAt, platforms string
	err := row.Scan(&run.ID, &createdAt, &run.Function, &run.Namespace, &platforms, &run.OutputDir, &run.FileCount)
	if errors.Is(err, sql.ErrNoRows) {
		return run, err
	}
	if err != nil {
		return run, fmt.Errorf("scan run: %w", err)
	}
	run.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	if platforms != "" {
		run.Platforms = strings.Split(platforms, ",")
	}
	return run, nil
}
