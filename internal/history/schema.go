package history

// schemaSQL defines the SQLite schema for the history database.
// Tables:
//   - runs: one row per generation run
//   - run_files: files written by a run, in write order
const schemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    created_at TEXT NOT NULL,
    function_name TEXT NOT NULL,
    namespace TEXT NOT NULL DEFAULT '',
    platforms TEXT NOT NULL,
    output_dir TEXT NOT NULL,
    file_count INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS run_files (
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    seq INTEGER NOT NULL,
    platform TEXT NOT NULL,
    path TEXT NOT NULL,
    PRIMARY KEY (run_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC);
`

// initSchema creates the database tables and indexes if they don't exist.
func (s *Store) initSchema() error {
	_, err := s.db.Exec(schemaSQL)
	return err
}
