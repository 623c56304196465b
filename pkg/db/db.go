package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Register driver
)

// DB wraps the sql.DB connection.
type DB struct {
	*sql.DB
}

// Init opens the database and runs migrations.
func Init(path string) (*DB, error) {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	// WAL lets -report read while a watch loop is writing
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=30000;"); err != nil {
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	d := &DB{db}
	// Workers write concurrently; one connection serializes them
	db.SetMaxOpenConns(1)

	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return d, nil
}

// PruneRuns removes runs started before the cutoff, together with their warnings.
// Output rows are kept because they drive change detection.
func (d *DB) PruneRuns(olderThan time.Duration) (int64, error) {
	// Matches the text form modernc writes for UTC times
	deadline := time.Now().Add(-olderThan).UTC().Format("2006-01-02 15:04:05")

	if _, err := d.Exec(`DELETE FROM warnings WHERE run_id IN (SELECT id FROM runs WHERE started_at < ?)`, deadline); err != nil {
		return 0, fmt.Errorf("failed to prune warnings: %w", err)
	}
	res, err := d.Exec("DELETE FROM runs WHERE started_at < ?", deadline)
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	return res.RowsAffected()
}

func (d *DB) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at DATETIME,
			finished_at DATETIME,
			status TEXT DEFAULT 'running',
			generated INTEGER DEFAULT 0,
			unchanged INTEGER DEFAULT 0,
			skipped INTEGER DEFAULT 0,
			failed INTEGER DEFAULT 0,
			warnings INTEGER DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS outputs (
			timing_file TEXT PRIMARY KEY,
			input_hash TEXT,
			output_path TEXT,
			slide_type TEXT,
			run_id TEXT,
			updated_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS warnings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT,
			timing_file TEXT,
			kind TEXT,
			block_id TEXT,
			message TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_warnings_run ON warnings(run_id);`,
	}

	for _, q := range queries {
		if _, err := d.Exec(q); err != nil {
			return fmt.Errorf("exec error: %w query: %s", err, q)
		}
	}

	// Migration: Add slide_type if missing (ledgers created before it was tracked)
	var colCount int
	err := d.QueryRow("SELECT count(*) FROM pragma_table_info('outputs') WHERE name='slide_type'").Scan(&colCount)
	if err == nil && colCount == 0 {
		if _, err := d.Exec("ALTER TABLE outputs ADD COLUMN slide_type TEXT"); err != nil {
			return fmt.Errorf("failed to add slide_type column: %w", err)
		}
	}

	return nil
}
