package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"slidechoreo/pkg/db"
	"slidechoreo/pkg/model"
)

// Store defines the repository interface.
// It composes all sub-interfaces for full store access.
// Consumers should depend on specific sub-interfaces when possible.
type Store interface {
	RunStore
	OutputStore
	WarningStore

	// Close closes the store connection.
	Close() error
}

// SQLiteStore implements Store.
type SQLiteStore struct {
	db *db.DB
}

// NewSQLiteStore creates a new store.
func NewSQLiteStore(db *db.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- Runs ---

// StartRun records a new running run and returns its id.
func (s *SQLiteStore) StartRun(ctx context.Context, startedAt time.Time) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, status) VALUES (?, ?, ?)`,
		id, startedAt.UTC(), model.RunRunning)
	if err != nil {
		return "", fmt.Errorf("failed to start run: %w", err)
	}
	return id, nil
}

// FinishRun stores the final counters of a run.
func (s *SQLiteStore) FinishRun(ctx context.Context, r *model.RunRecord) error {
	finished := r.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, status = ?, generated = ?, unchanged = ?, skipped = ?, failed = ?, warnings = ?
		 WHERE id = ?`,
		finished.UTC(), r.Status, r.Generated, r.Unchanged, r.Skipped, r.Failed, r.Warnings, r.ID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run %s not found", r.ID)
	}
	return nil
}

const runColumns = `id, started_at, finished_at, status, generated, unchanged, skipped, failed, warnings`

// GetRun returns a run by id, or nil when it does not exist.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*model.RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	return scanRun(row)
}

// LastRun returns the most recently started run, or nil when the ledger is empty.
func (s *SQLiteStore) LastRun(ctx context.Context) (*model.RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY started_at DESC, rowid DESC LIMIT 1`)
	return scanRun(row)
}

func scanRun(row *sql.Row) (*model.RunRecord, error) {
	var r model.RunRecord
	var started, finished sql.NullTime
	var status string
	err := row.Scan(&r.ID, &started, &finished, &status,
		&r.Generated, &r.Unchanged, &r.Skipped, &r.Failed, &r.Warnings)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, err
	}
	r.Status = model.RunStatus(status)
	if started.Valid {
		r.StartedAt = started.Time
	}
	if finished.Valid {
		r.FinishedAt = finished.Time
	}
	return &r, nil
}

// --- Outputs ---

// GetOutput returns the ledger row for a timing file, or nil when it was never written.
func (s *SQLiteStore) GetOutput(ctx context.Context, timingFile string) (*model.OutputRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT timing_file, input_hash, output_path, slide_type, run_id, updated_at FROM outputs WHERE timing_file = ?`,
		timingFile)

	var o model.OutputRecord
	var slide, runID sql.NullString
	var updated sql.NullTime
	err := row.Scan(&o.TimingFile, &o.InputHash, &o.OutputPath, &slide, &runID, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	o.SlideType = model.SlideType(slide.String)
	o.RunID = runID.String
	if updated.Valid {
		o.UpdatedAt = updated.Time
	}
	return &o, nil
}

// SaveOutput inserts or replaces the ledger row for a timing file.
func (s *SQLiteStore) SaveOutput(ctx context.Context, o *model.OutputRecord) error {
	updated := o.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	query := `INSERT OR REPLACE INTO outputs (timing_file, input_hash, output_path, slide_type, run_id, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		o.TimingFile, o.InputHash, o.OutputPath, string(o.SlideType), o.RunID, updated.UTC())
	return err
}

// ListOutputs returns every ledger row ordered by timing file.
func (s *SQLiteStore) ListOutputs(ctx context.Context) ([]model.OutputRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT timing_file, input_hash, output_path, slide_type, run_id, updated_at FROM outputs ORDER BY timing_file`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.OutputRecord
	for rows.Next() {
		var o model.OutputRecord
		var slide, runID sql.NullString
		var updated sql.NullTime
		if err := rows.Scan(&o.TimingFile, &o.InputHash, &o.OutputPath, &slide, &runID, &updated); err != nil {
			return nil, err
		}
		o.SlideType = model.SlideType(slide.String)
		o.RunID = runID.String
		if updated.Valid {
			o.UpdatedAt = updated.Time
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// DeleteOutput forgets a timing file so the next run regenerates it.
func (s *SQLiteStore) DeleteOutput(ctx context.Context, timingFile string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM outputs WHERE timing_file = ?", timingFile)
	return err
}

// --- Warnings ---

// SaveWarnings appends the warnings raised for one timing file.
func (s *SQLiteStore) SaveWarnings(ctx context.Context, runID, timingFile string, warnings []model.Warning) error {
	if len(warnings) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO warnings (run_id, timing_file, kind, block_id, message) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, w := range warnings {
		if _, err := stmt.ExecContext(ctx, runID, timingFile, string(w.Kind), w.BlockID, w.Message); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListWarnings returns a run's warnings in the order they were recorded.
func (s *SQLiteStore) ListWarnings(ctx context.Context, runID string) ([]model.FileWarning, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT timing_file, kind, block_id, message FROM warnings WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.FileWarning
	for rows.Next() {
		var fw model.FileWarning
		var kind string
		var block sql.NullString
		if err := rows.Scan(&fw.TimingFile, &kind, &block, &fw.Message); err != nil {
			return nil, err
		}
		fw.Kind = model.WarningKind(kind)
		fw.BlockID = block.String
		out = append(out, fw)
	}
	return out, rows.Err()
}
