package db_test

import (
	"path/filepath"
	"testing"
	"time"

	"slidechoreo/pkg/db"
)

func TestDB(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "nested", "db_test.db")

	d, err := db.Init(path)
	if err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	if d == nil {
		t.Fatal("Init() returned nil DB")
	}
	d.Close()

	// Re-opening an existing ledger must not fail the migration
	d, err = db.Init(path)
	if err != nil {
		t.Fatalf("second Init() failed: %v", err)
	}
	defer d.Close()

	for _, table := range []string{"runs", "outputs", "warnings"} {
		var n int
		if err := d.QueryRow("SELECT count(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&n); err != nil {
			t.Fatal(err)
		}
		if n != 1 {
			t.Errorf("table %s missing", table)
		}
	}
}

func TestPruneRuns(t *testing.T) {
	d, err := db.Init(filepath.Join(t.TempDir(), "prune.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	old := time.Now().Add(-40 * 24 * time.Hour).UTC().Format("2006-01-02 15:04:05")
	recent := time.Now().Add(-time.Hour).UTC().Format("2006-01-02 15:04:05")
	for id, started := range map[string]string{"old": old, "new": recent} {
		if _, err := d.Exec("INSERT INTO runs (id, started_at) VALUES (?, ?)", id, started); err != nil {
			t.Fatal(err)
		}
		if _, err := d.Exec("INSERT INTO warnings (run_id, timing_file, kind, message) VALUES (?, 'a.json', 'cue_not_found', 'x')", id); err != nil {
			t.Fatal(err)
		}
	}

	n, err := d.PruneRuns(30 * 24 * time.Hour)
	if err != nil {
		t.Fatalf("PruneRuns failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 pruned run, got %d", n)
	}

	var runs, warns int
	_ = d.QueryRow("SELECT count(*) FROM runs").Scan(&runs)
	_ = d.QueryRow("SELECT count(*) FROM warnings").Scan(&warns)
	if runs != 1 || warns != 1 {
		t.Errorf("expected 1 run and 1 warning left, got %d and %d", runs, warns)
	}
}
