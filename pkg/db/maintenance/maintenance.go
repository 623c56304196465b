package maintenance

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"slidechoreo/pkg/db"
	"slidechoreo/pkg/store"
)

// Run executes all ledger maintenance tasks: stale output cleanup and run pruning.
// Failures are logged, never fatal. It blocks until completion.
func Run(ctx context.Context, s store.OutputStore, d *db.DB, retention time.Duration) error {
	slog.Info("Starting ledger maintenance...")

	if n, err := dropStaleOutputs(ctx, s); err != nil {
		slog.Error("Stale output cleanup failed", "error", err)
	} else if n > 0 {
		slog.Info("Forgot outputs whose files are gone", "count", n)
	}

	if retention > 0 {
		n, err := d.PruneRuns(retention)
		if err != nil {
			slog.Error("Run pruning failed", "error", err)
		} else {
			slog.Info("Run pruning completed", "pruned", n)
		}
	}

	return nil
}

// dropStaleOutputs removes ledger rows whose choreography file was deleted
// outside the tool, so the next run regenerates them.
func dropStaleOutputs(ctx context.Context, s store.OutputStore) (int, error) {
	outputs, err := s.ListOutputs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list outputs: %w", err)
	}

	count := 0
	for _, o := range outputs {
		if o.OutputPath == "" {
			continue
		}
		_, err := os.Stat(o.OutputPath)
		if err == nil || !errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := s.DeleteOutput(ctx, o.TimingFile); err != nil {
			return count, fmt.Errorf("failed to delete %s: %w", o.TimingFile, err)
		}
		count++
	}
	return count, nil
}
