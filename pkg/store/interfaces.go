package store

import (
	"context"
	"time"

	"slidechoreo/pkg/model"
)

// RunStore handles the run ledger.
type RunStore interface {
	StartRun(ctx context.Context, startedAt time.Time) (string, error)
	FinishRun(ctx context.Context, run *model.RunRecord) error
	GetRun(ctx context.Context, id string) (*model.RunRecord, error)
	LastRun(ctx context.Context) (*model.RunRecord, error)
}

// OutputStore tracks the inputs behind each written choreography.
type OutputStore interface {
	GetOutput(ctx context.Context, timingFile string) (*model.OutputRecord, error)
	SaveOutput(ctx context.Context, rec *model.OutputRecord) error
	ListOutputs(ctx context.Context) ([]model.OutputRecord, error)
	DeleteOutput(ctx context.Context, timingFile string) error
}

// WarningStore keeps the non-fatal problems raised during a run.
type WarningStore interface {
	SaveWarnings(ctx context.Context, runID, timingFile string, warnings []model.Warning) error
	ListWarnings(ctx context.Context, runID string) ([]model.FileWarning, error)
}
