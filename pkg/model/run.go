package model

import "time"

// RunStatus is the lifecycle state of a pipeline run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// RunRecord is one pipeline invocation in the ledger.
type RunRecord struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Status     RunStatus
	Generated  int
	Unchanged  int
	Skipped    int
	Failed     int
	Warnings   int
}

// OutputRecord remembers which inputs produced a choreography file.
type OutputRecord struct {
	TimingFile string
	InputHash  string
	OutputPath string
	SlideType  SlideType
	RunID      string
	UpdatedAt  time.Time
}

// FileWarning is a warning attributed to the timing file that raised it.
type FileWarning struct {
	TimingFile string
	Warning
}
