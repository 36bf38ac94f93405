package database

import (
	"time"
)

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

type Run struct {
	ID          string
	StartedAt   time.Time
	FinishedAt  *time.Time
	Status      RunStatus
	NewArticles int
}

// SourceRun is the terminal outcome of one feed within a run.
type SourceRun struct {
	RunID        string
	Source       string
	State        string
	Failure      string
	Error        string
	UsedFallback bool
	Entries      int
	NewArticles  int
	Duplicates   int
	Filtered     int
	Duration     time.Duration
	FinishedAt   time.Time
}
