package database

import (
	"time"
)

type RunRepository interface {
	StartRun(runID string, startedAt time.Time) error
	FinishRun(runID string, finishedAt time.Time, status RunStatus, newArticles int) error
	GetRun(runID string) (*Run, error)

	RecordSourceRun(sourceRun SourceRun) error
	GetSourceRuns(runID string) ([]SourceRun, error)
	GetLastSuccess(source string, state string) (*time.Time, error)
}
