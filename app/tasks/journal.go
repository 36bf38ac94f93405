package tasks

import (
	"time"

	"github.com/lysyi3m/rss-mood/app/database"
)

var _ Journal = (*runJournal)(nil)

type runJournal struct {
	repo database.RunRepository
}

// NewJournal records pipeline outcomes in the run database.
func NewJournal(repo database.RunRepository) Journal {
	return &runJournal{repo: repo}
}

func (j *runJournal) StartRun(runID string, startedAt time.Time) error {
	return j.repo.StartRun(runID, startedAt)
}

func (j *runJournal) RecordOutcome(runID string, o *Outcome) error {
	errText := ""
	if o.Err != nil {
		errText = o.Err.Error()
	}

	return j.repo.RecordSourceRun(database.SourceRun{
		RunID:        runID,
		Source:       o.Source,
		State:        string(o.State),
		Failure:      string(o.Failure),
		Error:        errText,
		UsedFallback: o.UsedFallback,
		Entries:      o.Entries,
		NewArticles:  o.New,
		Duplicates:   o.Duplicates,
		Filtered:     o.Filtered,
		Duration:     o.Duration,
		FinishedAt:   time.Now().UTC(),
	})
}

func (j *runJournal) FinishRun(runID string, finishedAt time.Time, failed bool, newArticles int) error {
	status := database.RunStatusCompleted
	if failed {
		status = database.RunStatusFailed
	}
	return j.repo.FinishRun(runID, finishedAt, status, newArticles)
}

func (j *runJournal) LastDone(source string) (*time.Time, error) {
	return j.repo.GetLastSuccess(source, string(StateDone))
}

type nopJournal struct{}

func (nopJournal) StartRun(string, time.Time) error { return nil }
func (nopJournal) RecordOutcome(string, *Outcome) error { return nil }
func (nopJournal) FinishRun(string, time.Time, bool, int) error { return nil }
func (nopJournal) LastDone(string) (*time.Time, error) { return nil, nil }
