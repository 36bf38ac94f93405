package database

import (
	"database/sql"
	"fmt"
	"time"
)

var _ RunRepository = (*runRepository)(nil)

type runRepository struct {
	db *DB
}

func NewRunRepository(db *DB) RunRepository {
	return &runRepository{db: db}
}

func (r *runRepository) StartRun(runID string, startedAt time.Time) error {
	_, err := r.db.Exec(`
		INSERT INTO runs (id, started_at, status)
		VALUES (?, ?, ?)
	`, runID, startedAt.UTC(), RunStatusRunning)
	if err != nil {
		return fmt.Errorf("failed to start run: %w", err)
	}
	return nil
}

func (r *runRepository) FinishRun(runID string, finishedAt time.Time, status RunStatus, newArticles int) error {
	result, err := r.db.Exec(`
		UPDATE runs
		SET finished_at = ?, status = ?, new_articles = ?
		WHERE id = ?
	`, finishedAt.UTC(), status, newArticles, runID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check finished run: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("run %s not found", runID)
	}

	return nil
}

func (r *runRepository) GetRun(runID string) (*Run, error) {
	var run Run
	var finishedAt sql.NullTime

	err := r.db.QueryRow(`
		SELECT id, started_at, finished_at, status, new_articles
		FROM runs
		WHERE id = ?
	`, runID).Scan(&run.ID, &run.StartedAt, &finishedAt, &run.Status, &run.NewArticles)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	if finishedAt.Valid {
		run.FinishedAt = &finishedAt.Time
	}

	return &run, nil
}

func (r *runRepository) RecordSourceRun(s SourceRun) error {
	_, err := r.db.Exec(`
		INSERT INTO source_runs (
			run_id, source, state, failure, error, used_fallback,
			entries, new_articles, duplicates, filtered, duration_ms, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, s.RunID, s.Source, s.State, s.Failure, s.Error, s.UsedFallback,
		s.Entries, s.NewArticles, s.Duplicates, s.Filtered, s.Duration.Milliseconds(), s.FinishedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to record source run: %w", err)
	}
	return nil
}

func (r *runRepository) GetSourceRuns(runID string) ([]SourceRun, error) {
	rows, err := r.db.Query(`
		SELECT run_id, source, state, failure, error, used_fallback,
		       entries, new_articles, duplicates, filtered, duration_ms, finished_at
		FROM source_runs
		WHERE run_id = ?
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get source runs: %w", err)
	}
	defer rows.Close()

	var sourceRuns []SourceRun
	for rows.Next() {
		var s SourceRun
		var durationMs int64
		err := rows.Scan(
			&s.RunID, &s.Source, &s.State, &s.Failure, &s.Error, &s.UsedFallback,
			&s.Entries, &s.NewArticles, &s.Duplicates, &s.Filtered, &durationMs, &s.FinishedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan source run row: %w", err)
		}
		s.Duration = time.Duration(durationMs) * time.Millisecond
		sourceRuns = append(sourceRuns, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating source run rows: %w", err)
	}

	return sourceRuns, nil
}

// GetLastSuccess returns when source last reached state, or nil if never.
func (r *runRepository) GetLastSuccess(source string, state string) (*time.Time, error) {
	var finishedAt sql.NullTime

	err := r.db.QueryRow(`
		SELECT finished_at
		FROM source_runs
		WHERE source = ? AND state = ?
		ORDER BY finished_at DESC
		LIMIT 1
	`, source, state).Scan(&finishedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last success: %w", err)
	}

	if !finishedAt.Valid {
		return nil, nil
	}
	t := finishedAt.Time.UTC()
	return &t, nil
}
