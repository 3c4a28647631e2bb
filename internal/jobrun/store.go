package jobrun

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// New creates a new job run Store.
func New(db *sql.DB) Store {
	return &store{
		db: db,
	}
}

// RecordStart inserts a run that has just started.
func (s *store) RecordStart(run *Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO job_runs (exec_id, job, mean_run_time_ms, std_dev_ms, started_at)
		VALUES (?, ?, ?, ?, ?);
	`, run.ExecID, run.Job, run.MeanRunTime.Milliseconds(), run.StdDev.Milliseconds(), run.StartedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to record start of %s: %w", run.ExecID, err)
	}
	log.Debug("Recorded job start", "exec_id", run.ExecID, "job", run.Job)
	return nil
}

// RecordFinish stores the sampled run time and outcome of a started run.
func (s *store) RecordFinish(run *Run) error {
	if run.FinishedAt == nil {
		return fmt.Errorf("run %s has not finished", run.ExecID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		UPDATE job_runs SET run_time_ms = ?, outcome = ?, finished_at = ?
		WHERE exec_id = ?;
	`, run.RunTime.Milliseconds(), run.Outcome, run.FinishedAt.UnixMilli(), run.ExecID)
	if err != nil {
		return fmt.Errorf("failed to record finish of %s: %w", run.ExecID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("no started run with exec_id %s", run.ExecID)
	}
	log.Debug("Recorded job finish", "exec_id", run.ExecID, "job", run.Job, "outcome", run.Outcome)
	return nil
}

func (s *store) Recent(limit int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT exec_id, job, mean_run_time_ms, std_dev_ms, run_time_ms, outcome, started_at, finished_at
		FROM job_runs
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?;
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run                 Run
			meanMs, stdMs       int64
			startedMs           int64
			runTimeMs, finishMs sql.NullInt64
			outcome             sql.NullString
		)
		if err := rows.Scan(&run.ExecID, &run.Job, &meanMs, &stdMs, &runTimeMs, &outcome, &startedMs, &finishMs); err != nil {
			return nil, err
		}
		run.MeanRunTime = time.Duration(meanMs) * time.Millisecond
		run.StdDev = time.Duration(stdMs) * time.Millisecond
		run.StartedAt = time.UnixMilli(startedMs)
		run.Outcome = outcome.String
		if runTimeMs.Valid {
			run.RunTime = time.Duration(runTimeMs.Int64) * time.Millisecond
		}
		if finishMs.Valid {
			finished := time.UnixMilli(finishMs.Int64)
			run.FinishedAt = &finished
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// CountByOutcome counts finished runs per outcome.
func (s *store) CountByOutcome() (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT outcome, COUNT(*) FROM job_runs WHERE outcome IS NOT NULL GROUP BY outcome")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var outcome string
		var count int
		if err := rows.Scan(&outcome, &count); err != nil {
			return nil, err
		}
		counts[outcome] = count
	}
	return counts, rows.Err()
}
