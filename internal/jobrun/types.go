package jobrun

import (
	"database/sql"
	"sync"
	"time"
)

// Run is one execution of a simulated job. It is created when the job starts
// and completed once its outcome is known.
type Run struct {
	ExecID      string        `json:"exec_id"`
	Job         string        `json:"job"`
	MeanRunTime time.Duration `json:"mean_run_time"`
	StdDev      time.Duration `json:"std_dev"`
	RunTime     time.Duration `json:"run_time"`
	Outcome     string        `json:"outcome,omitempty"`
	StartedAt   time.Time     `json:"started_at"`
	FinishedAt  *time.Time    `json:"finished_at,omitempty"`
}

// Finished reports whether the run has an outcome.
func (r Run) Finished() bool {
	return r.FinishedAt != nil
}

// store handles job run database operations.
type store struct {
	db *sql.DB
	mu sync.Mutex
}
