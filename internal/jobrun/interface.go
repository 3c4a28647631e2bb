package jobrun

// Store defines the journal of simulated job runs.
type Store interface {
	RecordStart(run *Run) error
	RecordFinish(run *Run) error
	// Recent returns up to limit runs, newest first.
	Recent(limit int) ([]Run, error)
	CountByOutcome() (map[string]int, error)
}
