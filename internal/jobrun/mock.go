package jobrun

import (
	"sync"
)

// Mock is a mock implementation of the Store interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	RecordStartFunc  func(run *Run) error
	RecordFinishFunc func(run *Run) error

	StartCalls  []Run
	FinishCalls []Run
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) RecordStart(run *Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartCalls = append(m.StartCalls, *run)
	if m.RecordStartFunc != nil {
		return m.RecordStartFunc(run)
	}
	return nil
}

func (m *Mock) RecordFinish(run *Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FinishCalls = append(m.FinishCalls, *run)
	if m.RecordFinishFunc != nil {
		return m.RecordFinishFunc(run)
	}
	return nil
}

// Recent returns recorded starts, newest first, with finished fields filled in.
func (m *Mock) Recent(limit int) ([]Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	finished := make(map[string]Run, len(m.FinishCalls))
	for _, r := range m.FinishCalls {
		finished[r.ExecID] = r
	}
	var runs []Run
	for i := len(m.StartCalls) - 1; i >= 0 && len(runs) < limit; i-- {
		r := m.StartCalls[i]
		if f, ok := finished[r.ExecID]; ok {
			r = f
		}
		runs = append(runs, r)
	}
	return runs, nil
}

func (m *Mock) CountByOutcome() (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[string]int)
	for _, r := range m.FinishCalls {
		counts[r.Outcome]++
	}
	return counts, nil
}

// Starts returns a copy of the recorded starts.
func (m *Mock) Starts() []Run {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Run(nil), m.StartCalls...)
}

// Finishes returns a copy of the recorded finishes.
func (m *Mock) Finishes() []Run {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Run(nil), m.FinishCalls...)
}
