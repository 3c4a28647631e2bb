package pushgateway

import (
	"context"
	"sync"
)

// Transition holds the arguments for a call to PushJobTransition.
type Transition struct {
	Job      string
	Status   string
	Grouping map[string]string
}

// Mock is a mock implementation of Pusher for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	PushJobTransitionFunc func(ctx context.Context, job, status string, grouping map[string]string) error

	transitions []Transition
}

// NewMock creates a new mock Pusher.
func NewMock() *Mock {
	return &Mock{}
}

// PushJobTransition records the call and executes the mock function if provided.
func (m *Mock) PushJobTransition(ctx context.Context, job, status string, grouping map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitions = append(m.transitions, Transition{Job: job, Status: status, Grouping: grouping})
	if m.PushJobTransitionFunc != nil {
		return m.PushJobTransitionFunc(ctx, job, status, grouping)
	}
	return nil
}

// Transitions returns a copy of the recorded calls.
func (m *Mock) Transitions() []Transition {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Transition(nil), m.transitions...)
}
