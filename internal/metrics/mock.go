package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Sample is a single recorded call on the mock.
type Sample struct {
	Labels prometheus.Labels
	Value  float64
}

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu           sync.Mutex
	observations []Sample
	rhythm       []Sample

	ObserveRequestDurationFunc func(labels prometheus.Labels, seconds float64) error
	AddRhythmFunc              func(labels prometheus.Labels, amount float64) error
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) ObserveRequestDuration(labels prometheus.Labels, seconds float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observations = append(m.observations, Sample{Labels: labels, Value: seconds})
	if m.ObserveRequestDurationFunc != nil {
		return m.ObserveRequestDurationFunc(labels, seconds)
	}
	return nil
}

func (m *Mock) AddRhythm(labels prometheus.Labels, amount float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rhythm = append(m.rhythm, Sample{Labels: labels, Value: amount})
	if m.AddRhythmFunc != nil {
		return m.AddRhythmFunc(labels, amount)
	}
	return nil
}

// Observations returns a copy of the recorded request durations.
func (m *Mock) Observations() []Sample {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Sample(nil), m.observations...)
}

// Rhythm returns a copy of the recorded rhythm increments.
func (m *Mock) Rhythm() []Sample {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Sample(nil), m.rhythm...)
}
