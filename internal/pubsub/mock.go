package pubsub

import (
	"context"
	"sync"
)

// Mock is a mock implementation of Publisher for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	PublishFunc func(ctx context.Context, event JobTransitionEvent) error

	// Published holds the encoded payload of every call.
	Published [][]byte
	closed    bool
}

// NewMock creates a new mock Publisher.
func NewMock() *Mock {
	return &Mock{}
}

// Publish encodes the event like the real client, records it and executes the
// mock function if provided.
func (m *Mock) Publish(ctx context.Context, event JobTransitionEvent) error {
	data, err := Encode(event)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Published = append(m.Published, data)
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, event)
	}
	return nil
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Events decodes every recorded payload.
func (m *Mock) Events() ([]JobTransitionEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	events := make([]JobTransitionEvent, 0, len(m.Published))
	for _, data := range m.Published {
		e, err := Decode(data)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

// Closed reports whether Close was called.
func (m *Mock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
