package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics defines the sinks fed by the simulation loops.
// This decouples the loops from the specific metrics implementation (e.g., Prometheus).
// Labels must match the sink's declared label names exactly.
type Metrics interface {
	ObserveRequestDuration(labels prometheus.Labels, seconds float64) error
	AddRhythm(labels prometheus.Labels, amount float64) error
}
