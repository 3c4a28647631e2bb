package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	RequestDurationName = "sim_call_request_duration_seconds"
	RhythmName          = "rhythm_component_total"
	JobStatusName       = "sim_job_status"

	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelComponent = "component"
	LabelAction    = "action"
)

// RequestDurationBuckets are the upper bounds, in seconds, shared by every
// series of the request duration histogram.
var RequestDurationBuckets = []float64{0.1, 0.2, 0.5, 1, 2, 5}

var (
	// ErrLabelMismatch is returned when a sink is used with label names that
	// differ from the ones it was declared with.
	ErrLabelMismatch = errors.New("label set does not match sink")
	// ErrDuplicateRegistration is returned when a metric name is registered
	// twice in the same registry.
	ErrDuplicateRegistration = errors.New("metric already registered")
	// ErrNegativeIncrement is returned when a counter would decrease.
	ErrNegativeIncrement = errors.New("counter increment must not be negative")
)

// Service holds all the Prometheus sinks scraped from the service.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	RequestDuration *prometheus.HistogramVec
	Rhythm          *prometheus.CounterVec
}
