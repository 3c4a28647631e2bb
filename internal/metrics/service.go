package metrics

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus sinks.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) (*Service, error) {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    RequestDurationName,
			Help:    "Simulated HTTP Request Duration in Seconds",
			Buckets: RequestDurationBuckets,
		}, []string{LabelMethod, LabelPath, LabelStatus}),
		Rhythm: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: RhythmName,
			Help: "Counter that goes up in a rhythm",
		}, []string{LabelComponent, LabelAction}),
	}

	if err := register(reg, s.RequestDuration); err != nil {
		return nil, err
	}
	if err := register(reg, s.Rhythm); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Service) ObserveRequestDuration(labels prometheus.Labels, seconds float64) error {
	o, err := s.RequestDuration.GetMetricWith(labels)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrLabelMismatch, RequestDurationName, err)
	}
	o.Observe(seconds)
	return nil
}

func (s *Service) AddRhythm(labels prometheus.Labels, amount float64) error {
	if amount < 0 {
		return fmt.Errorf("%w: %v", ErrNegativeIncrement, amount)
	}
	c, err := s.Rhythm.GetMetricWith(labels)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrLabelMismatch, RhythmName, err)
	}
	c.Add(amount)
	return nil
}

// NewJobStatusGauge registers a sim_job_status gauge in reg. Callers that
// push to a gateway pass a registry created for that single submission.
func NewJobStatusGauge(reg prometheus.Registerer) (*prometheus.GaugeVec, error) {
	g := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: JobStatusName,
		Help: "Status of simulated job status",
	}, []string{LabelStatus})
	if err := register(reg, g); err != nil {
		return nil, err
	}
	return g, nil
}

// SetToNow records the current time as the value of the status series.
// A later call overwrites the earlier timestamp.
func SetToNow(g *prometheus.GaugeVec, status string) error {
	m, err := g.GetMetricWith(prometheus.Labels{LabelStatus: status})
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrLabelMismatch, JobStatusName, err)
	}
	m.SetToCurrentTime()
	return nil
}

// Serialize renders every metric in g using the text exposition format and
// returns the body with its media type.
func Serialize(g prometheus.Gatherer) ([]byte, string, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, "", fmt.Errorf("failed to gather metrics: %w", err)
	}
	format := expfmt.NewFormat(expfmt.TypeTextPlain)
	var buf bytes.Buffer
	enc := expfmt.NewEncoder(&buf, format)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return nil, "", fmt.Errorf("failed to encode %s: %w", mf.GetName(), err)
		}
	}
	return buf.Bytes(), string(format), nil
}

func register(reg prometheus.Registerer, c prometheus.Collector) error {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return fmt.Errorf("%w: %v", ErrDuplicateRegistration, err)
		}
		return fmt.Errorf("failed to register collector: %w", err)
	}
	return nil
}
