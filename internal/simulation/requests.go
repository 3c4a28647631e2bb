package simulation

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/teaching-prom/internal/metrics"
	"github.com/mauv0809/teaching-prom/internal/sampling"
	"github.com/prometheus/client_golang/prometheus"
)

// SimulateRequest records one synthetic request in the duration histogram and
// returns its latency in seconds. The latency may be negative.
func (s *Simulator) SimulateRequest() (float64, error) {
	latency := s.sampler.Latency(RequestMeanSeconds, RequestStdDevSeconds)
	status := sampling.Pick(s.sampler, sampling.HTTPStatusTable)

	err := s.metrics.ObserveRequestDuration(prometheus.Labels{
		metrics.LabelMethod: RequestMethod,
		metrics.LabelPath:   RequestPath,
		metrics.LabelStatus: status,
	}, latency)
	log.Debug("Simulating duration", "duration", latency, "status", status)
	return latency, err
}

// runRequests paces itself by the latency it just recorded.
func (s *Simulator) runRequests(ctx context.Context) error {
	for ctx.Err() == nil {
		latency, err := s.SimulateRequest()
		if err != nil {
			log.Error("Failed to record request duration", "error", err)
		}
		if err := s.sleep(ctx, secondsToDuration(latency)); err != nil {
			break
		}
	}
	log.Debug("Request loop stopped")
	return nil
}
