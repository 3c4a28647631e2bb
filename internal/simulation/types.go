package simulation

import (
	"context"
	"time"

	"github.com/mauv0809/teaching-prom/internal/config"
	"github.com/mauv0809/teaching-prom/internal/jobrun"
	"github.com/mauv0809/teaching-prom/internal/metrics"
	"github.com/mauv0809/teaching-prom/internal/pubsub"
	"github.com/mauv0809/teaching-prom/internal/pushgateway"
	"github.com/mauv0809/teaching-prom/internal/sampling"
)

const (
	RequestMethod = "POST"
	RequestPath   = "/magical/method"

	// Request latency is drawn from N(300ms, 50ms).
	RequestMeanSeconds   = 0.3
	RequestStdDevSeconds = 0.05

	SeasonalComponent = "front_page"
	SeasonalAction    = "view"
	// SeasonalFrequency completes one cycle every ten minutes.
	SeasonalFrequency = 1.0 / 600
	// Amplitudes are drawn from [SeasonalMinAmplitude, SeasonalMaxAmplitude).
	SeasonalMinAmplitude = 1
	SeasonalMaxAmplitude = 10
	SeasonalScale        = 100

	StatusStart   = "start"
	GroupingKeyID = "exec_id"
)

// Simulator owns the loops that feed the metric sinks and the Pushgateway.
type Simulator struct {
	metrics      metrics.Metrics
	pusher       pushgateway.Pusher
	sampler      *sampling.Sampler
	samplingRate float64
	jobs         []config.JobProfile

	journal   jobrun.Store
	publisher pubsub.Publisher

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
	newID func() string
}
