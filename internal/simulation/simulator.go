package simulation

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/teaching-prom/internal/config"
	"github.com/mauv0809/teaching-prom/internal/jobrun"
	"github.com/mauv0809/teaching-prom/internal/metrics"
	"github.com/mauv0809/teaching-prom/internal/pubsub"
	"github.com/mauv0809/teaching-prom/internal/pushgateway"
	"github.com/mauv0809/teaching-prom/internal/sampling"
	"golang.org/x/sync/errgroup"
)

// New creates a Simulator. samplingRate is the seasonal loop frequency in
// Hertz and jobs lists the profiles that get their own job loop.
func New(m metrics.Metrics, pusher pushgateway.Pusher, sampler *sampling.Sampler, samplingRate float64, jobs []config.JobProfile) *Simulator {
	return &Simulator{
		metrics:      m,
		pusher:       pusher,
		sampler:      sampler,
		samplingRate: samplingRate,
		jobs:         jobs,
		now:          time.Now,
		sleep:        sleepContext,
		newID:        uuid.NewString,
	}
}

// WithJournal records every job run in j.
func (s *Simulator) WithJournal(j jobrun.Store) *Simulator {
	s.journal = j
	return s
}

// WithPublisher publishes every job transition to p.
func (s *Simulator) WithPublisher(p pubsub.Publisher) *Simulator {
	s.publisher = p
	return s
}

// Handle controls the loops launched by Start.
type Handle struct {
	cancel context.CancelFunc
	group  *errgroup.Group
}

// Start launches the request loop, the seasonal loop and one loop per job
// profile. The loops run until ctx is cancelled or Stop is called.
func (s *Simulator) Start(ctx context.Context) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return s.runRequests(ctx) })
	g.Go(func() error { return s.runSeasonal(ctx) })
	for _, profile := range s.jobs {
		profile := profile
		g.Go(func() error { return s.runJob(ctx, profile) })
	}
	log.Info("Simulation loops started", "jobs", len(s.jobs), "sampling_rate", s.samplingRate)

	return &Handle{cancel: cancel, group: g}
}

// Stop cancels every loop and waits for them to return.
func (h *Handle) Stop() error {
	h.cancel()
	return h.Wait()
}

// Wait blocks until every loop has returned.
func (h *Handle) Wait() error {
	return h.group.Wait()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func secondsToDuration(s float64) time.Duration {
	if s <= 0 {
		return 0
	}
	return time.Duration(s * float64(time.Second))
}
