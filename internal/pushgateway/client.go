package pushgateway

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/avast/retry-go"
	"github.com/charmbracelet/log"
	"github.com/mauv0809/teaching-prom/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const (
	DefaultAttempts   = 3
	DefaultRetryDelay = 200 * time.Millisecond
)

var _ Pusher = (*Client)(nil)

// Client pushes to the gateway at URL. A zero Attempts means a single try.
type Client struct {
	URL        string
	Attempts   uint
	RetryDelay time.Duration
}

// New returns a Client with the default retry policy.
func New(url string) *Client {
	return &Client{
		URL:        url,
		Attempts:   DefaultAttempts,
		RetryDelay: DefaultRetryDelay,
	}
}

func (c *Client) PushJobTransition(ctx context.Context, job, status string, grouping map[string]string) error {
	// A registry per submission keeps earlier pushes for the same job from
	// colliding with this one.
	reg := prometheus.NewRegistry()
	gauge, err := metrics.NewJobStatusGauge(reg)
	if err != nil {
		return err
	}
	if err := metrics.SetToNow(gauge, status); err != nil {
		return err
	}

	pusher := push.New(c.URL, job).Gatherer(reg)
	keys := make([]string, 0, len(grouping))
	for k := range grouping {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		pusher = pusher.Grouping(k, grouping[k])
	}

	attempts := c.Attempts
	if attempts == 0 {
		attempts = 1
	}
	err = retry.Do(
		func() error {
			return pusher.PushContext(ctx)
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(c.RetryDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Warn("Retrying push to gateway", "job", job, "status", status, "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to push %s=%s for job %s: %w", metrics.JobStatusName, status, job, err)
	}
	log.Debug("Pushed job transition", "job", job, "status", status, "grouping", grouping)
	return nil
}
