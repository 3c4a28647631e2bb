package pushgateway

import "context"

// Pusher submits job status transitions to a Pushgateway.
type Pusher interface {
	// PushJobTransition records status as the current state of job under the
	// given grouping key. Each call is an isolated submission.
	PushJobTransition(ctx context.Context, job, status string, grouping map[string]string) error
}
