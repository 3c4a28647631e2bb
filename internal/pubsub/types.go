package pubsub

import (
	"time"

	"cloud.google.com/go/pubsub"
)

// DefaultTopic receives every simulated job transition.
const DefaultTopic = "sim-job-transitions"

type client struct {
	client *pubsub.Client
	topic  *pubsub.Topic
}

// JobTransitionEvent is the message published when a simulated job changes
// status. RunTimeSeconds is zero for the start transition.
type JobTransitionEvent struct {
	ExecID         string    `msgpack:"exec_id"`
	Job            string    `msgpack:"job"`
	Status         string    `msgpack:"status"`
	At             time.Time `msgpack:"at"`
	RunTimeSeconds float64   `msgpack:"run_time_seconds"`
}
