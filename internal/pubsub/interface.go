package pubsub

import "context"

type Publisher interface {
	Publish(ctx context.Context, event JobTransitionEvent) error
	Close() error
}
