package pubsub

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// New connects to Pub/Sub in projectID and publishes to topicID.
func New(ctx context.Context, projectID, topicID string) (Publisher, error) {
	pubSubC, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}
	return &client{
		client: pubSubC,
		topic:  pubSubC.Topic(topicID),
	}, nil
}

func (c *client) Publish(ctx context.Context, event JobTransitionEvent) error {
	data, err := Encode(event)
	if err != nil {
		return err
	}
	result := c.topic.Publish(ctx, &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"job":    event.Job,
			"status": event.Status,
		},
	})
	serverID, err := result.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", c.topic.ID(), err)
	}
	log.Debug("Published job transition", "serverID", serverID, "exec_id", event.ExecID, "status", event.Status)
	return nil
}

func (c *client) Close() error {
	c.topic.Stop()
	return c.client.Close()
}

// Encode serializes an event with MessagePack.
func Encode(event JobTransitionEvent) ([]byte, error) {
	data, err := msgpack.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("MessagePack marshal error: %w", err)
	}
	return data, nil
}

// Decode parses a message produced by Encode.
func Decode(data []byte) (JobTransitionEvent, error) {
	var event JobTransitionEvent
	if err := msgpack.Unmarshal(data, &event); err != nil {
		return JobTransitionEvent{}, fmt.Errorf("MessagePack unmarshal error: %w", err)
	}
	return event, nil
}
