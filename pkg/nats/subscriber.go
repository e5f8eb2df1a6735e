package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"audio-eval-be/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// EventHandler is a function that processes an event.
type EventHandler func(ctx context.Context, event events.Event) error

// Subscriber tails events from the AUDIO_EVAL stream.
type Subscriber struct {
	nc *nats.Conn
	js jetstream.JetStream
}

// NewSubscriber creates a new NATS subscriber.
func NewSubscriber(url string) (*Subscriber, error) {
	nc, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	return &Subscriber{nc: nc, js: js}, nil
}

// Watch delivers every event whose subject matches eventType (or all events
// when empty) to handler until ctx is cancelled. It uses an ordered, ephemeral
// consumer, so nothing is acknowledged and nothing is redelivered.
func (s *Subscriber) Watch(ctx context.Context, eventType string, deliverAll bool, handler EventHandler) error {
	filter := SubjectPrefix + ".>"
	if eventType != "" {
		filter = Subject(eventType)
	}

	policy := jetstream.DeliverNewPolicy
	if deliverAll {
		policy = jetstream.DeliverAllPolicy
	}

	consumer, err := s.js.OrderedConsumer(ctx, StreamName, jetstream.OrderedConsumerConfig{
		FilterSubjects: []string{filter},
		DeliverPolicy:  policy,
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer: %w", err)
	}

	cc, err := consumer.Consume(func(msg jetstream.Msg) {
		var payload map[string]interface{}
		if err := json.Unmarshal(msg.Data(), &payload); err != nil {
			return
		}

		occurredAt := time.Now()
		if meta, err := msg.Metadata(); err == nil {
			occurredAt = meta.Timestamp
		}

		_ = handler(ctx, events.BaseEvent{
			Type:       msg.Subject(),
			Data:       payload,
			OccurredAt: occurredAt,
		})
	})
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}
	defer cc.Stop()

	<-ctx.Done()
	return nil
}

// Close closes the connection.
func (s *Subscriber) Close() {
	if s.nc != nil {
		s.nc.Close()
	}
}
