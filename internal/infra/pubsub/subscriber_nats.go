package pubsub

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	nc "github.com/nats-io/nats.go"

	"github.com/tiara-stack/tiara-stack/internal/observability/tracing"
)

type NATSSubscriber struct {
	subscriber *nats.Subscriber
	logger     watermill.LoggerAdapter
}

type NATSSubscriberConfig struct {
	URL string
}

func NewNATSSubscriber(cfg NATSSubscriberConfig) (*NATSSubscriber, error) {
	logger := watermill.NewSlogLogger(slog.Default())

	subscriber, err := nats.NewSubscriber(
		nats.SubscriberConfig{
			URL:         cfg.URL,
			NatsOptions: []nc.Option{nc.Timeout(10 * time.Second)},
			Unmarshaler: &nats.NATSMarshaler{},
			JetStream: nats.JetStreamConfig{
				// Invalidation signals are fire-and-forget broadcasts; a
				// missed one only means a cache entry lives until its next
				// explicit invalidation. No durability needed.
				Disabled: true,
			},
		},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create NATS subscriber: %w", err)
	}

	return &NATSSubscriber{
		subscriber: subscriber,
		logger:     logger,
	}, nil
}

// Run consumes identity-change events until ctx is cancelled or the
// subscription closes, firing the identity invalidation for each one.
func (s *NATSSubscriber) Run(ctx context.Context, invalidator Invalidator) error {
	messages, err := s.subscriber.Subscribe(ctx, TopicIdentityChanged)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", TopicIdentityChanged, err)
	}

	slog.Info("identity invalidation subscriber started",
		slog.String("topic", TopicIdentityChanged),
	)

	for msg := range messages {
		msgCtx := tracing.ExtractFromMap(ctx, msg.Metadata)

		slog.DebugContext(msgCtx, "identity change event received",
			slog.String("message_id", msg.UUID),
			slog.String("event_type", msg.Metadata.Get("event_type")),
		)

		invalidator.InvalidateIdentity()
		msg.Ack()
	}

	return nil
}

func (s *NATSSubscriber) Close() error {
	return s.subscriber.Close()
}
