package main

import (
	"log/slog"

	"github.com/tiara-stack/tiara-stack/internal/config"
	"github.com/tiara-stack/tiara-stack/internal/infra/pubsub"
)

func initSubscriber(cfg *config.Config) (pubsub.Subscriber, error) {
	if cfg.PubSub.NatsURL == "" {
		slog.Warn("NATS_URL not set, identity invalidation events disabled")
		return nil, nil
	}

	subscriber, err := pubsub.NewNATSSubscriber(pubsub.NATSSubscriberConfig{
		URL: cfg.PubSub.NatsURL,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("NATS subscriber initialized", "url", cfg.PubSub.NatsURL)

	return subscriber, nil
}
