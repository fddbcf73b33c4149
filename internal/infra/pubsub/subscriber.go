package pubsub

import (
	"context"
	"io"
)

// TopicIdentityChanged carries sign-in/sign-out events from the auth
// service. Payload content is irrelevant here: any message on the topic
// means cached per-identity derivations must be discarded.
const TopicIdentityChanged = "identity.changed"

// Invalidator is the slice of the application the subscriber drives.
type Invalidator interface {
	InvalidateIdentity()
}

// Subscriber consumes identity-change events and fires the matching
// invalidation on the derivation graph.
type Subscriber interface {
	Run(ctx context.Context, invalidator Invalidator) error
	io.Closer
}
