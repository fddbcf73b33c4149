// Package snapshot provides an optional redis-backed read-through cache
// for upstream fetch payloads. It lets a fresh process (or a second
// replica) reuse a recent snapshot instead of hitting the sheet query
// service again; the in-process derivation graph stays authoritative for
// staleness within a generation.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "sheet"

type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{
		client: client,
		ttl:    ttl,
	}
}

// Key builds the namespaced snapshot key for a community-scoped resource,
// e.g. Key("123", "schedules") -> "sheet:123:schedules".
func Key(communityID, resource string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, communityID, resource)
}

// Get returns the cached payload and whether it was present.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("snapshot get %q: %w", key, err)
	}

	return payload, true, nil
}

// Set stores a payload under the store's TTL.
func (s *Store) Set(ctx context.Context, key string, payload []byte) error {
	if err := s.client.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("snapshot set %q: %w", key, err)
	}

	return nil
}

// Delete drops a cached payload.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("snapshot delete %q: %w", key, err)
	}

	return nil
}
