package derive

import (
	"context"
	"fmt"
	"sync"
)

// Tracker is the read-and-subscribe handle passed to a ComputeFunc. Every
// upstream node read through it is recorded, together with the generation
// observed, as a dependency edge of the computing node. When an upstream
// later produces a new generation the computing node is marked stale and
// re-derives lazily on its next read.
type Tracker struct {
	reg *Registry

	mu   sync.Mutex
	deps map[string]uint64
}

// Read reads an upstream node and records the dependency edge. The edge is
// recorded even when the upstream fails, so invalidating the upstream also
// re-derives this node.
func (t *Tracker) Read(ctx context.Context, key string, opts ReadOptions, compute ComputeFunc) (any, error) {
	value, gen, err := t.reg.read(ctx, key, opts, compute)

	t.mu.Lock()
	t.deps[key] = gen
	t.mu.Unlock()

	return value, err
}

// TrackAs is a typed wrapper over Tracker.Read.
func TrackAs[T any](ctx context.Context, tr *Tracker, key string, opts ReadOptions, compute func(ctx context.Context, tr *Tracker) (T, error)) (T, error) {
	var zero T

	value, err := tr.Read(ctx, key, opts, func(ctx context.Context, tr *Tracker) (any, error) {
		return compute(ctx, tr)
	})
	if err != nil {
		return zero, err
	}

	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("derive: node %q holds %T, not %T", key, value, zero)
	}

	return typed, nil
}
