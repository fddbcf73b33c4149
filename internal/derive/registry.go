// Package derive implements the memoized derivation graph behind the
// schedule views: named computations keyed by their parameter tuple, with
// explicit dependency tracking, lazy re-derivation, and tag-based
// invalidation. It replaces the reactive atom registry of the original
// client with an explicit directed dependency graph.
package derive

import (
	"context"
	"fmt"
	"sync"
)

// State is the lifecycle state of a derivation node. Nodes move
// Uninitialized -> Computing -> Ready/Failed, and back to Computing on the
// read that follows an invalidation. There is no terminal state.
type State int

const (
	StateUninitialized State = iota
	StateComputing
	StateReady
	StateFailed
)

// ComputeFunc produces a node's value. Upstream nodes must be read through
// the Tracker so the dependency edge is recorded; reads that bypass the
// Tracker are invisible to invalidation.
type ComputeFunc func(ctx context.Context, tr *Tracker) (any, error)

// ReadOptions configure a single read.
type ReadOptions struct {
	// Tags are named invalidation signals this node subscribes to.
	// Firing any of them via Invalidate discards the cached value.
	Tags []string
	// BypassFailure recomputes through a cached failure instead of
	// returning it. Failures are otherwise cached like successes so a
	// failing upstream is not hammered on every read.
	BypassFailure bool
}

type node struct {
	key   string
	state State
	value any
	err   error

	// gen advances on every completed computation. Dependents record the
	// generation they observed; a mismatch marks them stale.
	gen uint64

	// stale forces recomputation on next read. invalGen distinguishes an
	// invalidation that fired during an in-flight computation from one the
	// computation already covers.
	stale    bool
	invalGen uint64

	tags       map[string]struct{}
	deps       map[string]uint64
	dependents map[string]struct{}
	watchers   []chan struct{}

	// done is closed when the in-flight computation completes. Concurrent
	// readers of the same key rendezvous here instead of computing twice.
	done chan struct{}
}

// Registry is the derivation graph. All node state is guarded by one
// mutex; computations run outside it. A cached value is replaced by a
// single swap under the lock, so readers observe either the previous or
// the next fully-formed value, never a partial one.
type Registry struct {
	mu    sync.Mutex
	nodes map[string]*node
}

func NewRegistry() *Registry {
	return &Registry{
		nodes: make(map[string]*node),
	}
}

func (r *Registry) ensureLocked(key string) *node {
	n, ok := r.nodes[key]
	if !ok {
		n = &node{
			key:        key,
			tags:       make(map[string]struct{}),
			deps:       make(map[string]uint64),
			dependents: make(map[string]struct{}),
		}
		r.nodes[key] = n
	}

	return n
}

// Read returns the node's cached value, computing it first if the node is
// uninitialized or was invalidated. At most one computation per key is in
// flight at a time; concurrent readers share its result. The computation
// itself is detached from ctx and completes even if every waiting reader
// is cancelled, so the next reader finds a populated cache.
func (r *Registry) Read(ctx context.Context, key string, opts ReadOptions, compute ComputeFunc) (any, error) {
	value, _, err := r.read(ctx, key, opts, compute)

	return value, err
}

func (r *Registry) read(ctx context.Context, key string, opts ReadOptions, compute ComputeFunc) (any, uint64, error) {
	// Set once this call has awaited a computation. A bypassing reader
	// recomputes through a cached failure at most once per call; a fresh
	// failure is returned, not retried in a loop.
	computed := false

	for {
		r.mu.Lock()
		n := r.ensureLocked(key)

		for _, tag := range opts.Tags {
			n.tags[tag] = struct{}{}
		}

		switch {
		case n.state == StateComputing:
			done := n.done
			r.mu.Unlock()

			select {
			case <-ctx.Done():
				return nil, 0, ctx.Err()
			case <-done:
			}

			computed = true

			continue

		case n.state == StateReady && !n.stale:
			value, gen := n.value, n.gen
			r.mu.Unlock()

			return value, gen, nil

		case n.state == StateFailed && (computed || (!n.stale && !opts.BypassFailure)):
			err, gen := n.err, n.gen
			r.mu.Unlock()

			return nil, gen, err
		}

		n.state = StateComputing
		n.done = make(chan struct{})
		done := n.done
		started := n.invalGen
		r.mu.Unlock()

		go r.run(ctx, key, started, compute)

		select {
		case <-ctx.Done():
			return nil, 0, ctx.Err()
		case <-done:
		}

		computed = true
	}
}

// run executes one computation and installs its result. The computation
// context is detached from the triggering reader: a torn-down caller lets
// the fetch complete and populate the cache for the next reader.
func (r *Registry) run(ctx context.Context, key string, started uint64, compute ComputeFunc) {
	tr := &Tracker{reg: r, deps: make(map[string]uint64)}

	value, err := compute(context.WithoutCancel(ctx), tr)

	r.mu.Lock()
	defer r.mu.Unlock()

	n := r.nodes[key]

	// Swap dependency edges to the set read during this computation.
	for dep := range n.deps {
		if _, still := tr.deps[dep]; !still {
			if upstream, ok := r.nodes[dep]; ok {
				delete(upstream.dependents, key)
			}
		}
	}

	n.deps = tr.deps
	for dep := range n.deps {
		r.ensureLocked(dep).dependents[key] = struct{}{}
	}

	if err != nil {
		n.state = StateFailed
		n.value = nil
		n.err = err
	} else {
		n.state = StateReady
		n.value = value
		n.err = nil
	}

	n.gen++

	// An invalidation that fired mid-computation is ordered after it: the
	// freshly installed value is already stale.
	n.stale = n.invalGen != started

	// A dependency that advanced past the generation this computation
	// observed also leaves the result stale.
	for dep, gen := range n.deps {
		if upstream, ok := r.nodes[dep]; ok && upstream.gen != gen {
			n.stale = true
		}
	}

	// Dependents that observed an older generation must re-derive. One
	// that is computing right now is left alone: it records the
	// generation it actually read when it installs, and the dependency
	// check above catches a read that predates this one.
	visited := map[string]struct{}{key: {}}
	for dependent := range n.dependents {
		if d, ok := r.nodes[dependent]; ok && d.state != StateComputing && d.deps[key] != n.gen {
			r.markStaleLocked(dependent, visited)
		}
	}

	close(n.done)
}

func (r *Registry) markStaleLocked(key string, visited map[string]struct{}) {
	if _, seen := visited[key]; seen {
		return
	}
	visited[key] = struct{}{}

	n, ok := r.nodes[key]
	if !ok {
		return
	}

	n.stale = true
	n.invalGen++

	for _, watcher := range n.watchers {
		select {
		case watcher <- struct{}{}:
		default:
		}
	}

	for dependent := range n.dependents {
		r.markStaleLocked(dependent, visited)
	}
}

// Invalidate fires a named tag: every node that subscribed to it, and
// transitively every dependent, discards its cached value and recomputes
// on next read.
func (r *Registry) Invalidate(tag string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	visited := make(map[string]struct{})
	for _, n := range r.nodes {
		if _, subscribed := n.tags[tag]; subscribed {
			r.markStaleLocked(n.key, visited)
		}
	}
}

// InvalidateKey discards a single node's cached value (and its
// dependents'). Callers use this to force recomputation of one parameter
// tuple, e.g. to retry past a cached failure.
func (r *Registry) InvalidateKey(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.markStaleLocked(key, make(map[string]struct{}))
}

// Watch returns a channel that receives a signal whenever the node is
// invalidated, for consumers holding an active subscription. The returned
// cancel function releases the watcher.
func (r *Registry) Watch(key string) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	r.mu.Lock()
	n := r.ensureLocked(key)
	n.watchers = append(n.watchers, ch)
	r.mu.Unlock()

	cancel := func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		for i, watcher := range n.watchers {
			if watcher == ch {
				n.watchers = append(n.watchers[:i], n.watchers[i+1:]...)

				break
			}
		}
	}

	return ch, cancel
}

// NodeState reports a node's current lifecycle state. An invalidated node
// keeps reporting Ready or Failed; it flips to Computing on the read that
// re-derives it.
func (r *Registry) NodeState(key string) State {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.nodes[key]
	if !ok {
		return StateUninitialized
	}

	return n.state
}

// ReadAs is a typed wrapper over Registry.Read.
func ReadAs[T any](ctx context.Context, r *Registry, key string, opts ReadOptions, compute func(ctx context.Context, tr *Tracker) (T, error)) (T, error) {
	var zero T

	value, err := r.Read(ctx, key, opts, func(ctx context.Context, tr *Tracker) (any, error) {
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
