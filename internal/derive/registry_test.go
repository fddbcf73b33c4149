package derive_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiara-stack/tiara-stack/internal/derive"
)

type payload struct {
	values []string
}

func TestReadCachesValue(t *testing.T) {
	reg := derive.NewRegistry()

	var computeCount atomic.Int32

	compute := func(ctx context.Context, tr *derive.Tracker) (*payload, error) {
		computeCount.Add(1)

		return &payload{values: []string{"a"}}, nil
	}

	first, err := derive.ReadAs(context.Background(), reg, "node", derive.ReadOptions{}, compute)
	require.NoError(t, err)

	second, err := derive.ReadAs(context.Background(), reg, "node", derive.ReadOptions{}, compute)
	require.NoError(t, err)

	// The second read returns the identical cached object, not a copy, and
	// triggers no second computation.
	assert.Same(t, first, second)
	assert.Equal(t, int32(1), computeCount.Load())
	assert.Equal(t, derive.StateReady, reg.NodeState("node"))
}

func TestReadSingleFlight(t *testing.T) {
	reg := derive.NewRegistry()

	var computeCount atomic.Int32
	release := make(chan struct{})

	compute := func(ctx context.Context, tr *derive.Tracker) (any, error) {
		computeCount.Add(1)
		<-release

		return "done", nil
	}

	const readers = 16

	var wg sync.WaitGroup
	results := make([]any, readers)
	errs := make([]error, readers)

	for i := 0; i < readers; i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			results[i], errs[i] = reg.Read(context.Background(), "node", derive.ReadOptions{}, compute)
		}(i)
	}

	// Let every reader reach the rendezvous before releasing the single
	// in-flight computation.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), computeCount.Load())
	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, "done", results[i])
	}
}

func TestInvalidateTagForcesRecompute(t *testing.T) {
	reg := derive.NewRegistry()

	var computeCount atomic.Int32

	compute := func(ctx context.Context, tr *derive.Tracker) (any, error) {
		return int(computeCount.Add(1)), nil
	}

	opts := derive.ReadOptions{Tags: []string{"session"}}

	value, err := reg.Read(context.Background(), "node", opts, compute)
	require.NoError(t, err)
	assert.Equal(t, 1, value)

	reg.Invalidate("session")

	// Invalidation alone computes nothing: re-derivation is lazy.
	assert.Equal(t, int32(1), computeCount.Load())

	value, err = reg.Read(context.Background(), "node", opts, compute)
	require.NoError(t, err)
	assert.Equal(t, 2, value)
}

func TestInvalidateUnrelatedTagKeepsCache(t *testing.T) {
	reg := derive.NewRegistry()

	var computeCount atomic.Int32

	compute := func(ctx context.Context, tr *derive.Tracker) (any, error) {
		return int(computeCount.Add(1)), nil
	}

	opts := derive.ReadOptions{Tags: []string{"session"}}

	_, err := reg.Read(context.Background(), "node", opts, compute)
	require.NoError(t, err)

	reg.Invalidate("something-else")

	value, err := reg.Read(context.Background(), "node", opts, compute)
	require.NoError(t, err)
	assert.Equal(t, 1, value)
}

func TestDependentRederivesWhenUpstreamChanges(t *testing.T) {
	reg := derive.NewRegistry()

	var baseCount, derivedCount atomic.Int32

	baseCompute := func(ctx context.Context, tr *derive.Tracker) (any, error) {
		return int(baseCount.Add(1)), nil
	}

	derivedCompute := func(ctx context.Context, tr *derive.Tracker) (any, error) {
		derivedCount.Add(1)

		base, err := tr.Read(ctx, "base", derive.ReadOptions{Tags: []string{"session"}}, baseCompute)
		if err != nil {
			return nil, err
		}

		return base.(int) * 10, nil
	}

	value, err := reg.Read(context.Background(), "derived", derive.ReadOptions{}, derivedCompute)
	require.NoError(t, err)
	assert.Equal(t, 10, value)

	// A second read reuses both cached nodes.
	value, err = reg.Read(context.Background(), "derived", derive.ReadOptions{}, derivedCompute)
	require.NoError(t, err)
	assert.Equal(t, 10, value)
	assert.Equal(t, int32(1), baseCount.Load())
	assert.Equal(t, int32(1), derivedCount.Load())

	// Invalidating the upstream's tag re-derives the dependent on next read.
	reg.Invalidate("session")

	value, err = reg.Read(context.Background(), "derived", derive.ReadOptions{}, derivedCompute)
	require.NoError(t, err)
	assert.Equal(t, 20, value)
	assert.Equal(t, int32(2), baseCount.Load())
	assert.Equal(t, int32(2), derivedCount.Load())
}

func TestInvalidateKeyCascadesToDependents(t *testing.T) {
	reg := derive.NewRegistry()

	var derivedCount atomic.Int32

	baseCompute := func(ctx context.Context, tr *derive.Tracker) (any, error) {
		return "base", nil
	}

	derivedCompute := func(ctx context.Context, tr *derive.Tracker) (any, error) {
		if _, err := tr.Read(ctx, "base", derive.ReadOptions{}, baseCompute); err != nil {
			return nil, err
		}

		return int(derivedCount.Add(1)), nil
	}

	_, err := reg.Read(context.Background(), "derived", derive.ReadOptions{}, derivedCompute)
	require.NoError(t, err)

	reg.InvalidateKey("base")

	value, err := reg.Read(context.Background(), "derived", derive.ReadOptions{}, derivedCompute)
	require.NoError(t, err)
	assert.Equal(t, 2, value)
}

func TestFailureIsCachedUntilInvalidated(t *testing.T) {
	reg := derive.NewRegistry()

	var computeCount atomic.Int32
	upstreamErr := errors.New("upstream down")

	compute := func(ctx context.Context, tr *derive.Tracker) (any, error) {
		computeCount.Add(1)

		return nil, upstreamErr
	}

	_, err := reg.Read(context.Background(), "node", derive.ReadOptions{}, compute)
	assert.ErrorIs(t, err, upstreamErr)
	assert.Equal(t, derive.StateFailed, reg.NodeState("node"))

	// The cached failure is returned without recomputing.
	_, err = reg.Read(context.Background(), "node", derive.ReadOptions{}, compute)
	assert.ErrorIs(t, err, upstreamErr)
	assert.Equal(t, int32(1), computeCount.Load())

	// BypassFailure recomputes through it.
	_, err = reg.Read(context.Background(), "node", derive.ReadOptions{BypassFailure: true}, compute)
	assert.ErrorIs(t, err, upstreamErr)
	assert.Equal(t, int32(2), computeCount.Load())

	// So does explicit invalidation.
	reg.InvalidateKey("node")

	_, err = reg.Read(context.Background(), "node", derive.ReadOptions{}, compute)
	assert.ErrorIs(t, err, upstreamErr)
	assert.Equal(t, int32(3), computeCount.Load())
}

func TestBypassFailureRecomputesOnce(t *testing.T) {
	reg := derive.NewRegistry()

	var computeCount atomic.Int32
	upstreamErr := errors.New("upstream down")

	compute := func(ctx context.Context, tr *derive.Tracker) (any, error) {
		computeCount.Add(1)

		return nil, upstreamErr
	}

	_, err := reg.Read(context.Background(), "node", derive.ReadOptions{}, compute)
	assert.ErrorIs(t, err, upstreamErr)
	assert.Equal(t, int32(1), computeCount.Load())

	// Against a persistently failing compute, each bypassing read retries
	// exactly once and returns the fresh failure.
	for i := 1; i <= 3; i++ {
		_, err = reg.Read(context.Background(), "node", derive.ReadOptions{BypassFailure: true}, compute)
		assert.ErrorIs(t, err, upstreamErr)
		assert.Equal(t, int32(1+i), computeCount.Load())
	}
}

func TestDependentCatchesUpstreamAdvancingMidDerivation(t *testing.T) {
	reg := derive.NewRegistry()

	var sourceCount, viewCount atomic.Int32
	entered := make(chan struct{})
	release := make(chan struct{})

	sourceOpts := derive.ReadOptions{Tags: []string{"feed"}}

	sourceCompute := func(ctx context.Context, tr *derive.Tracker) (any, error) {
		return int(sourceCount.Add(1)), nil
	}

	viewCompute := func(ctx context.Context, tr *derive.Tracker) (any, error) {
		first := viewCount.Add(1) == 1

		source, err := tr.Read(ctx, "source", sourceOpts, sourceCompute)
		if err != nil {
			return nil, err
		}

		if first {
			close(entered)
			<-release
		}

		return source.(int) * 10, nil
	}

	primed := make(chan struct{})
	go func() {
		_, _ = reg.Read(context.Background(), "view", derive.ReadOptions{}, viewCompute)
		close(primed)
	}()

	// The first derivation has read the source and is still in flight when
	// the source is invalidated and recomputed by a direct reader.
	<-entered
	reg.Invalidate("feed")

	fresh, err := reg.Read(context.Background(), "source", sourceOpts, sourceCompute)
	require.NoError(t, err)
	assert.Equal(t, 2, fresh)

	close(release)
	<-primed

	// The in-flight derivation observed the superseded source value, so it
	// lands stale and re-derives against the fresh one.
	value, err := reg.Read(context.Background(), "view", derive.ReadOptions{}, viewCompute)
	require.NoError(t, err)
	assert.Equal(t, 20, value)
	assert.Equal(t, int32(2), viewCount.Load())
	assert.Equal(t, int32(2), sourceCount.Load())
}

func TestInvalidationDuringComputationIsOrderedAfterIt(t *testing.T) {
	reg := derive.NewRegistry()

	var computeCount atomic.Int32
	entered := make(chan struct{})
	release := make(chan struct{})

	compute := func(ctx context.Context, tr *derive.Tracker) (any, error) {
		if computeCount.Add(1) == 1 {
			close(entered)
			<-release
		}

		return int(computeCount.Load()), nil
	}

	opts := derive.ReadOptions{Tags: []string{"session"}}

	go func() {
		<-entered
		// Fires while the first computation is in flight: its result must
		// land already stale.
		reg.Invalidate("session")
		close(release)
	}()

	_, err := reg.Read(context.Background(), "node", opts, compute)
	require.NoError(t, err)

	value, err := reg.Read(context.Background(), "node", opts, compute)
	require.NoError(t, err)
	assert.Equal(t, 2, value)
}

func TestCancelledReaderLetsComputationPopulateCache(t *testing.T) {
	reg := derive.NewRegistry()

	var computeCount atomic.Int32
	release := make(chan struct{})

	compute := func(ctx context.Context, tr *derive.Tracker) (any, error) {
		computeCount.Add(1)
		<-release

		return "populated", nil
	}

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := reg.Read(ctx, "node", derive.ReadOptions{}, compute)
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	err := <-done
	assert.ErrorIs(t, err, context.Canceled)

	// The abandoned computation still completes and caches its result.
	close(release)

	require.Eventually(t, func() bool {
		return reg.NodeState("node") == derive.StateReady
	}, time.Second, 5*time.Millisecond)

	value, err := reg.Read(context.Background(), "node", derive.ReadOptions{}, compute)
	require.NoError(t, err)
	assert.Equal(t, "populated", value)
	assert.Equal(t, int32(1), computeCount.Load())
}

func TestWatchSignalsInvalidation(t *testing.T) {
	reg := derive.NewRegistry()

	compute := func(ctx context.Context, tr *derive.Tracker) (any, error) {
		return "value", nil
	}

	opts := derive.ReadOptions{Tags: []string{"session"}}

	_, err := reg.Read(context.Background(), "node", opts, compute)
	require.NoError(t, err)

	watch, cancel := reg.Watch("node")
	defer cancel()

	reg.Invalidate("session")

	select {
	case <-watch:
	case <-time.After(time.Second):
		t.Fatal("expected invalidation signal on watch channel")
	}
}

func TestNodeStateLifecycle(t *testing.T) {
	reg := derive.NewRegistry()

	assert.Equal(t, derive.StateUninitialized, reg.NodeState("node"))

	release := make(chan struct{})
	compute := func(ctx context.Context, tr *derive.Tracker) (any, error) {
		<-release

		return "value", nil
	}

	go func() {
		_, _ = reg.Read(context.Background(), "node", derive.ReadOptions{}, compute)
	}()

	require.Eventually(t, func() bool {
		return reg.NodeState("node") == derive.StateComputing
	}, time.Second, time.Millisecond)

	close(release)

	require.Eventually(t, func() bool {
		return reg.NodeState("node") == derive.StateReady
	}, time.Second, time.Millisecond)

	// Invalidation keeps the stored state; the flip to Computing happens
	// on the next read.
	reg.InvalidateKey("node")
	assert.Equal(t, derive.StateReady, reg.NodeState("node"))
}
