package search

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Souq/internal/core/posts"
)

const testDebounce = 20 * time.Millisecond

// waitForState polls until the engine reaches want or the deadline passes.
func waitForState(t *testing.T, e *Engine, want State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if e.State() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("engine never reached state %v, stuck at %v", want, e.State())
}

func TestEngine_StartsIdle(t *testing.T) {
	e := NewEngine(func(ctx context.Context, term string) ([]*posts.Post, error) {
		return nil, nil
	})
	defer e.Close()

	assert.Equal(t, StateIdle, e.State())
	assert.Empty(t, e.Query())
	assert.Empty(t, e.Results())
}

func TestEngine_DebouncedFetch(t *testing.T) {
	var calls int32
	e := NewEngine(func(ctx context.Context, term string) ([]*posts.Post, error) {
		atomic.AddInt32(&calls, 1)
		return []*posts.Post{{ID: "1", Title: term}}, nil
	}, WithDebounce(testDebounce))
	defer e.Close()

	e.SetQuery("sofa")
	assert.Equal(t, StateDebouncing, e.State())

	waitForState(t, e, StateResolved)
	require.NoError(t, e.Err())
	results := e.Results()
	require.Len(t, results, 1)
	assert.Equal(t, "sofa", results[0].Title)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestEngine_RapidTypingCollapsesToOneFetch(t *testing.T) {
	var mu sync.Mutex
	var fetched []string
	e := NewEngine(func(ctx context.Context, term string) ([]*posts.Post, error) {
		mu.Lock()
		fetched = append(fetched, term)
		mu.Unlock()
		return nil, nil
	}, WithDebounce(testDebounce))
	defer e.Close()

	for _, q := range []string{"s", "so", "sof", "sofa"} {
		e.SetQuery(q)
		time.Sleep(testDebounce / 4)
	}

	waitForState(t, e, StateResolved)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, fetched, 1, "every keystroke but the last must be debounced away")
	assert.Equal(t, "sofa", fetched[0])
}

func TestEngine_EmptyQueryClearsWithoutFetch(t *testing.T) {
	var calls int32
	e := NewEngine(func(ctx context.Context, term string) ([]*posts.Post, error) {
		atomic.AddInt32(&calls, 1)
		return []*posts.Post{{ID: "1"}}, nil
	}, WithDebounce(testDebounce))
	defer e.Close()

	e.SetQuery("sofa")
	waitForState(t, e, StateResolved)
	require.NotEmpty(t, e.Results())

	e.SetQuery("   ")
	assert.Equal(t, StateIdle, e.State())
	assert.Empty(t, e.Results())
	assert.NoError(t, e.Err())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "clearing must not fetch")
}

func TestEngine_StaleResponseDiscarded(t *testing.T) {
	release := make(chan struct{})
	e := NewEngine(func(ctx context.Context, term string) ([]*posts.Post, error) {
		if term == "slow" {
			<-release
		}
		return []*posts.Post{{ID: term}}, nil
	}, WithDebounce(testDebounce))
	defer e.Close()

	// First query's fetch blocks in flight.
	e.SetQuery("slow")
	waitForState(t, e, StateSearching)

	// Second query settles and resolves while the first is still blocked.
	e.SetQuery("fast")
	waitForState(t, e, StateResolved)

	// Unblock the stale fetch; its response must be dropped.
	close(release)
	time.Sleep(5 * testDebounce)

	results := e.Results()
	require.Len(t, results, 1)
	assert.Equal(t, "fast", results[0].ID, "slow early response must not clobber fresher results")
	assert.Equal(t, StateResolved, e.State())
}

func TestEngine_ClearDuringDebounceCancelsTimer(t *testing.T) {
	var calls int32
	e := NewEngine(func(ctx context.Context, term string) ([]*posts.Post, error) {
		atomic.AddInt32(&calls, 1)
		return nil, nil
	}, WithDebounce(testDebounce))
	defer e.Close()

	e.SetQuery("sofa")
	e.SetQuery("")

	time.Sleep(5 * testDebounce)
	assert.Equal(t, StateIdle, e.State())
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestEngine_FetchErrorSurfaces(t *testing.T) {
	e := NewEngine(func(ctx context.Context, term string) ([]*posts.Post, error) {
		return nil, context.DeadlineExceeded
	}, WithDebounce(testDebounce))
	defer e.Close()

	e.SetQuery("sofa")
	waitForState(t, e, StateResolved)

	assert.ErrorIs(t, e.Err(), context.DeadlineExceeded)
	assert.Empty(t, e.Results())
}

func TestEngine_NotifyFiresOnTransitions(t *testing.T) {
	var transitions int32
	e := NewEngine(func(ctx context.Context, term string) ([]*posts.Post, error) {
		return nil, nil
	}, WithDebounce(testDebounce), WithNotify(func() {
		atomic.AddInt32(&transitions, 1)
	}))
	defer e.Close()

	e.SetQuery("sofa")
	waitForState(t, e, StateResolved)

	// Debouncing, searching and resolved each signal once.
	assert.GreaterOrEqual(t, atomic.LoadInt32(&transitions), int32(3))
}
