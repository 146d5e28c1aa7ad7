package search

import (
	"context"
	"strings"
	"sync"
	"time"

	"Souq/internal/core/posts"
)

// State is the engine's position in the query lifecycle.
type State int

const (
	// StateIdle: empty query, nothing pending.
	StateIdle State = iota
	// StateDebouncing: a keystroke was received and the timer is pending.
	StateDebouncing
	// StateSearching: the debounce timer fired and a fetch is in flight.
	StateSearching
	// StateResolved: results (possibly empty) are available for the
	// current query.
	StateResolved
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDebouncing:
		return "debouncing"
	case StateSearching:
		return "searching"
	case StateResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// DefaultDebounce is how long input must pause before a fetch fires.
const DefaultDebounce = 500 * time.Millisecond

// Fetcher performs the actual search for a settled query term.
// Typically posts.Service.SearchPosts curried over a category.
type Fetcher func(ctx context.Context, term string) ([]*posts.Post, error)

// Engine is a debounced search state machine over a single query string.
//
// Every keystroke restarts the debounce timer; only the timer that fires
// last triggers a fetch. Each dispatch captures a monotonically increasing
// generation counter, and a resolution whose generation has been superseded
// is discarded, so a slow early response can never clobber fresher results.
type Engine struct {
	mu         sync.Mutex
	fetch      Fetcher
	delay      time.Duration
	timer      *time.Timer
	generation uint64
	state      State
	query      string
	results    []*posts.Post
	err        error
	notify     func()
}

// Option configures an Engine.
type Option func(*Engine)

// WithDebounce overrides the debounce interval.
func WithDebounce(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.delay = d
		}
	}
}

// WithNotify registers a hook invoked after every state change. The hook
// runs with the engine lock held and must not call back into the engine.
func WithNotify(fn func()) Option {
	return func(e *Engine) { e.notify = fn }
}

// NewEngine creates an idle engine around a fetcher.
func NewEngine(fetch Fetcher, opts ...Option) *Engine {
	e := &Engine{
		fetch: fetch,
		delay: DefaultDebounce,
		state: StateIdle,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetQuery records a keystroke. An empty or whitespace-only query clears
// the pending timer and returns the engine to idle with empty results and
// no fetch; anything else (re)starts the debounce timer.
func (e *Engine) SetQuery(q string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.query = q
	e.stopTimerLocked()

	// Bumping the generation supersedes both a pending timer and any fetch
	// already in flight for an older query.
	e.generation++

	term := strings.TrimSpace(q)
	if term == "" {
		e.state = StateIdle
		e.results = nil
		e.err = nil
		e.signalLocked()
		return
	}

	e.state = StateDebouncing
	gen := e.generation
	e.timer = time.AfterFunc(e.delay, func() {
		e.dispatch(gen, term)
	})
	e.signalLocked()
}

// dispatch runs after the debounce interval. It fetches only if its
// generation is still current, and drops the response if a newer generation
// started while the fetch was in flight.
func (e *Engine) dispatch(gen uint64, term string) {
	e.mu.Lock()
	if gen != e.generation {
		e.mu.Unlock()
		return
	}
	e.state = StateSearching
	e.signalLocked()
	e.mu.Unlock()

	results, err := e.fetch(context.Background(), term)

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.generation {
		// Stale response: a newer query settled first.
		return
	}
	e.state = StateResolved
	e.results = results
	e.err = err
	e.signalLocked()
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Query returns the query text as last typed.
func (e *Engine) Query() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.query
}

// Results returns a copy of the last-resolved result set.
func (e *Engine) Results() []*posts.Post {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*posts.Post, len(e.results))
	copy(out, e.results)
	return out
}

// Err returns the error from the last resolution, if any.
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// Close cancels any pending timer and supersedes in-flight fetches.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopTimerLocked()
	e.generation++
	e.state = StateIdle
}

func (e *Engine) stopTimerLocked() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

func (e *Engine) signalLocked() {
	if e.notify != nil {
		e.notify()
	}
}
