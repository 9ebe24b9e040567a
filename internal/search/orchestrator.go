// Package search turns a stream of query edits and scope changes into at most
// one current catalog lookup, and publishes the outcome as an ordered stream
// of State snapshots.
//
// Every lookup is tagged with a request id taken from a monotonically
// increasing counter. Any new input invalidates all earlier ids; a debounce
// timer or lookup whose id is no longer the latest does nothing when it
// fires or completes. Superseded lookups also have their context cancelled.
package search

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/shelfscout/shelfscout/internal/catalog"
	"github.com/shelfscout/shelfscout/internal/domain"
	"github.com/shelfscout/shelfscout/internal/metrics"
)

// DefaultDebounce is the quiet period after the last keystroke before a lookup starts.
const DefaultDebounce = 500 * time.Millisecond

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithDebounce overrides the quiet period. Non-positive values are ignored.
func WithDebounce(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.debounce = d
		}
	}
}

// WithScope sets the initial scope.
func WithScope(scope domain.Scope) Option {
	return func(o *Orchestrator) {
		if scope.Valid() {
			o.scope = scope
		}
	}
}

// Orchestrator owns the query text, the scope, and the lifecycle of the
// current lookup for one search session.
//
// All methods are safe for concurrent use; calls are serialized internally.
type Orchestrator struct {
	searcher catalog.Searcher
	logger   *slog.Logger
	debounce time.Duration
	hub      *hub

	mu     sync.Mutex
	text   string
	scope  domain.Scope
	seq    uint64
	timer  *time.Timer
	cancel context.CancelFunc
	closed bool
}

// New creates an orchestrator in the Idle state.
func New(searcher catalog.Searcher, logger *slog.Logger, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	o := &Orchestrator{
		searcher: searcher,
		logger:   logger,
		debounce: DefaultDebounce,
		hub:      newHub(Idle{}),
		scope:    domain.ScopeAll,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// SetQueryText records new raw input. Any pending or in-flight lookup is
// invalidated. Blank text publishes Idle at once; otherwise a lookup is
// scheduled after the debounce interval.
func (o *Orchestrator) SetQueryText(text string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}

	o.text = text
	id := o.invalidateLocked()

	if isBlank(text) {
		o.hub.publish(Idle{})
		return
	}

	o.timer = time.AfterFunc(o.debounce, func() { o.fire(id) })
	o.logger.Debug("search armed", "request", id, "debounce", o.debounce)
}

// SetScope records the scope. With non-blank text it starts a lookup
// immediately, without debounce.
func (o *Orchestrator) SetScope(scope domain.Scope) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}

	o.scope = scope
	if isBlank(o.text) {
		return
	}
	o.startLocked(o.invalidateLocked())
}

// Retry re-issues a lookup for the stored text and scope without debounce.
// It does nothing when the text is blank.
func (o *Orchestrator) Retry() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed || isBlank(o.text) {
		return
	}
	o.startLocked(o.invalidateLocked())
}

// Clear invalidates pending work, resets the text and publishes Idle.
func (o *Orchestrator) Clear() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}

	o.invalidateLocked()
	o.text = ""
	o.hub.publish(Idle{})
}

// State returns the most recently published snapshot.
func (o *Orchestrator) State() State {
	return o.hub.current()
}

// Query returns the raw query text as last set.
func (o *Orchestrator) Query() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.text
}

// Scope returns the current scope.
func (o *Orchestrator) Scope() domain.Scope {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.scope
}

// Subscribe starts a subscription that receives the current state and then
// every later one. It ends when ctx is done, when Close is called on it,
// or when the orchestrator closes.
func (o *Orchestrator) Subscribe(ctx context.Context) *Subscription {
	return o.hub.subscribe(ctx)
}

// Subscribers returns the number of live subscriptions.
func (o *Orchestrator) Subscribers() int {
	return o.hub.count()
}

// States returns the state stream as an iterator. Each range over it is an
// independent subscription.
func (o *Orchestrator) States(ctx context.Context) iter.Seq[State] {
	return func(yield func(State) bool) {
		sub := o.Subscribe(ctx)
		defer sub.Close()

		for st := range sub.C() {
			if !yield(st) {
				return
			}
		}
	}
}

// Close cancels pending work and ends every subscription. Later calls to
// any mutating method are ignored.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}

	o.invalidateLocked()
	o.closed = true
	o.hub.close()
}

// invalidateLocked issues a new request id, stopping the armed timer and
// cancelling the in-flight lookup. It returns the new id.
func (o *Orchestrator) invalidateLocked() uint64 {
	o.seq++
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	return o.seq
}

func (o *Orchestrator) fire(id uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	// Stop cannot recall a callback that already started.
	if o.closed || id != o.seq {
		o.logger.Debug("search timer superseded", "request", id)
		return
	}
	o.timer = nil
	o.startLocked(id)
}

// startLocked publishes Loading and runs the lookup for request id.
func (o *Orchestrator) startLocked(id uint64) {
	term := strings.TrimSpace(o.text)
	if term == "" {
		return
	}
	scope := o.scope

	ctx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel

	o.hub.publish(Loading{Query: term, Scope: scope})
	o.logger.Debug("search started", "request", id, "query", term, "scope", scope.String())

	go o.lookup(ctx, cancel, id, term, scope)
}

func (o *Orchestrator) lookup(ctx context.Context, cancel context.CancelFunc, id uint64, term string, scope domain.Scope) {
	defer cancel()

	books, err := o.callSearcher(ctx, term, scope)

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed || id != o.seq {
		metrics.SearchStaleTotal.Inc()
		o.logger.Debug("search result discarded", "request", id, "query", term)
		return
	}
	o.cancel = nil

	var next State
	switch {
	case err != nil:
		next = Error{Message: errorMessage(err), Query: term}
	case len(books) == 0:
		next = Empty{Query: term}
	default:
		next = Success{Books: slices.Clone(books), Query: term, Scope: scope}
	}

	metrics.SearchOutcomesTotal.WithLabelValues(string(next.Kind())).Inc()
	o.logger.Debug("search completed", "request", id, "outcome", Describe(next))
	o.hub.publish(next)
}

// callSearcher runs the port and reports a panic as a lookup failure.
func (o *Orchestrator) callSearcher(ctx context.Context, term string, scope domain.Scope) (books []domain.Book, err error) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("catalog searcher panicked", "query", term, "panic", r)
			books, err = nil, fmt.Errorf("catalog lookup failed: %v", r)
		}
	}()
	return o.searcher.Search(ctx, term, scope)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
