package search

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultDelay is the quiescence window: a query must stay unchanged this
// long before it is sent over the network.
const DefaultDelay = 300 * time.Millisecond

// Fetcher performs one remote search. Implementations must observe ctx
// and return a *Error (see errors.go) on failure.
type Fetcher[T any] interface {
	Fetch(ctx context.Context, params map[string]string) ([]T, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc[T any] func(ctx context.Context, params map[string]string) ([]T, error)

// Fetch implements Fetcher.
func (f FetcherFunc[T]) Fetch(ctx context.Context, params map[string]string) ([]T, error) {
	return f(ctx, params)
}

// ParamsFunc maps the typed text to query-string parameters.
type ParamsFunc func(text string) map[string]string

// Callbacks receive the single outcome of each settled query.
// They are invoked one at a time, possibly from a background goroutine,
// and must not call back into the Controller synchronously.
type Callbacks[T any] struct {
	OnResults func(q Query, items []T)
	OnError   func(q Query, err error)
}

// Option configures a Controller.
type Option func(*options)

type options struct {
	delay  time.Duration
	logger *slog.Logger
}

// WithDelay overrides the quiescence window.
func WithDelay(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.delay = d
		}
	}
}

// WithLogger sets the logger used for session transitions.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Controller owns the single logical query in progress. Every Submit
// supersedes the previous session; only the outcome of a session that is
// still current at delivery time reaches the callbacks.
type Controller[T any] struct {
	fetcher Fetcher[T]
	params  ParamsFunc
	cb      Callbacks[T]
	delay   time.Duration
	log     *slog.Logger

	root     context.Context
	shutdown context.CancelFunc
	wg       sync.WaitGroup

	// mu guards the fields below. Session goroutines write current on
	// completion, so every writer re-checks identity first.
	mu      sync.Mutex
	seq     uint64
	current *Session
	closed  bool

	// deliverMu serializes callbacks so outcomes are observed in
	// session-creation order.
	deliverMu sync.Mutex
}

// New creates a Controller. params may be nil, in which case the text is
// sent as the single parameter "term".
func New[T any](fetcher Fetcher[T], params ParamsFunc, cb Callbacks[T], opts ...Option) *Controller[T] {
	o := options{
		delay:  DefaultDelay,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if params == nil {
		params = func(text string) map[string]string {
			return map[string]string{"term": text}
		}
	}

	root, shutdown := context.WithCancel(context.Background())
	return &Controller[T]{
		fetcher:  fetcher,
		params:   params,
		cb:       cb,
		delay:    o.delay,
		log:      o.logger.With("component", "search"),
		root:     root,
		shutdown: shutdown,
	}
}

// Submit is called once per edit of the input text. An empty text cancels
// any active session and delivers an empty result list synchronously.
// Otherwise a new session starts its quiescence window.
// The returned Query identifies the submission; it is zero after Close.
func (c *Controller[T]) Submit(text string) Query {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Query{}
	}
	c.cancelCurrentLocked()
	c.seq++

	if text == "" {
		q := NewQuery("", nil, c.seq)
		c.mu.Unlock()

		c.deliverMu.Lock()
		defer c.deliverMu.Unlock()
		c.log.Debug("empty query", "seq", q.Seq)
		if c.cb.OnResults != nil {
			c.cb.OnResults(q, []T{})
		}
		return q
	}

	q := NewQuery(text, c.params(text), c.seq)
	s := newSession(c.root, q)
	s.enter(StateDelaying)
	c.current = s
	c.wg.Add(1)
	c.mu.Unlock()

	c.log.Debug("session delaying", "seq", q.Seq, "query", text)
	go c.run(s)
	return q
}

// Cancel cancels the active session, if any, and returns to Idle.
func (c *Controller[T]) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelCurrentLocked()
}

// Close cancels the active session, waits for all session goroutines to
// exit and turns further Submit calls into no-ops.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	c.closed = true
	c.cancelCurrentLocked()
	c.mu.Unlock()

	c.shutdown()
	c.wg.Wait()
}

// State returns the state of the active session, or StateIdle.
func (c *Controller[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return StateIdle
	}
	return c.current.State()
}

// Current returns the query of the active session.
func (c *Controller[T]) Current() (Query, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return Query{}, false
	}
	return c.current.Query(), true
}

func (c *Controller[T]) cancelCurrentLocked() {
	if c.current == nil {
		return
	}
	if c.current.Cancel() {
		c.log.Debug("session superseded",
			"seq", c.current.query.Seq, "query", c.current.query.Text)
	}
	c.current = nil
}

func (c *Controller[T]) isCurrent(s *Session) bool {
	return c.current == s && c.current.query.Seq == s.query.Seq
}

func (c *Controller[T]) run(s *Session) {
	defer c.wg.Done()

	timer := time.NewTimer(c.delay)
	defer timer.Stop()

	select {
	case <-s.Context().Done():
		return
	case <-timer.C:
	}

	if !c.promote(s) {
		return
	}

	items, err := c.fetcher.Fetch(s.Context(), s.Query().Parameters())
	c.finish(s, items, err)
}

// promote moves s to InFlight if it is still current.
func (c *Controller[T]) promote(s *Session) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.isCurrent(s) || s.IsCancelled() {
		return false
	}
	if !s.enter(StateInFlight) {
		return false
	}
	c.log.Debug("session in flight", "seq", s.query.Seq, "query", s.query.Text)
	return true
}

// finish delivers the outcome of s if, and only if, s is still current.
func (c *Controller[T]) finish(s *Session, items []T, err error) {
	q := s.Query()
	if kind, ok := KindOf(err); ok && kind == KindCancelled {
		c.mu.Lock()
		if c.isCurrent(s) {
			c.current = nil
		}
		s.settle(StateCancelled)
		c.mu.Unlock()
		c.log.Debug("session cancelled", "seq", q.Seq)
		return
	}

	final := StateCompleted
	if err != nil {
		final = StateFailed
	}

	c.deliverMu.Lock()
	defer c.deliverMu.Unlock()

	c.mu.Lock()
	if !c.isCurrent(s) || !s.settle(final) {
		c.mu.Unlock()
		c.log.Debug("stale outcome discarded", "seq", q.Seq, "query", q.Text)
		return
	}
	c.current = nil
	c.mu.Unlock()

	if err != nil {
		c.log.Warn("search failed", "seq", q.Seq, "query", q.Text, "error", err)
		if c.cb.OnError != nil {
			c.cb.OnError(q, err)
		}
		return
	}

	if items == nil {
		items = []T{}
	}
	c.log.Debug("search completed", "seq", q.Seq, "query", q.Text, "results", len(items))
	if c.cb.OnResults != nil {
		c.cb.OnResults(q, items)
	}
}
