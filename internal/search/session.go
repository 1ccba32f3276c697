package search

import (
	"context"
	"sync"
)

// Session binds a Query to its lifecycle and cancellation token.
// The token is a context: clients observe it through Context(), and
// Cancel() invalidates it.
type Session struct {
	query  Query
	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	state State
}

func newSession(parent context.Context, q Query) *Session {
	ctx, cancel := context.WithCancel(parent)
	return &Session{
		query:  q,
		ctx:    ctx,
		cancel: cancel,
		state:  StatePending,
	}
}

// Query returns the query this session was created for.
func (s *Session) Query() Query { return s.query }

// Context returns the cancellation token to pass to blocking work.
func (s *Session) Context() context.Context { return s.ctx }

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Cancel marks the session cancelled and invalidates its token. It is
// idempotent and does nothing once the session reached a terminal state.
// It reports whether this call performed the cancellation.
func (s *Session) Cancel() bool {
	s.mu.Lock()
	if s.state.IsTerminal() {
		s.mu.Unlock()
		s.cancel()
		return false
	}
	s.state = StateCancelled
	s.mu.Unlock()
	s.cancel()
	return true
}

// IsCancelled is the cooperative check used during long-running work.
func (s *Session) IsCancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateCancelled
}

// enter moves a live session forward to a non-terminal state.
func (s *Session) enter(next State) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.IsTerminal() || next <= s.state {
		return false
	}
	s.state = next
	return true
}

// settle moves the session to a terminal state. The first caller wins.
func (s *Session) settle(final State) bool {
	s.mu.Lock()
	if s.state.IsTerminal() {
		s.mu.Unlock()
		return false
	}
	s.state = final
	s.mu.Unlock()
	// Release the context's resources; nothing reads it past this point.
	s.cancel()
	return true
}
