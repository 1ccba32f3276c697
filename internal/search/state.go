package search

// State is the lifecycle position of a session, or of a controller when
// it has no active session (Idle).
type State int

const (
	StateIdle State = iota
	StatePending
	StateDelaying
	StateInFlight
	StateCompleted
	StateCancelled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateDelaying:
		return "delaying"
	case StateInFlight:
		return "in-flight"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// IsTerminal returns true once the session can no longer change state.
func (s State) IsTerminal() bool {
	switch s {
	case StateCompleted, StateCancelled, StateFailed:
		return true
	case StateIdle, StatePending, StateDelaying, StateInFlight:
		return false
	}
	return false
}

// IsActive returns true while waiting out the quiescence window or
// waiting on the network.
func (s State) IsActive() bool {
	return s == StateDelaying || s == StateInFlight
}
