package search

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_CancelIsIdempotent(t *testing.T) {
	s := newSession(context.Background(), NewQuery("a", nil, 1))

	assert.True(t, s.Cancel())
	assert.False(t, s.Cancel())
	assert.True(t, s.IsCancelled())
	assert.Equal(t, StateCancelled, s.State())
	assert.ErrorIs(t, s.Context().Err(), context.Canceled)
}

func TestSession_CancelAfterCompletionKeepsOutcome(t *testing.T) {
	s := newSession(context.Background(), NewQuery("a", nil, 1))
	require.True(t, s.enter(StateDelaying))
	require.True(t, s.enter(StateInFlight))
	require.True(t, s.settle(StateCompleted))

	assert.False(t, s.Cancel())
	assert.False(t, s.IsCancelled())
	assert.Equal(t, StateCompleted, s.State())
}

func TestSession_CancelWinsOverLaterCompletion(t *testing.T) {
	s := newSession(context.Background(), NewQuery("a", nil, 1))
	s.enter(StateInFlight)

	s.Cancel()

	assert.False(t, s.settle(StateCompleted))
	assert.Equal(t, StateCancelled, s.State())
}

func TestSession_EnterOnlyMovesForward(t *testing.T) {
	s := newSession(context.Background(), NewQuery("a", nil, 1))
	assert.Equal(t, StatePending, s.State())

	assert.True(t, s.enter(StateDelaying))
	assert.False(t, s.enter(StateDelaying))
	assert.True(t, s.enter(StateInFlight))
	assert.False(t, s.enter(StateDelaying))
	assert.Equal(t, StateInFlight, s.State())
}

func TestSession_ParentCancellationReachesToken(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	s := newSession(parent, NewQuery("a", nil, 1))

	cancel()

	assert.ErrorIs(t, s.Context().Err(), context.Canceled)
	// The state only changes through Cancel or settle.
	assert.Equal(t, StatePending, s.State())
}

func TestQuery_ParametersAreCopied(t *testing.T) {
	params := map[string]string{"term": "bowie"}
	q := NewQuery("bowie", params, 3)

	params["term"] = "mutated"
	assert.Equal(t, "bowie", q.Parameters()["term"])

	q.Parameters()["term"] = "mutated again"
	v, _ := q.Param("term")
	assert.Equal(t, "bowie", v)
}

func TestState_Predicates(t *testing.T) {
	tests := []struct {
		state    State
		terminal bool
		active   bool
	}{
		{StateIdle, false, false},
		{StatePending, false, false},
		{StateDelaying, false, true},
		{StateInFlight, false, true},
		{StateCompleted, true, false},
		{StateCancelled, true, false},
		{StateFailed, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			assert.Equal(t, tt.terminal, tt.state.IsTerminal())
			assert.Equal(t, tt.active, tt.state.IsActive())
		})
	}
}

func TestError_IsMatchesKind(t *testing.T) {
	wrapped := fmt.Errorf("itunes: %w", DecodeFailure("bad date"))

	assert.ErrorIs(t, wrapped, ErrDecodeFailure)
	assert.NotErrorIs(t, wrapped, ErrBadStatus)

	kind, ok := KindOf(wrapped)
	require.True(t, ok)
	assert.Equal(t, KindDecodeFailure, kind)

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestError_BadStatusMatchesCode(t *testing.T) {
	err := BadStatus(503)

	assert.ErrorIs(t, err, ErrBadStatus)
	assert.ErrorIs(t, err, BadStatus(503))
	assert.NotErrorIs(t, err, BadStatus(404))
}

func TestError_Messages(t *testing.T) {
	cause := errors.New("dial tcp: lookup itunes.apple.com: no such host")
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"invalid query", InvalidQuery("control character in term"), "invalid query: control character in term"},
		{"transport", TransportFailure(cause), "transport failure: " + cause.Error()},
		{"bad status", BadStatus(404), "bad status: 404"},
		{"decode", DecodeFailure("missing results"), "decode failure: missing results"},
		{"missing field", MissingField("trackName"), "decode failure: missing field trackName"},
		{"cancelled", Cancelled(), "cancelled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestError_UnwrapExposesCause(t *testing.T) {
	err := TransportFailure(context.DeadlineExceeded)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "trackName", MissingField("trackName").Field)
}
