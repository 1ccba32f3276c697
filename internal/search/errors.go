package search

import (
	"errors"
	"fmt"
)

// Kind classifies why a search did not produce results.
type Kind int

const (
	KindInvalidQuery     Kind = iota + 1 // bad input, never reaches the network
	KindTransportFailure                 // DNS, timeout, connection reset
	KindBadStatus                        // non-2xx response
	KindDecodeFailure                    // body does not match the schema
	KindCancelled                        // superseded; not user visible
)

func (k Kind) String() string {
	switch k {
	case KindInvalidQuery:
		return "invalid query"
	case KindTransportFailure:
		return "transport failure"
	case KindBadStatus:
		return "bad status"
	case KindDecodeFailure:
		return "decode failure"
	case KindCancelled:
		return "cancelled"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Sentinels for errors.Is. Any *Error of the same Kind matches.
var (
	ErrInvalidQuery     = &Error{Kind: KindInvalidQuery}
	ErrTransportFailure = &Error{Kind: KindTransportFailure}
	ErrBadStatus        = &Error{Kind: KindBadStatus}
	ErrDecodeFailure    = &Error{Kind: KindDecodeFailure}
	ErrCancelled        = &Error{Kind: KindCancelled}
)

// Error is the single error type produced by the search pipeline.
type Error struct {
	Kind   Kind
	Status int    // HTTP status code, set for KindBadStatus
	Reason string // human readable detail, e.g. "bad date"
	Field  string // wire field name for missing-field decode failures
	Err    error  // underlying cause, if any
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindBadStatus:
		return fmt.Sprintf("%s: %d", e.Kind, e.Status)
	case KindTransportFailure:
		if e.Err != nil {
			return fmt.Sprintf("%s: %v", e.Kind, e.Err)
		}
	}
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same Kind.
// For KindBadStatus a non-zero target Status must also match.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	if t.Kind == KindBadStatus && t.Status != 0 {
		return t.Status == e.Status
	}
	return true
}

// InvalidQuery reports input that cannot be turned into a request.
func InvalidQuery(reason string) *Error {
	return &Error{Kind: KindInvalidQuery, Reason: reason}
}

// TransportFailure wraps a connectivity error.
func TransportFailure(err error) *Error {
	return &Error{Kind: KindTransportFailure, Err: err}
}

// BadStatus reports a non-2xx HTTP response.
func BadStatus(code int) *Error {
	return &Error{Kind: KindBadStatus, Status: code}
}

// DecodeFailure reports a body that does not match the expected schema.
func DecodeFailure(reason string) *Error {
	return &Error{Kind: KindDecodeFailure, Reason: reason}
}

// MissingField is a DecodeFailure naming the absent wire field.
func MissingField(field string) *Error {
	return &Error{Kind: KindDecodeFailure, Reason: "missing field " + field, Field: field}
}

// Cancelled reports that the work was superseded.
func Cancelled() *Error {
	return &Error{Kind: KindCancelled}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
