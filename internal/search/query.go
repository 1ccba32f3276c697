// Package search implements the debounced, cancellable remote search
// pipeline: keystrokes go in through Controller.Submit, and only the
// outcome of the most recent settled query comes out.
package search

import "maps"

// Query is an immutable search request. Seq increases monotonically per
// controller and decides staleness.
type Query struct {
	Text       string
	Seq        uint64
	parameters map[string]string
}

// NewQuery copies params so later changes by the caller are not observed.
func NewQuery(text string, params map[string]string, seq uint64) Query {
	return Query{Text: text, Seq: seq, parameters: maps.Clone(params)}
}

// Parameters returns a copy of the query-string parameters.
func (q Query) Parameters() map[string]string {
	return maps.Clone(q.parameters)
}

// Param returns a single parameter value.
func (q Query) Param(key string) (string, bool) {
	v, ok := q.parameters[key]
	return v, ok
}

// IsZero reports whether q is the zero Query (no submission yet).
func (q Query) IsZero() bool {
	return q.Seq == 0 && q.Text == ""
}

// NewerThan reports whether q was created after other.
func (q Query) NewerThan(other Query) bool {
	return q.Seq > other.Seq
}
