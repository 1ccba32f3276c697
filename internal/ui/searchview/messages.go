package searchview

import (
	"github.com/llehouerou/tunesearch/internal/errmsg"
	"github.com/llehouerou/tunesearch/internal/history"
	"github.com/llehouerou/tunesearch/internal/search"
)

// ResultsMsg delivers the results of a query.
type ResultsMsg[T any] struct {
	Query search.Query
	Items []T
}

// ErrorMsg delivers a failed query.
type ErrorMsg struct {
	Query search.Query
	Err   error
}

// HistoryMsg carries the recent searches after a load or a write.
type HistoryMsg struct {
	Entries []history.Entry
	Op      errmsg.Op
	Err     error
}

// DetailMsg carries the expanded detail of one result.
type DetailMsg struct {
	Seq   uint64
	Index int
	Gen   uint64 // expand request that produced it
	Text  string
	Err   error
}

type bridgeClosedMsg struct{}
