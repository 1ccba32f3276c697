package searchview

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tunesearch/internal/search"
)

// Bridge carries controller outcomes into the bubbletea event loop.
// Callbacks never block: when the buffer is full the oldest pending
// outcome is dropped, since a newer one supersedes it anyway.
type Bridge[T any] struct {
	ch   chan tea.Msg
	done chan struct{}
	once sync.Once
}

// NewBridge creates a bridge buffering up to size outcomes.
func NewBridge[T any](size int) *Bridge[T] {
	return &Bridge[T]{
		ch:   make(chan tea.Msg, max(size, 1)),
		done: make(chan struct{}),
	}
}

// Callbacks returns the controller callbacks feeding this bridge.
func (b *Bridge[T]) Callbacks() search.Callbacks[T] {
	return search.Callbacks[T]{
		OnResults: func(q search.Query, items []T) {
			b.push(ResultsMsg[T]{Query: q, Items: items})
		},
		OnError: func(q search.Query, err error) {
			b.push(ErrorMsg{Query: q, Err: err})
		},
	}
}

func (b *Bridge[T]) push(msg tea.Msg) {
	for {
		select {
		case <-b.done:
			return
		case b.ch <- msg:
			return
		default:
		}
		select {
		case <-b.ch:
		default:
		}
	}
}

// Wait returns a command that delivers the next outcome. The model
// re-arms it after handling each one.
func (b *Bridge[T]) Wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-b.ch:
			return msg
		case <-b.done:
			return bridgeClosedMsg{}
		}
	}
}

// Close releases a pending Wait and drops later outcomes.
func (b *Bridge[T]) Close() {
	b.once.Do(func() { close(b.done) })
}
