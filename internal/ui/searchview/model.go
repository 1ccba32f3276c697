// Package searchview is the interactive search screen: a text input that
// submits on every edit, the latest results, and the recent history.
package searchview

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tunesearch/internal/errmsg"
	"github.com/llehouerou/tunesearch/internal/history"
	"github.com/llehouerou/tunesearch/internal/keymap"
	"github.com/llehouerou/tunesearch/internal/search"
	"github.com/llehouerou/tunesearch/internal/ui/cursor"
)

// Searcher is the part of search.Controller the view drives.
type Searcher interface {
	Submit(text string) search.Query
	Cancel()
	State() search.State
}

// History is the part of history.Store the view uses.
type History interface {
	Record(e history.Entry) error
	Recent(limit int) ([]history.Entry, error)
	Clear() error
}

// Renderer describes how results of type T are displayed.
type Renderer[T any] struct {
	// Row returns the title and the right-aligned aside of a result row.
	Row func(item T) (title, aside string)
	// Detail describes the selected result below the list.
	Detail func(item T) string
	// Expand, when set, loads a fuller description on enter.
	Expand func(ctx context.Context, item T) (string, error)
}

// Options configures a Model.
type Options[T any] struct {
	Provider     string // recorded in history
	Label        string // shown in the header
	Render       Renderer[T]
	History      History // nil disables history
	HistoryLimit int
	Logger       *slog.Logger
}

type Model[T any] struct {
	searcher Searcher
	bridge   *Bridge[T]
	opts     Options[T]
	log      *slog.Logger
	keys     *keymap.Resolver
	now      func() time.Time

	input  textinput.Model
	cursor cursor.Cursor
	width  int
	height int

	latest search.Query // last submitted
	shown  search.Query // query whose outcome is displayed
	items  []T
	err    error

	entries   []history.Entry
	notice    string // history failures
	detail    string // expanded detail of the selection
	detailErr error

	expandGen    uint64
	expandCancel context.CancelFunc // aborts the running detail fetch
}

// New creates the view. searcher must report its outcomes through bridge.
func New[T any](searcher Searcher, bridge *Bridge[T], opts Options[T]) *Model[T] {
	ti := textinput.New()
	ti.Placeholder = "Search " + opts.Label + "..."
	ti.Prompt = "› "
	ti.CharLimit = 256
	ti.Width = 50
	ti.Focus()

	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 20
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return &Model[T]{
		searcher: searcher,
		bridge:   bridge,
		opts:     opts,
		log:      log.With("component", "searchview"),
		keys:     keymap.NewResolver(keymap.Bindings),
		now:      time.Now,
		input:    ti,
		cursor:   cursor.New(2),
	}
}

func (m *Model[T]) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.bridge.Wait(), m.loadHistory())
}

// Query returns the current input text.
func (m *Model[T]) Query() string {
	return m.input.Value()
}

// Items returns the results on screen.
func (m *Model[T]) Items() []T {
	return m.items
}

// Err returns the error on screen, if any.
func (m *Model[T]) Err() error {
	return m.err
}

// Shown returns the query whose outcome is on screen.
func (m *Model[T]) Shown() search.Query {
	return m.shown
}

// Selected returns the result under the cursor.
func (m *Model[T]) Selected() (T, bool) {
	var zero T
	if m.showingHistory() || len(m.items) == 0 {
		return zero, false
	}
	return m.items[m.cursor.Pos()], true
}

func (m *Model[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(msg.Width-4, 10)
		m.cursor.ClampToBounds(m.listLen(), m.listHeight())
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ResultsMsg[T]:
		return m, tea.Batch(m.handleResults(msg), m.bridge.Wait())

	case ErrorMsg:
		return m, tea.Batch(m.handleError(msg), m.bridge.Wait())

	case bridgeClosedMsg:
		return m, nil

	case HistoryMsg:
		m.handleHistory(msg)
		return m, nil

	case DetailMsg:
		m.handleDetail(msg)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model[T]) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	page := max(m.listHeight()-1, 1)
	switch m.keys.Resolve(m.keyContext(), msg.String()) {
	case keymap.ActionQuit:
		m.searcher.Cancel()
		m.cancelExpand()
		return m, tea.Quit
	case keymap.ActionClear:
		if m.input.Value() == "" {
			m.cancelExpand()
			return m, tea.Quit
		}
		m.input.SetValue("")
		m.submit()
		return m, nil
	case keymap.ActionSelect:
		return m, m.handleEnter()
	case keymap.ActionClearHistory:
		return m, m.clearHistory()
	case keymap.ActionMoveDown:
		m.moveCursor(1)
		return m, nil
	case keymap.ActionMoveUp:
		m.moveCursor(-1)
		return m, nil
	case keymap.ActionPageDown:
		m.moveCursor(page)
		return m, nil
	case keymap.ActionPageUp:
		m.moveCursor(-page)
		return m, nil
	}

	prev := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != prev {
		m.submit()
	}
	return m, cmd
}

func (m *Model[T]) keyContext() string {
	if m.showingHistory() {
		return keymap.ContextHistory
	}
	return keymap.ContextResults
}

func (m *Model[T]) moveCursor(delta int) {
	m.cursor.Move(delta, m.listLen(), m.listHeight())
	m.clearDetail()
}

// clearDetail drops the detail of the previous selection and abandons
// its fetch.
func (m *Model[T]) clearDetail() {
	m.cancelExpand()
	m.detail, m.detailErr = "", nil
}

func (m *Model[T]) cancelExpand() {
	if m.expandCancel != nil {
		m.expandCancel()
		m.expandCancel = nil
	}
}

// submit forwards the input text to the controller after every edit.
func (m *Model[T]) submit() {
	m.latest = m.searcher.Submit(m.input.Value())
	m.clearDetail()
	if m.showingHistory() {
		m.cursor.Reset()
	}
}

func (m *Model[T]) handleEnter() tea.Cmd {
	if m.showingHistory() {
		if len(m.entries) == 0 {
			return nil
		}
		m.input.SetValue(m.entries[m.cursor.Pos()].Query)
		m.input.CursorEnd()
		m.submit()
		return nil
	}

	item, ok := m.Selected()
	if !ok || m.opts.Render.Expand == nil {
		return nil
	}
	m.cancelExpand()
	ctx, cancel := context.WithCancel(context.Background())
	m.expandCancel = cancel
	m.expandGen++
	seq, index, gen, expand := m.shown.Seq, m.cursor.Pos(), m.expandGen, m.opts.Render.Expand
	m.detail, m.detailErr = "Loading…", nil
	return func() tea.Msg {
		text, err := expand(ctx, item)
		return DetailMsg{Seq: seq, Index: index, Gen: gen, Text: text, Err: err}
	}
}

// stale reports whether q was superseded by a later submission.
func (m *Model[T]) stale(q search.Query) bool {
	return m.latest.NewerThan(q)
}

func (m *Model[T]) handleResults(msg ResultsMsg[T]) tea.Cmd {
	if m.stale(msg.Query) {
		m.log.Debug("dropping stale results", "seq", msg.Query.Seq, "latest", m.latest.Seq)
		return nil
	}
	m.shown, m.items, m.err = msg.Query, msg.Items, nil
	m.clearDetail()
	m.cursor.Reset()
	return m.record(history.Outcome(m.opts.Provider, msg.Query, len(msg.Items), nil, m.now()))
}

func (m *Model[T]) handleError(msg ErrorMsg) tea.Cmd {
	if m.stale(msg.Query) {
		return nil
	}
	m.shown, m.items, m.err = msg.Query, nil, msg.Err
	m.clearDetail()
	m.cursor.Reset()
	return m.record(history.Outcome(m.opts.Provider, msg.Query, 0, msg.Err, m.now()))
}

func (m *Model[T]) handleHistory(msg HistoryMsg) {
	if msg.Err != nil {
		m.log.Warn("history", "op", string(msg.Op), "error", msg.Err)
		m.notice = errmsg.Format(msg.Op, msg.Err)
		return
	}
	m.notice = ""
	m.entries = msg.Entries
	if m.showingHistory() {
		m.cursor.ClampToBounds(len(m.entries), m.listHeight())
	}
}

func (m *Model[T]) handleDetail(msg DetailMsg) {
	if msg.Gen != m.expandGen || msg.Seq != m.shown.Seq || msg.Index != m.cursor.Pos() || m.showingHistory() {
		return
	}
	m.cancelExpand()
	m.detail, m.detailErr = msg.Text, msg.Err
}

func (m *Model[T]) loadHistory() tea.Cmd {
	h, limit := m.opts.History, m.opts.HistoryLimit
	if h == nil {
		return nil
	}
	return func() tea.Msg {
		entries, err := h.Recent(limit)
		return HistoryMsg{Entries: entries, Op: errmsg.OpHistoryLoad, Err: err}
	}
}

func (m *Model[T]) record(e history.Entry) tea.Cmd {
	h, limit := m.opts.History, m.opts.HistoryLimit
	if h == nil || strings.TrimSpace(e.Query) == "" {
		return nil
	}
	return func() tea.Msg {
		if err := h.Record(e); err != nil {
			return HistoryMsg{Op: errmsg.OpHistoryRecord, Err: err}
		}
		entries, err := h.Recent(limit)
		return HistoryMsg{Entries: entries, Op: errmsg.OpHistoryLoad, Err: err}
	}
}

func (m *Model[T]) clearHistory() tea.Cmd {
	h := m.opts.History
	if h == nil {
		return nil
	}
	return func() tea.Msg {
		if err := h.Clear(); err != nil {
			return HistoryMsg{Op: errmsg.OpHistoryClear, Err: err}
		}
		return HistoryMsg{Entries: nil, Op: errmsg.OpHistoryClear}
	}
}

func (m *Model[T]) showingHistory() bool {
	return m.input.Value() == ""
}

func (m *Model[T]) listLen() int {
	if m.showingHistory() {
		return len(m.entries)
	}
	return len(m.items)
}
