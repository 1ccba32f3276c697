package searchview

import (
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/llehouerou/tunesearch/internal/errmsg"
	"github.com/llehouerou/tunesearch/internal/keymap"
	"github.com/llehouerou/tunesearch/internal/ui/render"
	"github.com/llehouerou/tunesearch/internal/ui/styles"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	detailLines   = 4
	// header, input, two separators, detail block, help
	chromeLines = 5 + detailLines
)

func (m *Model[T]) size() (width, height int) {
	width, height = m.width, m.height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	return width, height
}

func (m *Model[T]) listHeight() int {
	_, h := m.size()
	return max(h-chromeLines, 3)
}

func (m *Model[T]) View() string {
	width, _ := m.size()
	s := styles.T().S()

	lines := make([]string, 0, m.listHeight()+chromeLines)
	lines = append(lines,
		render.Row(styles.T().Title("tunesearch")+s.Subtle.Render(" · "+m.opts.Label), m.status(), width),
		m.input.View(),
		s.Subtle.Render(render.Separator(width)),
	)
	lines = append(lines, m.body(width)...)
	lines = append(lines, s.Subtle.Render(render.Separator(width)))
	lines = append(lines, m.detailBlock(width)...)
	lines = append(lines, s.Subtle.Render(render.Truncate(m.help(), width)))
	return strings.Join(lines, "\n")
}

func (m *Model[T]) status() string {
	s := styles.T().S()
	switch {
	case m.searcher.State().IsActive():
		return s.Warning.Render("Searching…")
	case m.showingHistory() || m.shown.IsZero() || m.err != nil:
		return ""
	case len(m.items) == 1:
		return s.Muted.Render("1 result")
	default:
		return s.Muted.Render(humanize.Comma(int64(len(m.items))) + " results")
	}
}

func (m *Model[T]) body(width int) []string {
	height := m.listHeight()
	var lines []string
	switch {
	case m.showingHistory():
		lines = m.historyLines(width, height)
	case m.err != nil:
		s := styles.T().S()
		lines = []string{
			s.Error.Render(render.Truncate(errmsg.FormatWith(errmsg.OpSearch, m.shown.Text, m.err), width)),
			s.Subtle.Render("Edit the query to retry."),
		}
	case len(m.items) == 0 && !m.shown.IsZero():
		lines = []string{styles.T().S().Muted.Render("No results.")}
	default:
		lines = m.resultLines(width, height)
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return lines
}

func (m *Model[T]) resultLines(width, height int) []string {
	s := styles.T().S()
	start, end := m.cursor.VisibleRange(len(m.items), height)
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		title, aside := m.opts.Render.Row(m.items[i])
		lines = append(lines, m.row(i, render.Sanitize(title), s.Accent.Render(render.Truncate(aside, width/3)), width))
	}
	return lines
}

func (m *Model[T]) historyLines(width, height int) []string {
	s := styles.T().S()
	if m.notice != "" {
		return []string{s.Error.Render(render.Truncate(m.notice, width))}
	}
	if len(m.entries) == 0 {
		return []string{s.Muted.Render("Type to search " + m.opts.Label + ".")}
	}
	now := m.now()
	start, end := m.cursor.VisibleRange(len(m.entries), height)
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		e := m.entries[i]
		aside := e.Summary() + " · " + e.Ago(now)
		style := s.Subtle
		if e.Failed() {
			style = s.Error
		}
		lines = append(lines, m.row(i, render.Sanitize(e.Query), style.Render(aside), width))
	}
	return lines
}

func (m *Model[T]) row(i int, title, aside string, width int) string {
	s := styles.T().S()
	if i == m.cursor.Pos() {
		return render.Row(s.Cursor.Render("▸ "+title), aside, width)
	}
	return render.Row(s.Base.Render("  "+title), aside, width)
}

func (m *Model[T]) detailBlock(width int) []string {
	s := styles.T().S()
	text, style := "", s.Muted
	switch {
	case m.detailErr != nil:
		text, style = errmsg.Format(errmsg.OpFetchDetail, m.detailErr), s.Error
	case m.detail != "":
		text = m.detail
	default:
		if item, ok := m.Selected(); ok && m.opts.Render.Detail != nil {
			text = m.opts.Render.Detail(item)
		}
	}

	lines := make([]string, 0, detailLines)
	for line := range strings.SplitSeq(text, "\n") {
		if len(lines) == detailLines {
			break
		}
		lines = append(lines, style.Render(render.Truncate(line, width)))
	}
	for len(lines) < detailLines {
		lines = append(lines, "")
	}
	return lines
}

func (m *Model[T]) help() string {
	if m.showingHistory() {
		return keymap.HelpLine(keymap.ContextHistory)
	}
	if m.opts.Render.Expand == nil {
		return keymap.HelpLine(keymap.ContextResults, keymap.ActionSelect)
	}
	return keymap.HelpLine(keymap.ContextResults)
}
