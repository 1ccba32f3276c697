package keymap

import (
	"slices"
	"strings"
)

// Binding contexts. History is shown while the query is empty.
const (
	ContextGlobal  = "global"
	ContextHistory = "history"
	ContextResults = "results"
)

// Binding maps keys to an action. Help is the short key label shown in
// the help line; bindings without one are not listed.
type Binding struct {
	Action      Action
	Keys        []string
	Help        string
	Description string
	Context     string
}

// Bindings contains every key binding of the search screen.
var Bindings = []Binding{
	// Global
	{ActionQuit, []string{"ctrl+c"}, "", "Quit", ContextGlobal},
	{ActionMoveDown, []string{"down", "ctrl+n"}, "", "Move down", ContextGlobal},
	{ActionMoveUp, []string{"up", "ctrl+p"}, "", "Move up", ContextGlobal},
	{ActionPageDown, []string{"pgdown"}, "", "Page down", ContextGlobal},
	{ActionPageUp, []string{"pgup"}, "", "Page up", ContextGlobal},

	// History
	{ActionMoveDown, []string{"down"}, "↑/↓", "select", ContextHistory},
	{ActionSelect, []string{"enter"}, "enter", "search again", ContextHistory},
	{ActionClearHistory, []string{"ctrl+l"}, "ctrl+l", "clear history", ContextHistory},
	{ActionClear, []string{"esc"}, "esc", "quit", ContextHistory},

	// Results
	{ActionMoveDown, []string{"down"}, "↑/↓", "select", ContextResults},
	{ActionSelect, []string{"enter"}, "enter", "details", ContextResults},
	{ActionClear, []string{"esc"}, "esc", "clear", ContextResults},
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range Bindings {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}

// HelpLine renders the labelled bindings of context, skipping the given
// actions.
func HelpLine(context string, skip ...Action) string {
	var parts []string
	for _, kb := range ByContext(context) {
		if kb.Help == "" || slices.Contains(skip, kb.Action) {
			continue
		}
		parts = append(parts, kb.Help+" "+kb.Description)
	}
	return strings.Join(parts, " · ")
}
