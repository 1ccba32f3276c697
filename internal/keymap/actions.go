// Package keymap defines key bindings and action dispatch for the search
// screen.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	ActionQuit         Action = "quit"          // ctrl+c - cancel and exit
	ActionClear        Action = "clear"         // esc - clear the query, or exit when empty
	ActionSelect       Action = "select"        // enter - rerun history entry or expand result
	ActionClearHistory Action = "clear_history" // ctrl+l

	// Navigation actions. Letters are left to the text input.
	ActionMoveUp   Action = "move_up"
	ActionMoveDown Action = "move_down"
	ActionPageUp   Action = "page_up"
	ActionPageDown Action = "page_down"
)
