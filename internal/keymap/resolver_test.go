//nolint:goconst // test cases intentionally repeat strings for readability
package keymap

import (
	"slices"
	"testing"
)

func TestResolver_Resolve(t *testing.T) {
	bindings := []Binding{
		{ActionQuit, []string{"ctrl+c"}, "", "Quit", ContextGlobal},
		{ActionMoveDown, []string{"down", "ctrl+n"}, "", "Move down", ContextGlobal},
		{ActionClearHistory, []string{"ctrl+l"}, "ctrl+l", "clear history", ContextHistory},
		{ActionSelect, []string{"ctrl+n"}, "", "Select", ContextResults},
	}

	r := NewResolver(bindings)

	tests := []struct {
		name     string
		context  string
		key      string
		expected Action
	}{
		{"global key in history", ContextHistory, "ctrl+c", ActionQuit},
		{"global key in results", ContextResults, "down", ActionMoveDown},
		{"context key", ContextHistory, "ctrl+l", ActionClearHistory},
		{"context key elsewhere", ContextResults, "ctrl+l", ""},
		{"context overrides global", ContextResults, "ctrl+n", ActionSelect},
		{"global kept where not overridden", ContextHistory, "ctrl+n", ActionMoveDown},
		{"unknown context uses global", "unknown", "ctrl+c", ActionQuit},
		{"unknown key", ContextHistory, "unknown", ""},
		{"empty key", ContextHistory, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := r.Resolve(tt.context, tt.key)
			if result != tt.expected {
				t.Errorf("Resolve(%q, %q) = %q, want %q", tt.context, tt.key, result, tt.expected)
			}
		})
	}
}

func TestResolver_KeysFor(t *testing.T) {
	bindings := []Binding{
		{ActionQuit, []string{"ctrl+c"}, "", "Quit", ContextGlobal},
		{ActionMoveUp, []string{"up", "ctrl+p"}, "", "Move up", ContextGlobal},
		{ActionMoveUp, []string{"up"}, "↑/↓", "select", ContextResults},
	}

	r := NewResolver(bindings)

	tests := []struct {
		action   Action
		expected []string
	}{
		{ActionQuit, []string{"ctrl+c"}},
		{ActionMoveUp, []string{"up", "ctrl+p"}},
		{Action("unknown"), nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			result := r.KeysFor(tt.action)

			if tt.expected == nil {
				if result != nil {
					t.Errorf("KeysFor(%q) = %v, want nil", tt.action, result)
				}
				return
			}
			if !slices.Equal(result, tt.expected) {
				t.Errorf("KeysFor(%q) = %v, want %v", tt.action, result, tt.expected)
			}
		})
	}
}

func TestResolver_WithBindings(t *testing.T) {
	r := NewResolver(Bindings)

	tests := []struct {
		context  string
		key      string
		expected Action
	}{
		{ContextHistory, "ctrl+c", ActionQuit},
		{ContextHistory, "esc", ActionClear},
		{ContextHistory, "enter", ActionSelect},
		{ContextHistory, "ctrl+l", ActionClearHistory},
		{ContextHistory, "pgdown", ActionPageDown},
		{ContextResults, "esc", ActionClear},
		{ContextResults, "enter", ActionSelect},
		{ContextResults, "ctrl+l", ""},
		{ContextResults, "pgup", ActionPageUp},
		{ContextResults, "j", ""},
		{ContextHistory, "q", ""},
	}

	for _, tt := range tests {
		t.Run(tt.context+"/"+tt.key, func(t *testing.T) {
			if action := r.Resolve(tt.context, tt.key); action != tt.expected {
				t.Errorf("Resolve(%q, %q) = %q, want %q", tt.context, tt.key, action, tt.expected)
			}
		})
	}
}

func TestAppendUnique(t *testing.T) {
	tests := []struct {
		name     string
		keys     []string
		key      string
		expected []string
	}{
		{"new key", []string{"a"}, "b", []string{"a", "b"}},
		{"existing key", []string{"a", "b"}, "a", []string{"a", "b"}},
		{"nil slice", nil, "a", []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := appendUnique(tt.keys, tt.key); !slices.Equal(result, tt.expected) {
				t.Errorf("appendUnique(%v, %q) = %v, want %v", tt.keys, tt.key, result, tt.expected)
			}
		})
	}
}
