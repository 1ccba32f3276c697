//nolint:goconst // test cases intentionally repeat strings for readability
package keymap

import (
	"testing"
)

func TestByContext(t *testing.T) {
	tests := []struct {
		name            string
		context         string
		expectMinLength int
	}{
		{"global context", ContextGlobal, 5},
		{"history context", ContextHistory, 4},
		{"results context", ContextResults, 3},
		{"unknown context returns empty", "unknown", 0},
		{"empty context returns empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ByContext(tt.context)

			if tt.expectMinLength == 0 && len(result) != 0 {
				t.Errorf("ByContext(%q) returned %d items, expected empty", tt.context, len(result))
			}
			if len(result) < tt.expectMinLength {
				t.Errorf("ByContext(%q) returned %d items, expected at least %d",
					tt.context, len(result), tt.expectMinLength)
			}
			for _, kb := range result {
				if kb.Context != tt.context {
					t.Errorf("binding %q has context %q, want %q", kb.Action, kb.Context, tt.context)
				}
			}
		})
	}
}

func TestBindings_NoLetterKeys(t *testing.T) {
	// Printable keys belong to the query input.
	for _, kb := range Bindings {
		for _, key := range kb.Keys {
			if len([]rune(key)) == 1 {
				t.Errorf("action %q is bound to printable key %q", kb.Action, key)
			}
		}
	}
}

func TestHelpLine(t *testing.T) {
	tests := []struct {
		name    string
		context string
		skip    []Action
		want    string
	}{
		{
			name:    "history",
			context: ContextHistory,
			want:    "↑/↓ select · enter search again · ctrl+l clear history · esc quit",
		},
		{
			name:    "results",
			context: ContextResults,
			want:    "↑/↓ select · enter details · esc clear",
		},
		{
			name:    "results without details",
			context: ContextResults,
			skip:    []Action{ActionSelect},
			want:    "↑/↓ select · esc clear",
		},
		{
			name:    "global has no labels",
			context: ContextGlobal,
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HelpLine(tt.context, tt.skip...); got != tt.want {
				t.Errorf("HelpLine(%q) = %q, want %q", tt.context, got, tt.want)
			}
		})
	}
}
