package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestGradient_KeepsText(t *testing.T) {
	for _, text := range []string{"tunesearch", "x", "Löwe 🦁"} {
		got := Gradient(text, "#a78bfa", "#f1a208")
		assert.Equal(t, text, ansi.Strip(got))
	}
}

func TestGradient_Empty(t *testing.T) {
	assert.Empty(t, Gradient("", "#a78bfa", "#f1a208"))
}

func TestGradient_NonHexFallsBack(t *testing.T) {
	got := Gradient("tunesearch", lipgloss.Color("39"), "#f1a208")
	assert.Equal(t, "tunesearch", ansi.Strip(got))
}

func TestTheme_Title(t *testing.T) {
	assert.Equal(t, "tunesearch", ansi.Strip(T().Title("tunesearch")))
	assert.NotNil(t, T().S())
}
