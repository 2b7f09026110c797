package panels

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestHelpOverlayContent(t *testing.T) {
	h := NewHelpOverlay()
	view := h.View()

	for _, want := range []string{"Keybinds", "Navigation", "Conversations", "Chat", "Global"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestHelpOverlayCloses(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyEsc},
		{Type: tea.KeyRunes, Runes: []rune("?")},
		{Type: tea.KeyRunes, Runes: []rune("q")},
	} {
		h := NewHelpOverlay()
		_, cmd := h.Update(key)
		if cmd == nil {
			t.Fatalf("%s should close the overlay", key.String())
		}
		if _, ok := cmd().(CloseModalMsg); !ok {
			t.Errorf("%s produced %T, want CloseModalMsg", key.String(), cmd())
		}
	}
}

func TestHelpOverlayIgnoresOtherKeys(t *testing.T) {
	h := NewHelpOverlay()
	_, cmd := h.Update(keyRunes("j"))
	if cmd != nil {
		t.Error("unrelated keys should not close the overlay")
	}
}
