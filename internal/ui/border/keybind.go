package border

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/awilkes/kbchat/internal/ui/styles"
)

// Keybind is one hint shown on a focused panel's bottom edge. The key is
// bracketed and the label follows it directly, so {Key: "n", Label: "ew"}
// renders as [n]ew.
type Keybind struct {
	Key   string
	Label string
}

// RenderKeybind styles one hint: the bracketed key in the accent color,
// the label dimmed.
func RenderKeybind(kb Keybind) string {
	keyStyle := lipgloss.NewStyle().Foreground(styles.KeybindKey).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(styles.KeybindLabel)
	return keyStyle.Render("["+kb.Key+"]") + labelStyle.Render(kb.Label)
}

// KeybindWidth is the visible width of a rendered hint: brackets plus key
// plus label.
func KeybindWidth(kb Keybind) int {
	return 2 + len(kb.Key) + len(kb.Label)
}
