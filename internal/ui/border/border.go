package border

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/awilkes/kbchat/internal/ui/styles"
)

const (
	topLeft     = "╭"
	topRight    = "╮"
	bottomLeft  = "╰"
	bottomRight = "╯"
	horizontal  = "─"
	vertical    = "│"
)

func edgeColor(focused bool) lipgloss.AdaptiveColor {
	if focused {
		return styles.BorderFocused
	}
	return styles.BorderUnfocused
}

// renderTop draws the upper edge with an embedded title:
// ╭─ Conversations ────╮. The title is bold; focused panels use the accent
// title color.
func renderTop(title string, width int, focused bool) string {
	if width < 2 {
		return ""
	}
	edge := lipgloss.NewStyle().Foreground(edgeColor(focused))

	var titleStyle lipgloss.Style
	if focused {
		titleStyle = styles.TitleStyle
	} else {
		titleStyle = styles.TextSecondaryStyle.Bold(true)
	}

	inner := width - 2
	if title == "" {
		return edge.Render(topLeft + strings.Repeat(horizontal, inner) + topRight)
	}

	rendered := titleStyle.Render(title)
	// "─ " before the title and " " after it, the rest is fill.
	fill := inner - 2 - lipgloss.Width(rendered) - 1
	if fill < 0 {
		fill = 0
	}

	return edge.Render(topLeft+horizontal+" ") +
		rendered +
		edge.Render(" "+strings.Repeat(horizontal, fill)+topRight)
}

// renderBottom draws the lower edge. Focused panels embed their keybind
// hints: ╰─ [n]ew  [p]in ──╯. Hints that would not fit are dropped from
// the right rather than overflowing the edge.
func renderBottom(keybinds []Keybind, width int, focused bool) string {
	if width < 2 {
		return ""
	}
	edge := lipgloss.NewStyle().Foreground(edgeColor(focused))
	inner := width - 2

	if !focused || len(keybinds) == 0 {
		return edge.Render(bottomLeft + strings.Repeat(horizontal, inner) + bottomRight)
	}

	// "─ " prefix and a trailing " " frame the hint list.
	budget := inner - 3
	if budget < 0 {
		budget = 0
	}

	var parts []string
	used := 0
	for _, kb := range keybinds {
		rendered := RenderKeybind(kb)
		w := lipgloss.Width(rendered)
		sep := 0
		if len(parts) > 0 {
			sep = 2 // "  " between hints
		}
		if used+sep+w > budget {
			break
		}
		parts = append(parts, rendered)
		used += sep + w
	}

	fill := budget - used
	if fill < 0 {
		fill = 0
	}

	return edge.Render(bottomLeft+horizontal+" ") +
		strings.Join(parts, "  ") +
		edge.Render(" "+strings.Repeat(horizontal, fill)+bottomRight)
}

// renderSides wraps each content line in │ edges, truncating and padding to
// the panel's inner width. Widths are measured ANSI-aware so styled
// transcript lines pad correctly.
func renderSides(content string, width int, focused bool) string {
	if width < 2 {
		return content
	}
	edge := lipgloss.NewStyle().Foreground(edgeColor(focused))

	inner := width - 2
	crop := lipgloss.NewStyle().MaxWidth(inner)

	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		w := lipgloss.Width(line)
		if w > inner {
			line = crop.Render(line)
			w = lipgloss.Width(line)
		}
		if w < inner {
			line += strings.Repeat(" ", inner-w)
		}
		out = append(out, edge.Render(vertical)+line+edge.Render(vertical))
	}
	return strings.Join(out, "\n")
}
