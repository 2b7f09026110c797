package panels

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/awilkes/kbchat/internal/ui/border"
	"github.com/awilkes/kbchat/internal/ui/styles"
)

type HelpOverlay struct {
	width  int
	height int
}

func NewHelpOverlay() *HelpOverlay {
	return &HelpOverlay{
		width:  46,
		height: 26,
	}
}

func (h HelpOverlay) Update(msg tea.Msg) (HelpOverlay, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "?", "q":
			return h, func() tea.Msg { return CloseModalMsg{} }
		}
	}
	return h, nil
}

func (h HelpOverlay) View() string {
	keyStyle := lipgloss.NewStyle().Foreground(styles.KeybindKey).Bold(true)
	descStyle := styles.TextPrimaryStyle
	sectionStyle := styles.TitleStyle

	kv := func(key, desc string) string {
		return "  " + keyStyle.Render(key) + "  " + descStyle.Render(desc)
	}

	var b strings.Builder
	b.WriteString(sectionStyle.Render("Navigation") + "\n")
	b.WriteString(kv("j/k", "Move up/down") + "\n")
	b.WriteString(kv("G/gg", "Jump to bottom/top") + "\n")
	b.WriteString(kv("Tab", "Cycle panel focus") + "\n")
	b.WriteString(kv("1-4", "Focus panel directly") + "\n")
	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Conversations") + "\n")
	b.WriteString(kv("Enter", "Open conversation") + "\n")
	b.WriteString(kv("n", "New conversation") + "\n")
	b.WriteString(kv("r", "Rename") + "\n")
	b.WriteString(kv("p", "Pin / unpin") + "\n")
	b.WriteString(kv("d", "Delete") + "\n")
	b.WriteString(kv("/", "Filter list") + "\n")
	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Chat") + "\n")
	b.WriteString(kv("Ctrl+S", "Send query") + "\n")
	b.WriteString(kv("M-a..n", "Select query mode") + "\n")
	b.WriteString(kv("Esc", "Cancel streaming turn") + "\n")
	b.WriteString(kv("y", "Yank / copy mode") + "\n")
	b.WriteString(kv("m", "Toggle mindmap panel") + "\n")
	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Global") + "\n")
	b.WriteString(kv("?", "Toggle this help") + "\n")
	b.WriteString(kv("q", "Quit"))

	bottomKb := []border.Keybind{{Key: "?", Label: " close"}, {Key: "Esc", Label: " close"}}
	return border.RenderPanel("Keybinds", b.String(), bottomKb, h.width, h.height, true)
}
