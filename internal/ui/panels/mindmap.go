package panels

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/awilkes/kbchat/internal/mindmap"
	"github.com/awilkes/kbchat/internal/ui/border"
	"github.com/awilkes/kbchat/internal/ui/styles"
	"github.com/awilkes/kbchat/internal/ui/text"
)

// Mindmap renders the markdown outline streamed alongside answers.
type Mindmap struct {
	viewport viewport.Model
	doc      *mindmap.Doc
	width    int
	height   int
	follow   bool
	focused  bool
	gPending bool
}

func NewMindmap(doc *mindmap.Doc) Mindmap {
	return Mindmap{viewport: viewport.New(0, 0), doc: doc, follow: true}
}

func (m Mindmap) Update(msg tea.Msg) (Mindmap, tea.Cmd) {
	switch msg := msg.(type) {
	case GTimerExpiredMsg:
		m.gPending = false
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "G":
			m.follow = true
			m.viewport.GotoBottom()
			return m, nil
		case "g":
			if m.gPending {
				m.gPending = false
				m.follow = false
				m.viewport.GotoTop()
				return m, nil
			}
			m.gPending = true
			m.follow = false
			return m, tea.Tick(gTimeout, func(time.Time) tea.Msg {
				return GTimerExpiredMsg{}
			})
		case "y":
			if content := m.doc.Content(); content != "" {
				return m, func() tea.Msg { return YankMsg{Text: content} }
			}
			return m, nil
		case "j", "down":
			m.follow = false
			m.viewport.SetYOffset(m.viewport.YOffset + 1)
			return m, nil
		case "k", "up":
			m.follow = false
			offset := m.viewport.YOffset - 1
			if offset < 0 {
				offset = 0
			}
			m.viewport.SetYOffset(offset)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// Refresh re-reads the document into the viewport.
func (m *Mindmap) Refresh() {
	m.viewport.SetContent(m.renderContent())
	if m.follow {
		m.viewport.GotoBottom()
	}
}

func (m Mindmap) View() string {
	var keybinds []border.Keybind
	if m.focused {
		keybinds = []border.Keybind{
			{Key: "y", Label: "ank"},
			{Key: "G", Label: "bottom"},
			{Key: "g", Label: "g top"},
		}
	}
	return border.RenderPanel("[4] Mindmap", m.viewport.View(), keybinds, m.width, m.height, m.focused)
}

func (m *Mindmap) SetSize(w, h int) {
	m.width = w
	m.height = h
	innerW := w - 2
	innerH := h - 2
	if innerW < 0 {
		innerW = 0
	}
	if innerH < 0 {
		innerH = 0
	}
	m.viewport.Width = innerW
	m.viewport.Height = innerH
	m.Refresh()
}

func (m *Mindmap) SetFocused(focused bool) {
	m.focused = focused
}

func (m Mindmap) renderContent() string {
	content := m.doc.Content()
	if content == "" {
		return styles.TextDimStyle.Render("No mindmap for this conversation yet.")
	}
	innerW := m.width - 2
	if innerW < 1 {
		innerW = 1
	}

	lines := text.WrapText(content, innerW)
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		switch {
		case strings.HasPrefix(trimmed, "# "):
			lines[i] = styles.TitleStyle.Render(line)
		case strings.HasPrefix(trimmed, "## "), strings.HasPrefix(trimmed, "### "):
			lines[i] = styles.TextSecondaryStyle.Render(line)
		case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
			lines[i] = styles.TextPrimaryStyle.Render(line)
		default:
			lines[i] = styles.TextPrimaryStyle.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
