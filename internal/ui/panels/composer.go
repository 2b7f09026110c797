package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/awilkes/kbchat/internal/api"
	"github.com/awilkes/kbchat/internal/ui/border"
	"github.com/awilkes/kbchat/internal/ui/styles"
)

type modeOption struct {
	key  string
	name string
	mode string
}

var modes = []modeOption{
	{key: "M-a", name: "agent", mode: api.ModeAgent},
	{key: "M-m", name: "mix", mode: api.ModeMix},
	{key: "M-l", name: "local", mode: api.ModeLocal},
	{key: "M-g", name: "global", mode: api.ModeGlobal},
	{key: "M-n", name: "naive", mode: api.ModeNaive},
}

type Composer struct {
	input   textarea.Model
	mode    string
	width   int
	height  int
	focused bool
	busy    bool
}

func NewComposer(defaultMode string) Composer {
	ta := textarea.New()
	ta.Placeholder = "Ask the knowledge base..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0

	return Composer{input: ta, mode: defaultMode}
}

func (c Composer) Update(msg tea.Msg) (Composer, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch keyMsg.String() {
	case "ctrl+s":
		if c.busy {
			return c, nil
		}
		query := strings.TrimSpace(c.input.Value())
		if query == "" {
			return c, nil
		}
		q, m := query, c.mode
		c.input.SetValue("")
		return c, func() tea.Msg {
			return SubmitQueryMsg{Query: q, Mode: m}
		}
	case "alt+a":
		c.mode = api.ModeAgent
		return c, nil
	case "alt+m":
		c.mode = api.ModeMix
		return c, nil
	case "alt+l":
		c.mode = api.ModeLocal
		return c, nil
	case "alt+g":
		c.mode = api.ModeGlobal
		return c, nil
	case "alt+n":
		c.mode = api.ModeNaive
		return c, nil
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

func (c Composer) View() string {
	var b strings.Builder

	b.WriteString(c.input.View())
	b.WriteString("\n")

	b.WriteString(styles.TextSecondaryStyle.Render("Mode  "))
	for i, m := range modes {
		if i > 0 {
			b.WriteString("  ")
		}
		label := fmt.Sprintf("[%s] %s", m.key, m.name)
		if m.mode == c.mode {
			b.WriteString(styles.TitleStyle.Render(label))
		} else {
			b.WriteString(styles.TextDimStyle.Render(label))
		}
	}

	title := "[3] Composer"
	var keybinds []border.Keybind
	if c.focused {
		if c.busy {
			keybinds = []border.Keybind{{Key: "Esc", Label: " cancel turn"}}
		} else {
			keybinds = []border.Keybind{
				{Key: "^S", Label: " send"},
				{Key: "M-·", Label: " mode"},
			}
		}
	}
	return border.RenderPanel(title, b.String(), keybinds, c.width, c.height, c.focused)
}

func (c *Composer) SetSize(w, h int) {
	c.width = w
	c.height = h
	innerW := w - 2
	// inner height minus the mode row
	taHeight := h - 3
	if taHeight < 1 {
		taHeight = 1
	}
	if innerW < 1 {
		innerW = 1
	}
	c.input.SetWidth(innerW)
	c.input.SetHeight(taHeight)
}

func (c *Composer) SetFocused(focused bool) {
	c.focused = focused
	if focused {
		c.input.Focus()
	} else {
		c.input.Blur()
	}
}

// SetBusy marks a turn in flight: submission is suppressed until it ends.
func (c *Composer) SetBusy(busy bool) {
	c.busy = busy
}

// Busy reports whether a turn is currently in flight.
func (c Composer) Busy() bool { return c.busy }

// Mode returns the currently selected query mode.
func (c Composer) Mode() string { return c.mode }

// Value returns the current input text.
func (c Composer) Value() string { return c.input.Value() }

// Focused reports whether the composer has input focus.
func (c Composer) Focused() bool { return c.focused }
