package panels

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/awilkes/kbchat/internal/api"
	"github.com/awilkes/kbchat/internal/ui/border"
	"github.com/awilkes/kbchat/internal/ui/styles"
	"github.com/awilkes/kbchat/internal/ui/text"
)

const (
	colPinW  = 2
	colTimeW = 12
)

type ConvList struct {
	conversations []api.Conversation
	filtered      []api.Conversation
	selected      int
	offset        int
	width         int
	height        int
	lastKeyG      bool
	lastKeyT      time.Time
	filterActive  bool
	filterText    string
	filterInput   textinput.Model
	renameActive  bool
	renameID      string
	renameInput   textinput.Model
	focused       bool
}

func NewConvList() ConvList {
	ti := textinput.New()
	ti.Placeholder = "Filter..."
	ti.CharLimit = 64

	ri := textinput.New()
	ri.Placeholder = "Title..."
	ri.CharLimit = 128

	return ConvList{filterInput: ti, renameInput: ri}
}

// SetConversations replaces the backing list. Pinned conversations sort
// first, then most recently updated.
func (c *ConvList) SetConversations(convs []api.Conversation) {
	sorted := make([]api.Conversation, len(convs))
	copy(sorted, convs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Pinned != sorted[j].Pinned {
			return sorted[i].Pinned
		}
		return sorted[i].UpdatedAt.After(sorted[j].UpdatedAt)
	})
	c.conversations = sorted
	c.applyFilter()
	c.clampSelection()
}

func (c ConvList) Update(msg tea.Msg) (ConvList, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	if c.filterActive {
		return c.updateFilter(keyMsg)
	}
	if c.renameActive {
		return c.updateRename(keyMsg)
	}

	switch keyMsg.String() {
	case "/":
		c.filterActive = true
		c.filterInput.Focus()
		return c, textinput.Blink
	case "r":
		if sel := c.Selected(); sel != nil {
			c.renameActive = true
			c.renameID = sel.ID
			c.renameInput.SetValue(sel.Title)
			c.renameInput.CursorEnd()
			c.renameInput.Focus()
			return c, textinput.Blink
		}
	case "j", "down":
		if c.selected < len(c.filtered)-1 {
			c.selected++
			c.scrollToSelection()
		}
		c.lastKeyG = false
	case "k", "up":
		if c.selected > 0 {
			c.selected--
			c.scrollToSelection()
		}
		c.lastKeyG = false
	case "enter":
		if sel := c.Selected(); sel != nil {
			id := sel.ID
			return c, func() tea.Msg { return SelectConversationMsg{ID: id} }
		}
	case "n":
		return c, func() tea.Msg { return NewConversationMsg{} }
	case "d":
		if sel := c.Selected(); sel != nil {
			id := sel.ID
			return c, func() tea.Msg { return DeleteConversationMsg{ID: id} }
		}
	case "p":
		if sel := c.Selected(); sel != nil {
			id, pinned := sel.ID, !sel.Pinned
			return c, func() tea.Msg { return TogglePinMsg{ID: id, Pinned: pinned} }
		}
	case "y":
		if sel := c.Selected(); sel != nil {
			id := sel.ID
			return c, func() tea.Msg { return YankMsg{Text: id} }
		}
	case "G":
		c.selected = max(len(c.filtered)-1, 0)
		c.scrollToSelection()
		c.lastKeyG = false
	case "g":
		if c.lastKeyG && time.Since(c.lastKeyT) < 500*time.Millisecond {
			c.selected = 0
			c.scrollToSelection()
			c.lastKeyG = false
		} else {
			c.lastKeyG = true
			c.lastKeyT = time.Now()
		}
	default:
		c.lastKeyG = false
	}
	return c, nil
}

func (c *ConvList) updateFilter(msg tea.KeyMsg) (ConvList, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		if msg.Type == tea.KeyEsc {
			c.filterText = ""
			c.filterInput.SetValue("")
		}
		c.filterActive = false
		c.filterInput.Blur()
		c.applyFilter()
		c.clampSelection()
		return *c, nil
	}

	var cmd tea.Cmd
	c.filterInput, cmd = c.filterInput.Update(msg)
	c.filterText = c.filterInput.Value()
	c.applyFilter()
	c.clampSelection()
	return *c, cmd
}

func (c *ConvList) updateRename(msg tea.KeyMsg) (ConvList, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		c.renameActive = false
		c.renameInput.Blur()
		return *c, nil
	case tea.KeyEnter:
		id := c.renameID
		title := strings.TrimSpace(c.renameInput.Value())
		c.renameActive = false
		c.renameInput.Blur()
		if title == "" {
			return *c, nil
		}
		return *c, func() tea.Msg { return RenameConversationMsg{ID: id, Title: title} }
	}

	var cmd tea.Cmd
	c.renameInput, cmd = c.renameInput.Update(msg)
	return *c, cmd
}

func (c ConvList) View() string {
	innerWidth := c.width - 2
	innerHeight := c.height - 2
	if innerWidth < 0 {
		innerWidth = 0
	}
	if innerHeight < 0 {
		innerHeight = 0
	}

	title := fmt.Sprintf("[1] Conversations (%d)", len(c.conversations))

	var keybinds []border.Keybind
	if c.focused {
		keybinds = []border.Keybind{
			{Key: "↵", Label: " open"},
			{Key: "n", Label: "ew"},
			{Key: "r", Label: "ename"},
			{Key: "p", Label: "in"},
			{Key: "d", Label: "elete"},
			{Key: "/", Label: "filter"},
		}
	}

	content := c.renderContent(innerWidth, innerHeight)
	return border.RenderPanel(title, content, keybinds, c.width, c.height, c.focused)
}

func (c ConvList) renderContent(width, height int) string {
	if len(c.filtered) == 0 {
		if c.filterActive || c.filterText != "" {
			return c.renderFilterBar() + "\nNo matching conversations."
		}
		return "No conversations. Press n to start one."
	}

	var b strings.Builder

	availableRows := height
	if c.filterActive {
		b.WriteString(c.renderFilterBar())
		b.WriteString("\n")
		availableRows--
	}
	if c.renameActive {
		b.WriteString(c.renderRenameBar())
		b.WriteString("\n")
		availableRows--
	}

	if c.offset > 0 {
		b.WriteString(styles.TextDimStyle.Render("  ▲"))
		b.WriteString("\n")
		availableRows--
	}

	end := c.offset + availableRows
	if end > len(c.filtered) {
		end = len(c.filtered)
	}
	// Reserve a row for bottom scroll indicator if needed
	if end < len(c.filtered) && availableRows > 1 {
		end = c.offset + availableRows - 1
		if end > len(c.filtered) {
			end = len(c.filtered)
		}
	}

	for i := c.offset; i < end; i++ {
		cv := c.filtered[i]

		pin := " "
		if cv.Pinned {
			pin = "★"
		}
		when := text.RelativeTime(cv.UpdatedAt)
		titleW := width - colPinW - colTimeW - 1
		if titleW < 1 {
			titleW = 1
		}
		name := cv.Title
		if name == "" {
			name = cv.ID
		}

		var line string
		if i == c.selected {
			// Plain text so the background covers the entire row
			plainLine := fmt.Sprintf("%s %-*s %*s",
				text.PadRight(pin, colPinW-1),
				titleW, text.Truncate(name, titleW),
				colTimeW, when,
			)
			plainLine = text.Truncate(plainLine, width)
			line = styles.SelectedRowStyle.Width(width).Render(plainLine)
		} else {
			pinStyled := styles.PinMarkerStyle.Render(text.PadRight(pin, colPinW-1))
			line = fmt.Sprintf("%s %-*s %s",
				pinStyled,
				titleW, styles.TextPrimaryStyle.Render(text.Truncate(name, titleW)),
				styles.TextDimStyle.Render(fmt.Sprintf("%*s", colTimeW, when)),
			)
		}

		b.WriteString(line)
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	if end < len(c.filtered) {
		b.WriteString("\n")
		b.WriteString(styles.TextDimStyle.Render("  ▼"))
	}

	return b.String()
}

func (c *ConvList) SetSize(w, h int) {
	c.width = w
	c.height = h
	c.filterInput.Width = w - 6
	c.clampSelection()
}

func (c *ConvList) SetFocused(focused bool) {
	c.focused = focused
}

func (c ConvList) Selected() *api.Conversation {
	if len(c.filtered) == 0 || c.selected >= len(c.filtered) {
		return nil
	}
	cv := c.filtered[c.selected]
	return &cv
}

func (c *ConvList) applyFilter() {
	if c.filterText == "" {
		c.filtered = c.conversations
		return
	}
	query := strings.ToLower(c.filterText)
	filtered := make([]api.Conversation, 0, len(c.conversations))
	for _, cv := range c.conversations {
		if strings.Contains(strings.ToLower(cv.Title), query) ||
			strings.Contains(strings.ToLower(cv.ID), query) ||
			strings.Contains(strings.ToLower(cv.Status), query) {
			filtered = append(filtered, cv)
		}
	}
	c.filtered = filtered
}

func (c *ConvList) clampSelection() {
	if len(c.filtered) == 0 {
		c.selected = 0
		c.offset = 0
		return
	}
	if c.selected >= len(c.filtered) {
		c.selected = len(c.filtered) - 1
	}
	if c.selected < 0 {
		c.selected = 0
	}
	c.scrollToSelection()
}

func (c *ConvList) scrollToSelection() {
	visible := c.visibleRows()
	if visible <= 0 {
		return
	}
	if c.selected < c.offset {
		c.offset = c.selected
	}
	if c.selected >= c.offset+visible {
		c.offset = c.selected - visible + 1
	}
	maxOffset := len(c.filtered) - visible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if c.offset > maxOffset {
		c.offset = maxOffset
	}
	if c.offset < 0 {
		c.offset = 0
	}
}

func (c ConvList) visibleRows() int {
	rows := c.height - 2 // border top/bottom
	if c.filterActive {
		rows--
	}
	if c.renameActive {
		rows--
	}
	if c.offset > 0 {
		rows--
	}
	if c.offset+rows < len(c.filtered) {
		rows--
	}
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (c ConvList) renderFilterBar() string {
	return "/ " + c.filterInput.View()
}

func (c ConvList) renderRenameBar() string {
	return "✎ " + c.renameInput.View()
}

// FilterActive reports whether the filter input is currently active.
func (c ConvList) FilterActive() bool {
	return c.filterActive
}

// ConsumesKeys reports whether a text-entry mode should swallow keys that
// would otherwise be global shortcuts.
func (c ConvList) ConsumesKeys() bool {
	return c.filterActive || c.renameActive
}

// SelectByID navigates the list to the conversation with the given ID and
// returns true if found.
func (c *ConvList) SelectByID(id string) bool {
	for i, cv := range c.filtered {
		if cv.ID == id {
			c.selected = i
			c.scrollToSelection()
			return true
		}
	}
	return false
}
