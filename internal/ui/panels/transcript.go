package panels

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/awilkes/kbchat/internal/chat"
	"github.com/awilkes/kbchat/internal/ui/border"
	"github.com/awilkes/kbchat/internal/ui/selection"
	"github.com/awilkes/kbchat/internal/ui/styles"
	"github.com/awilkes/kbchat/internal/ui/text"
)

const gTimeout = 300 * time.Millisecond

var transcriptSpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Block is one query/answer exchange rendered in the transcript.
type Block struct {
	Query  string
	Items  []chat.Item
	Active bool
}

type Transcript struct {
	viewport viewport.Model
	width    int
	height   int
	blocks   []Block
	title    string
	follow   bool
	focused  bool
	gPending bool
	tickStep int

	// Search state
	searching    bool
	searchInput  textinput.Model
	searchQuery  string
	matchIndices []int
	currentMatch int

	sel selection.Selection

	// Cached plain lines for search and yanking
	plainLines []string

	showDetail bool
}

func NewTranscript() Transcript {
	vp := viewport.New(0, 0)
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "Search..."
	ti.CharLimit = 256
	return Transcript{viewport: vp, follow: true, searchInput: ti, showDetail: true}
}

// Lines returns the plain transcript lines. Implements selection.LinesProvider.
func (t Transcript) Lines() []string {
	return t.plainLines
}

// SetBlocks replaces the rendered exchanges. The last block may be Active,
// meaning its answer is still streaming.
func (t *Transcript) SetBlocks(blocks []Block) {
	t.blocks = blocks
	t.rebuildLines()
	t.refreshContent()
	if t.searchQuery != "" {
		t.recomputeMatches()
	}
}

// SetTitle sets the conversation title shown in the panel border.
func (t *Transcript) SetTitle(title string) {
	t.title = title
}

// Reset clears all transcript state for a conversation switch.
func (t *Transcript) Reset() {
	t.blocks = nil
	t.follow = true
	t.searching = false
	t.searchQuery = ""
	t.matchIndices = nil
	t.sel.Reset()
	t.rebuildLines()
	t.refreshContent()
}

func (t Transcript) Update(msg tea.Msg) (Transcript, tea.Cmd) {
	switch msg := msg.(type) {
	case AnimTickMsg:
		t.tickStep++
		if t.hasActiveBlock() {
			t.rebuildLines()
			t.refreshContent()
		}
		return t, nil
	case GTimerExpiredMsg:
		t.gPending = false
		return t, nil
	case tea.KeyMsg:
		if t.searching {
			return t.updateSearch(msg)
		}

		if t.sel.Active() {
			yank, cmd := t.sel.UpdateCopyMode(msg, t, &t.viewport, &t.gPending, GTimerExpiredMsg{})
			t.refreshContent()
			if yank != "" {
				return t, func() tea.Msg { return YankMsg{Text: yank} }
			}
			return t, cmd
		}

		if t.searchQuery != "" {
			switch msg.String() {
			case "n":
				t.nextMatch()
				return t, nil
			case "N":
				t.prevMatch()
				return t, nil
			case "esc":
				t.searchQuery = ""
				t.matchIndices = nil
				t.resizeViewport()
				t.refreshContent()
				return t, nil
			}
		}

		switch msg.String() {
		case "G":
			t.follow = true
			t.viewport.GotoBottom()
			return t, nil
		case "g":
			if t.gPending {
				t.gPending = false
				t.follow = false
				t.viewport.GotoTop()
				return t, nil
			}
			t.gPending = true
			t.follow = false
			return t, tea.Tick(gTimeout, func(time.Time) tea.Msg {
				return GTimerExpiredMsg{}
			})
		case "/":
			t.searching = true
			t.follow = false
			t.searchInput.SetValue("")
			t.searchInput.Focus()
			t.resizeViewport()
			return t, textinput.Blink
		case "y":
			t.follow = false
			t.sel.EnterCopyMode(t, t.viewport.YOffset, t.viewport.Height)
			t.resizeViewport()
			t.refreshContent()
			return t, nil
		case "j", "down":
			t.follow = false
			t.viewport.SetYOffset(t.viewport.YOffset + 1)
			return t, nil
		case "k", "up":
			t.follow = false
			offset := t.viewport.YOffset - 1
			if offset < 0 {
				offset = 0
			}
			t.viewport.SetYOffset(offset)
			return t, nil
		}
	}

	var cmd tea.Cmd
	t.viewport, cmd = t.viewport.Update(msg)
	return t, cmd
}

func (t *Transcript) updateSearch(msg tea.KeyMsg) (Transcript, tea.Cmd) {
	switch msg.String() {
	case "esc":
		t.searching = false
		t.searchQuery = ""
		t.matchIndices = nil
		t.currentMatch = 0
		t.searchInput.Blur()
		t.resizeViewport()
		t.refreshContent()
		return *t, nil
	case "enter":
		t.searching = false
		t.searchQuery = t.searchInput.Value()
		t.searchInput.Blur()
		t.resizeViewport()
		t.recomputeMatches()
		if len(t.matchIndices) > 0 {
			t.currentMatch = 0
			t.jumpToMatch()
		}
		t.refreshContent()
		return *t, nil
	}

	var cmd tea.Cmd
	t.searchInput, cmd = t.searchInput.Update(msg)
	t.searchQuery = t.searchInput.Value()
	t.recomputeMatches()
	t.refreshContent()
	return *t, cmd
}

func (t Transcript) View() string {
	label := "Transcript"
	if t.title != "" {
		label = "Transcript: " + t.title
	}
	title := "[2] " + label

	var keybinds []border.Keybind
	if t.focused {
		if t.sel.Active() {
			keybinds = []border.Keybind{
				{Key: "y", Label: "ank"},
				{Key: "j", Label: "/k select"},
				{Key: "Esc", Label: " cancel"},
			}
		} else {
			keybinds = []border.Keybind{
				{Key: "y", Label: "ank/copy"},
				{Key: "G", Label: "bottom"},
				{Key: "g", Label: "g top"},
				{Key: "/", Label: "search"},
			}
			if !t.viewport.AtBottom() && !t.follow {
				keybinds = append(keybinds, border.Keybind{Key: "↓", Label: " new output"})
			}
		}
	}

	content := t.viewport.View()

	if t.sel.Active() {
		selStart, selEnd := t.sel.CopySelectionRange()
		count := selEnd - selStart + 1
		status := styles.TextSecondaryStyle.Render(
			fmt.Sprintf("  VISUAL: %d line(s) selected", count),
		) + styles.TextDimStyle.Render(" (y yank, Esc cancel)")
		content += "\n" + status
	} else if t.searching {
		content += "\n" + t.searchInput.View()
	} else if t.searchQuery != "" {
		total := len(t.matchIndices)
		var status string
		if total == 0 {
			status = styles.TextDimStyle.Render("  No matches")
		} else {
			status = styles.TextSecondaryStyle.Render(
				fmt.Sprintf("  Match %d/%d", t.currentMatch+1, total),
			) + styles.TextDimStyle.Render(" (n/N navigate, / edit, Esc clear)")
		}
		content += "\n" + status
	}

	return border.RenderPanel(title, content, keybinds, t.width, t.height, t.focused)
}

func (t *Transcript) SetSize(w, h int) {
	t.width = w
	t.height = h
	t.resizeViewport()
	t.rebuildLines()
	t.refreshContent()
}

func (t *Transcript) SetFocused(focused bool) {
	t.focused = focused
}

// SetShowDetail toggles tool call argument and progress rendering.
func (t *Transcript) SetShowDetail(show bool) {
	t.showDetail = show
	t.rebuildLines()
	t.refreshContent()
}

// ConsumesKeys reports whether the transcript is in a mode that should
// consume all key events.
func (t Transcript) ConsumesKeys() bool {
	return t.searching || t.searchQuery != "" || t.sel.Active()
}

func (t *Transcript) resizeViewport() {
	innerW := t.width - 2
	innerH := t.height - 2
	if t.searching || t.searchQuery != "" || t.sel.Active() {
		innerH-- // search bar / status row
	}
	if innerW < 0 {
		innerW = 0
	}
	if innerH < 0 {
		innerH = 0
	}
	t.viewport.Width = innerW
	t.viewport.Height = innerH
}

func (t *Transcript) refreshContent() {
	t.viewport.SetContent(t.renderContent())
	if t.follow {
		t.viewport.GotoBottom()
	}
}

func (t Transcript) hasActiveBlock() bool {
	return len(t.blocks) > 0 && t.blocks[len(t.blocks)-1].Active
}

// rebuildLines flattens the blocks into plain display lines. Styling is
// applied per line in renderContent so the plain lines stay yankable.
func (t *Transcript) rebuildLines() {
	innerW := t.width - 2
	if innerW < 1 {
		innerW = 1
	}

	var lines []string
	for bi, blk := range t.blocks {
		if bi > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, text.WrapText("❯ "+blk.Query, innerW)...)
		lines = append(lines, "")
		for _, item := range blk.Items {
			switch it := item.(type) {
			case *chat.TextSegment:
				if it.Content == "" {
					continue
				}
				lines = append(lines, text.WrapText(it.Content, innerW)...)
			case *chat.ToolInvocation:
				lines = append(lines, t.invocationLines(*it, innerW)...)
			}
		}
		if blk.Active {
			if len(lines) > 0 && !strings.HasPrefix(lines[len(lines)-1], "❯") {
				lines[len(lines)-1] += " ▍"
			} else {
				lines = append(lines, "▍")
			}
		}
	}
	t.plainLines = lines
}

func (t Transcript) invocationLines(inv chat.ToolInvocation, width int) []string {
	icon := styles.InvocationIcon(inv.Status)
	if inv.Status == chat.StatusPending {
		icon = transcriptSpinnerFrames[t.tickStep%len(transcriptSpinnerFrames)]
	}
	head := fmt.Sprintf("%s %s", icon, inv.Name)
	if t.showDetail {
		if args := text.FormatArguments(inv.Arguments); args != "" {
			head += " (" + args + ")"
		}
	}
	lines := text.WrapText(head, width)

	if t.showDetail && inv.Status == chat.StatusPending && inv.Progress != nil {
		prog := "  " + text.FormatProgress(inv.Progress.Message, inv.Progress.Percent)
		lines = append(lines, text.WrapText(prog, width)...)
	}
	if inv.Status == chat.StatusError && inv.ErrorMessage != "" {
		lines = append(lines, text.WrapText("  "+inv.ErrorMessage, width)...)
	}
	return lines
}

// renderContent styles the plain lines and applies search or selection
// highlighting.
func (t *Transcript) renderContent() string {
	if len(t.plainLines) == 0 {
		return styles.TextDimStyle.Render("No messages yet. Type a query below.")
	}

	matchSet := make(map[int]bool, len(t.matchIndices))
	for _, idx := range t.matchIndices {
		matchSet[idx] = true
	}
	currentMatchLine := -1
	if len(t.matchIndices) > 0 && t.currentMatch >= 0 && t.currentMatch < len(t.matchIndices) {
		currentMatchLine = t.matchIndices[t.currentMatch]
	}

	styled := make([]string, len(t.plainLines))
	for i, line := range t.plainLines {
		if t.searchQuery != "" && matchSet[i] {
			styled[i] = highlightMatches(line, t.searchQuery, i == currentMatchLine)
			continue
		}
		styled[i] = styleTranscriptLine(line)
	}

	if t.sel.Active() {
		selStart, selEnd := t.sel.CopySelectionRange()
		for i := selStart; i <= selEnd && i < len(styled); i++ {
			if i >= 0 {
				styled[i] = styles.SelectionStyle.Render(t.plainLines[i])
			}
		}
	}

	return strings.Join(styled, "\n")
}

// styleTranscriptLine picks a style from the line's leading glyph.
func styleTranscriptLine(line string) string {
	switch {
	case strings.HasPrefix(line, "❯"):
		return styles.QueryPromptStyle.Render(line)
	case strings.HasPrefix(line, "✓"):
		return styles.TextSecondaryStyle.Render("✓") + styles.ToolNameStyle.Render(line[len("✓"):])
	case strings.HasPrefix(line, "✗"):
		return styles.TextSecondaryStyle.Render("✗") + styles.ToolNameStyle.Render(line[len("✗"):])
	case strings.HasPrefix(line, "ERROR: "):
		return styles.TextSecondaryStyle.Render(line)
	default:
		for _, frame := range transcriptSpinnerFrames {
			if strings.HasPrefix(line, frame) {
				return styles.ToolNameStyle.Render(line)
			}
		}
		return styles.TextPrimaryStyle.Render(line)
	}
}

// highlightMatches wraps occurrences of query in line with highlight styling.
// Uses case-insensitive matching with literal string comparison.
func highlightMatches(line, query string, isCurrent bool) string {
	if query == "" {
		return line
	}
	lower := strings.ToLower(line)
	lowerQ := strings.ToLower(query)

	style := styles.SearchHighlightStyle
	if isCurrent {
		style = styles.CurrentMatchStyle
	}

	var b strings.Builder
	start := 0
	qLen := len(lowerQ)
	for {
		idx := strings.Index(lower[start:], lowerQ)
		if idx < 0 {
			b.WriteString(line[start:])
			break
		}
		b.WriteString(line[start : start+idx])
		b.WriteString(style.Render(line[start+idx : start+idx+qLen]))
		start += idx + qLen
	}
	return b.String()
}

func (t *Transcript) recomputeMatches() {
	t.matchIndices = nil
	t.currentMatch = 0
	if t.searchQuery == "" {
		return
	}
	query := strings.ToLower(t.searchQuery)
	for i, line := range t.plainLines {
		if strings.Contains(strings.ToLower(line), query) {
			t.matchIndices = append(t.matchIndices, i)
		}
	}
}

func (t *Transcript) nextMatch() {
	if len(t.matchIndices) == 0 {
		return
	}
	t.currentMatch = (t.currentMatch + 1) % len(t.matchIndices)
	t.jumpToMatch()
}

func (t *Transcript) prevMatch() {
	if len(t.matchIndices) == 0 {
		return
	}
	t.currentMatch = (t.currentMatch - 1 + len(t.matchIndices)) % len(t.matchIndices)
	t.jumpToMatch()
}

func (t *Transcript) jumpToMatch() {
	if len(t.matchIndices) == 0 {
		return
	}
	lineIdx := t.matchIndices[t.currentMatch]
	t.follow = false
	t.viewport.SetYOffset(lineIdx)
	t.refreshContent()
}
