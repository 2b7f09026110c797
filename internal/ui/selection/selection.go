// Package selection implements the line-wise visual copy mode shared by the
// scrollback panels. A panel exposes its plain text through LinesProvider;
// the selection tracks an anchor and a cursor over those lines and yields
// the selected range as yankable text.
package selection

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const gTimeout = 300 * time.Millisecond

// LinesProvider supplies the unstyled lines the selection operates on.
type LinesProvider interface {
	Lines() []string
}

// Selection is the copy-mode state for one panel. The zero value is an
// inactive selection.
type Selection struct {
	active bool
	anchor int
	cursor int
}

// Active reports whether copy mode is engaged.
func (s *Selection) Active() bool { return s.active }

// Reset clears all selection state.
func (s *Selection) Reset() { *s = Selection{} }

// EnterCopyMode engages copy mode with both anchor and cursor on the line
// at the vertical center of the viewport. No-op when there are no lines.
func (s *Selection) EnterCopyMode(lines LinesProvider, viewportYOffset, viewportHeight int) {
	all := lines.Lines()
	if len(all) == 0 {
		return
	}
	center := viewportYOffset + viewportHeight/2
	if center >= len(all) {
		center = len(all) - 1
	}
	if center < 0 {
		center = 0
	}
	s.active = true
	s.anchor = center
	s.cursor = center
}

// UpdateCopyMode handles one key event while copy mode is engaged. A second
// "y" yanks and returns the selected text; esc cancels. j/k/G/gg move the
// cursor, scrolling the viewport when it leaves the visible window. The
// caller owns the gg double-tap flag; gTimerMsg is delivered when the tap
// window expires.
func (s *Selection) UpdateCopyMode(
	msg tea.KeyMsg,
	lines LinesProvider,
	vp *viewport.Model,
	gPending *bool,
	gTimerMsg tea.Msg,
) (yankText string, cmd tea.Cmd) {
	lineCount := len(lines.Lines())
	switch msg.String() {
	case "esc":
		s.active = false
	case "y":
		yankText = s.YankSelection(lines)
		s.active = false
	case "j", "down":
		if s.cursor < lineCount-1 {
			s.cursor++
			if s.cursor >= vp.YOffset+vp.Height {
				vp.SetYOffset(s.cursor - vp.Height + 1)
			}
		}
	case "k", "up":
		if s.cursor > 0 {
			s.cursor--
			if s.cursor < vp.YOffset {
				vp.SetYOffset(s.cursor)
			}
		}
	case "G":
		s.cursor = lineCount - 1
		vp.GotoBottom()
	case "g":
		if *gPending {
			*gPending = false
			s.cursor = 0
			vp.GotoTop()
		} else {
			*gPending = true
			expired := gTimerMsg
			cmd = tea.Tick(gTimeout, func(time.Time) tea.Msg {
				return expired
			})
		}
	}
	return
}

// YankSelection joins the selected lines with newlines.
func (s *Selection) YankSelection(lines LinesProvider) string {
	all := lines.Lines()
	if len(all) == 0 {
		return ""
	}
	start, end := s.CopySelectionRange()
	if start < 0 {
		start = 0
	}
	if end >= len(all) {
		end = len(all) - 1
	}
	return strings.Join(all[start:end+1], "\n")
}

// CopySelectionRange returns the selection as normalized line indices with
// start <= end.
func (s *Selection) CopySelectionRange() (start, end int) {
	start, end = s.anchor, s.cursor
	if start > end {
		start, end = end, start
	}
	return
}
