package panels

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/awilkes/kbchat/internal/api"
	"github.com/awilkes/kbchat/internal/ui/styles"
)

const flashDurationVal = 5 * time.Second

var statusSpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Version is set via -ldflags at build time. Falls back to "dev".
var Version = "dev"

// FlashDuration returns how long the status bar flash is shown.
func FlashDuration() time.Duration { return flashDurationVal }

// FlashLevel controls the icon and color of a status bar flash message.
type FlashLevel int

const (
	FlashInfo    FlashLevel = iota // blue ●
	FlashSuccess                   // green ✓
	FlashWarning                   // yellow ⚠
	FlashError                     // red ✗
)

type StatusBar struct {
	width      int
	convTitle  string
	mode       string
	graph      *api.GraphStatus
	streaming  bool
	flash      string
	flashLevel FlashLevel
	flashUntil time.Time
	tickStep   int
}

func NewStatusBar() StatusBar {
	return StatusBar{}
}

func (s StatusBar) View() string {
	sep := styles.TextDimStyle.Render(" │ ")

	appName := "kbchat " + Version
	if s.streaming {
		frame := statusSpinnerFrames[s.tickStep%len(statusSpinnerFrames)]
		spinner := lipgloss.NewStyle().Foreground(styles.StatusRunning).Render(frame)
		appName = spinner + " " + appName
	}
	left := " " + styles.TextSecondaryStyle.Render(appName)

	if s.convTitle != "" {
		left += sep + styles.TextPrimaryStyle.Render(s.convTitle)
	}
	if s.mode != "" {
		left += sep + styles.TextSecondaryStyle.Render("mode: "+s.mode)
	}
	left += sep + s.renderGraph()

	if s.flash != "" && time.Now().Before(s.flashUntil) {
		var icon string
		var color lipgloss.TerminalColor
		switch s.flashLevel {
		case FlashSuccess:
			icon, color = "✓", styles.StatusSuccess
		case FlashError:
			icon, color = "✗", styles.StatusError
		case FlashWarning:
			icon, color = "⚠", styles.StatusWarning
		default: // FlashInfo
			icon, color = "●", styles.StatusRunning
		}
		flashStr := lipgloss.NewStyle().Foreground(color).Bold(true).Render(icon + " " + s.flash)
		left += sep + flashStr
	}

	right := styles.TextSecondaryStyle.Render("?:help") + " "

	leftWidth := lipgloss.Width(left)
	rightWidth := lipgloss.Width(right)
	gap := s.width - leftWidth - rightWidth
	if gap < 1 {
		gap = 1
	}

	return left + strings.Repeat(" ", gap) + right
}

func (s StatusBar) renderGraph() string {
	if s.graph == nil {
		return styles.TextDimStyle.Render("graph: unknown")
	}
	if s.graph.Ready {
		return lipgloss.NewStyle().Foreground(styles.StatusSuccess).Render("graph ready")
	}
	done := s.graph.Completed
	total := s.graph.Total
	label := fmt.Sprintf("indexing %d/%d", done, total)
	if s.graph.Failed > 0 {
		label += fmt.Sprintf(" (%d failed)", s.graph.Failed)
	}
	return lipgloss.NewStyle().Foreground(styles.StatusWarning).Render(label)
}

// SetConversation updates the active conversation title shown in the bar.
func (s *StatusBar) SetConversation(title string) {
	s.convTitle = title
}

// SetMode updates the displayed query mode.
func (s *StatusBar) SetMode(mode string) {
	s.mode = mode
}

// SetGraph updates the knowledge graph indexing state.
func (s *StatusBar) SetGraph(status *api.GraphStatus) {
	s.graph = status
}

// SetStreaming toggles the streaming spinner.
func (s *StatusBar) SetStreaming(streaming bool) {
	s.streaming = streaming
}

func (s *StatusBar) SetFlash(msg string) {
	s.SetFlashWithLevel(msg, FlashInfo)
}

func (s *StatusBar) SetFlashWithLevel(msg string, level FlashLevel) {
	s.flash = msg
	s.flashLevel = level
	s.flashUntil = time.Now().Add(flashDurationVal)
}

func (s *StatusBar) ClearFlash() {
	s.flash = ""
	s.flashLevel = FlashInfo
	s.flashUntil = time.Time{}
}

func (s *StatusBar) SetSize(w int) {
	s.width = w
}

// Tick advances the animation frame for the status bar spinner.
func (s *StatusBar) Tick() {
	s.tickStep++
}
