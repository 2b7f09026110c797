package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/awilkes/kbchat/internal/chat"
)

// Semantic colors as AdaptiveColor{Light, Dark} pairs.
var (
	BorderFocused   = lipgloss.AdaptiveColor{Light: "#2e5cb8", Dark: "#7aa2f7"}
	BorderUnfocused = lipgloss.AdaptiveColor{Light: "#c0c0c0", Dark: "#3b4261"}
	TitleText       = lipgloss.AdaptiveColor{Light: "#1a1b26", Dark: "#c0caf5"}
	KeybindKey      = lipgloss.AdaptiveColor{Light: "#8a6200", Dark: "#e0af68"}
	KeybindLabel    = lipgloss.AdaptiveColor{Light: "#8890a8", Dark: "#565f89"}
	TextPrimary     = lipgloss.AdaptiveColor{Light: "#1a1b26", Dark: "#c0caf5"}
	TextSecondary   = lipgloss.AdaptiveColor{Light: "#8890a8", Dark: "#565f89"}
	TextDim         = lipgloss.AdaptiveColor{Light: "#b0b0b0", Dark: "#3b4261"}

	StatusRunning = lipgloss.AdaptiveColor{Light: "#0969da", Dark: "#7dcfff"}
	StatusSuccess = lipgloss.AdaptiveColor{Light: "#1a7f37", Dark: "#9ece6a"}
	StatusError   = lipgloss.AdaptiveColor{Light: "#cf222e", Dark: "#f7768e"}
	StatusWarning = lipgloss.AdaptiveColor{Light: "#8a6200", Dark: "#e0af68"}
	StatusPending = lipgloss.AdaptiveColor{Light: "#8890a8", Dark: "#565f89"}

	SelectedRowBg = lipgloss.AdaptiveColor{Light: "#e0e0e0", Dark: "#292e42"}

	QueryPrompt = lipgloss.AdaptiveColor{Light: "#8250df", Dark: "#bb9af7"}
	ToolName    = lipgloss.AdaptiveColor{Light: "#0969da", Dark: "#7dcfff"}
	PinMarker   = lipgloss.AdaptiveColor{Light: "#8a6200", Dark: "#e0af68"}

	SelectionBg = lipgloss.AdaptiveColor{Light: "#c8d8f0", Dark: "#283457"}
)

// InvocationColor returns the status color for a tool invocation.
func InvocationColor(status chat.Status) lipgloss.AdaptiveColor {
	switch status {
	case chat.StatusPending:
		return StatusRunning
	case chat.StatusSuccess:
		return StatusSuccess
	case chat.StatusError:
		return StatusError
	default:
		return TextDim
	}
}

// InvocationIcon returns the glyph for a resolved invocation. Pending
// invocations animate, so callers substitute a spinner frame instead.
func InvocationIcon(status chat.Status) string {
	switch status {
	case chat.StatusSuccess:
		return "✓"
	case chat.StatusError:
		return "✗"
	default:
		return "·"
	}
}
