package styles

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/lipgloss"
)

// themeFile is the on-disk shape of a theme override. Every field is
// optional; absent entries keep the built-in color.
type themeFile struct {
	Colors map[string]colorPair `toml:"colors"`
}

type colorPair struct {
	Light string `toml:"light"`
	Dark  string `toml:"dark"`
}

// slots maps theme keys to the color tokens they override.
var slots = map[string]*lipgloss.AdaptiveColor{
	"border_focused":   &BorderFocused,
	"border_unfocused": &BorderUnfocused,
	"title":            &TitleText,
	"keybind_key":      &KeybindKey,
	"keybind_label":    &KeybindLabel,
	"text_primary":     &TextPrimary,
	"text_secondary":   &TextSecondary,
	"text_dim":         &TextDim,
	"status_running":   &StatusRunning,
	"status_success":   &StatusSuccess,
	"status_error":     &StatusError,
	"status_warning":   &StatusWarning,
	"status_pending":   &StatusPending,
	"selected_row_bg":  &SelectedRowBg,
	"query_prompt":     &QueryPrompt,
	"tool_name":        &ToolName,
	"pin_marker":       &PinMarker,
	"selection_bg":     &SelectionBg,
}

// LoadTheme applies the named theme's color overrides. The built-in
// "default" theme is a no-op. Other names resolve to
// ~/.config/kbchat/themes/<name>.toml.
func LoadTheme(name string) error {
	if name == "" || name == "default" {
		return nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	return LoadThemeFile(filepath.Join(dir, "kbchat", "themes", name+".toml"))
}

// LoadThemeFile applies color overrides from a theme file at path.
func LoadThemeFile(path string) error {
	var tf themeFile
	if _, err := toml.DecodeFile(path, &tf); err != nil {
		return fmt.Errorf("load theme %s: %w", path, err)
	}
	for key, pair := range tf.Colors {
		slot, ok := slots[key]
		if !ok {
			return fmt.Errorf("theme %s: unknown color %q", path, key)
		}
		if pair.Light != "" {
			slot.Light = pair.Light
		}
		if pair.Dark != "" {
			slot.Dark = pair.Dark
		}
	}
	rebuildStyles()
	return nil
}

// rebuildStyles refreshes the derived style values after token overrides.
func rebuildStyles() {
	TextPrimaryStyle = lipgloss.NewStyle().Foreground(TextPrimary)
	TextSecondaryStyle = lipgloss.NewStyle().Foreground(TextSecondary)
	TextDimStyle = lipgloss.NewStyle().Foreground(TextDim)
	TitleStyle = lipgloss.NewStyle().Foreground(TitleText).Bold(true)
	SelectedRowStyle = lipgloss.NewStyle().Background(SelectedRowBg)
	QueryPromptStyle = lipgloss.NewStyle().Foreground(QueryPrompt).Bold(true)
	ToolNameStyle = lipgloss.NewStyle().Foreground(ToolName)
	PinMarkerStyle = lipgloss.NewStyle().Foreground(PinMarker)
	SelectionStyle = lipgloss.NewStyle().Background(SelectionBg)
}
