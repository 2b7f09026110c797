package border

import (
	"strings"
)

// RenderPanel assembles a full bordered panel: a titled top edge, content
// rows wrapped in side edges, and a bottom edge carrying keybind hints when
// the panel is focused. Content is cropped or padded to exactly height-2
// rows of width-2 columns.
func RenderPanel(title string, content string, keybinds []Keybind,
	width, height int, focused bool) string {

	if height < 2 || width < 2 {
		return ""
	}

	innerHeight := height - 2
	innerWidth := width - 2

	var lines []string
	if content != "" {
		lines = strings.Split(content, "\n")
	}
	if len(lines) > innerHeight {
		lines = lines[:innerHeight]
	}
	for len(lines) < innerHeight {
		lines = append(lines, strings.Repeat(" ", innerWidth))
	}

	return renderTop(title, width, focused) + "\n" +
		renderSides(strings.Join(lines, "\n"), width, focused) + "\n" +
		renderBottom(keybinds, width, focused)
}
