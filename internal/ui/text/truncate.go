package text

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Truncate shortens s to at most maxWidth columns, ending in "…" when
// anything was cut. Widths are measured ANSI-aware so styled strings are
// neither miscounted nor broken mid-escape.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if ansi.StringWidth(s) <= maxWidth {
		return s
	}
	return ansi.Truncate(s, maxWidth, "…")
}

// WrapText word-wraps s into lines of at most width columns. Embedded
// newlines start fresh paragraphs; a single word wider than width is
// truncated rather than split.
func WrapText(s string, width int) []string {
	if width <= 0 {
		return []string{s}
	}
	if s == "" {
		return []string{""}
	}
	var out []string
	for _, para := range strings.Split(s, "\n") {
		out = append(out, wrapParagraph(para, width)...)
	}
	return out
}

func wrapParagraph(s string, width int) []string {
	if ansi.StringWidth(s) <= width {
		return []string{s}
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	var line string
	lineW := 0
	for _, word := range words {
		w := ansi.StringWidth(word)
		if w > width {
			word = ansi.Truncate(word, width, "…")
			w = width
		}
		switch {
		case line == "":
			line, lineW = word, w
		case lineW+1+w <= width:
			line += " " + word
			lineW += 1 + w
		default:
			lines = append(lines, line)
			line, lineW = word, w
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// PadRight extends s with spaces to exactly width columns. Wider strings
// come back unchanged.
func PadRight(s string, width int) string {
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
