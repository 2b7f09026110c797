package layout

// Layout holds the computed dimensions for all panels.
type Layout struct {
	TermWidth  int
	TermHeight int
	TooSmall   bool

	// Left column
	ConvListWidth  int
	ConvListHeight int

	// Right column, top to bottom
	TranscriptWidth  int
	TranscriptHeight int
	MindmapWidth     int
	MindmapHeight    int
	ComposerWidth    int
	ComposerHeight   int

	// Status bar
	StatusBarWidth int
}

const (
	MinWidth  = 80
	MinHeight = 24

	LeftColWeight    = 0.28
	MinConvListWidth = 24
	ComposerRows     = 5

	TranscriptWeight = 0.60
)

// Calculate computes panel dimensions from terminal size.
// Subtracts 1 row for the status bar before splitting. When showMindmap
// is false the transcript takes the mindmap's share of the right column.
// Returns Layout with TooSmall=true if under minimum.
func Calculate(termWidth, termHeight int, showMindmap bool) Layout {
	l := Layout{
		TermWidth:  termWidth,
		TermHeight: termHeight,
	}

	if termWidth < MinWidth || termHeight < MinHeight {
		l.TooSmall = true
		return l
	}

	usableHeight := termHeight - 1 // status bar

	convListWidth := int(float64(termWidth) * LeftColWeight)
	if convListWidth < MinConvListWidth {
		convListWidth = MinConvListWidth
	}
	rightWidth := termWidth - convListWidth

	l.ConvListWidth = convListWidth
	l.ConvListHeight = usableHeight

	upperHeight := usableHeight - ComposerRows
	transcriptHeight := upperHeight
	mindmapHeight := 0
	if showMindmap {
		transcriptHeight = int(float64(upperHeight) * TranscriptWeight)
		mindmapHeight = upperHeight - transcriptHeight
	}

	l.TranscriptWidth = rightWidth
	l.TranscriptHeight = transcriptHeight
	if showMindmap {
		l.MindmapWidth = rightWidth
		l.MindmapHeight = mindmapHeight
	}
	l.ComposerWidth = rightWidth
	l.ComposerHeight = ComposerRows

	l.StatusBarWidth = termWidth

	return l
}
