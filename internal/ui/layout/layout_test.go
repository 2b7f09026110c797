package layout

import "testing"

func TestTooSmallWidth(t *testing.T) {
	l := Calculate(79, 24, true)
	if !l.TooSmall {
		t.Error("expected TooSmall for width 79")
	}
}

func TestTooSmallHeight(t *testing.T) {
	l := Calculate(80, 23, true)
	if !l.TooSmall {
		t.Error("expected TooSmall for height 23")
	}
}

func TestMinimumViable(t *testing.T) {
	l := Calculate(80, 24, false)
	if l.TooSmall {
		t.Error("80x24 should not be too small")
	}
	if l.TranscriptHeight+l.ComposerHeight+1 != 24 {
		t.Errorf("height mismatch: transcript(%d) + composer(%d) + status(1) = %d, want 24",
			l.TranscriptHeight, l.ComposerHeight, l.TranscriptHeight+l.ComposerHeight+1)
	}
	if l.ConvListWidth+l.TranscriptWidth != 80 {
		t.Errorf("width mismatch: left(%d) + right(%d) = %d, want 80",
			l.ConvListWidth, l.TranscriptWidth, l.ConvListWidth+l.TranscriptWidth)
	}
}

func TestStandard120x40(t *testing.T) {
	l := Calculate(120, 40, true)
	if l.TooSmall {
		t.Error("120x40 should not be too small")
	}

	if l.TranscriptHeight+l.MindmapHeight+l.ComposerHeight+1 != 40 {
		t.Errorf("height: transcript(%d) + mindmap(%d) + composer(%d) + 1 = %d, want 40",
			l.TranscriptHeight, l.MindmapHeight, l.ComposerHeight,
			l.TranscriptHeight+l.MindmapHeight+l.ComposerHeight+1)
	}
	if l.ConvListWidth+l.TranscriptWidth != 120 {
		t.Errorf("width: left(%d) + right(%d) = %d, want 120",
			l.ConvListWidth, l.TranscriptWidth, l.ConvListWidth+l.TranscriptWidth)
	}
	if l.ConvListHeight != 39 {
		t.Errorf("conv list height: got %d, want 39", l.ConvListHeight)
	}
	if l.StatusBarWidth != 120 {
		t.Errorf("status bar width: got %d, want 120", l.StatusBarWidth)
	}

	// Transcript should be ~60% of the area above the composer (34)
	aboveComposer := 34.0
	expectedTranscript := int(aboveComposer * 0.60)
	if l.TranscriptHeight != expectedTranscript {
		t.Errorf("transcript height: got %d, want %d", l.TranscriptHeight, expectedTranscript)
	}
	if l.MindmapWidth != l.TranscriptWidth {
		t.Error("mindmap width should equal transcript width")
	}
}

func TestMindmapHidden(t *testing.T) {
	l := Calculate(120, 40, false)
	if l.MindmapWidth != 0 || l.MindmapHeight != 0 {
		t.Errorf("hidden mindmap should have zero size, got %dx%d", l.MindmapWidth, l.MindmapHeight)
	}
	if l.TranscriptHeight+l.ComposerHeight+1 != 40 {
		t.Errorf("transcript should absorb mindmap rows: transcript(%d) + composer(%d) + 1 = %d, want 40",
			l.TranscriptHeight, l.ComposerHeight, l.TranscriptHeight+l.ComposerHeight+1)
	}
}

func TestConvListMinimumWidth(t *testing.T) {
	l := Calculate(80, 24, false)
	if l.ConvListWidth < MinConvListWidth {
		t.Errorf("conv list width: got %d, want at least %d", l.ConvListWidth, MinConvListWidth)
	}
}

func TestComposerFixedRows(t *testing.T) {
	for _, h := range []int{24, 40, 60} {
		l := Calculate(120, h, true)
		if l.ComposerHeight != ComposerRows {
			t.Errorf("composer height at term height %d: got %d, want %d", h, l.ComposerHeight, ComposerRows)
		}
	}
}
