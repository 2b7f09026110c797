package chat

import (
	"strings"
	"testing"

	"github.com/awilkes/kbchat/internal/stream"
)

func applyAll(s *Session, events ...stream.Event) {
	for _, ev := range events {
		s.Apply(ev)
	}
}

func textDelta(text string) stream.Event {
	return stream.Event{Kind: stream.KindTextDelta, Text: text}
}

func toolCall(name string) stream.Event {
	return stream.Event{Kind: stream.KindToolCall, ToolName: name, Arguments: map[string]any{}}
}

func TestTextDeltasGrowTrailingSegment(t *testing.T) {
	s := NewSession(nil)
	applyAll(s, textDelta("Hello"), textDelta(", "), textDelta("world"))

	items := s.Items()
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	seg, ok := items[0].(*TextSegment)
	if !ok {
		t.Fatalf("expected *TextSegment, got %T", items[0])
	}
	if seg.Content != "Hello, world" {
		t.Errorf("segment content = %q, want %q", seg.Content, "Hello, world")
	}
	if s.Text() != "Hello, world" {
		t.Errorf("accumulator = %q, want %q", s.Text(), "Hello, world")
	}
}

func TestToolCallSplitsTextSegments(t *testing.T) {
	s := NewSession(nil)
	applyAll(s,
		textDelta("Searching"),
		toolCall("vector_search"),
		textDelta("Found it"),
	)

	items := s.Items()
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if seg, ok := items[0].(*TextSegment); !ok || seg.Content != "Searching" {
		t.Errorf("items[0] = %#v, want text %q", items[0], "Searching")
	}
	inv, ok := items[1].(*ToolInvocation)
	if !ok {
		t.Fatalf("items[1] = %T, want *ToolInvocation", items[1])
	}
	if inv.Name != "vector_search" || inv.Status != StatusPending {
		t.Errorf("invocation = %+v, want pending vector_search", inv)
	}
	if seg, ok := items[2].(*TextSegment); !ok || seg.Content != "Found it" {
		t.Errorf("items[2] = %#v, want text %q", items[2], "Found it")
	}
}

func TestInterleavedToolLifecycle(t *testing.T) {
	s := NewSession(nil)
	applyAll(s,
		textDelta("Let me look that up. "),
		toolCall("graph_query"),
		stream.Event{Kind: stream.KindToolProgress, ToolName: "graph_query",
			Progress: &stream.Progress{Current: 2, Total: 4, Message: "traversing"}},
		stream.Event{Kind: stream.KindToolResult, ToolName: "graph_query",
			Arguments: map[string]any{"depth": float64(2)},
			Result:    map[string]any{"status": "success", "message": "ok"}},
		textDelta("Here is what I found."),
	)

	items := s.Items()
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	inv := items[1].(*ToolInvocation)
	if inv.Status != StatusSuccess {
		t.Errorf("status = %v, want success", inv.Status)
	}
	if inv.Progress != nil {
		t.Errorf("progress should be cleared after the terminal result, got %+v", inv.Progress)
	}
	if inv.Result == nil || inv.Result["status"] != "success" {
		t.Errorf("result = %+v, want status success", inv.Result)
	}
	if got := inv.Arguments["depth"]; got != float64(2) {
		t.Errorf("arguments not refined from the result record: %+v", inv.Arguments)
	}
}

func TestProgressUpdatesPendingInvocation(t *testing.T) {
	s := NewSession(nil)
	applyAll(s,
		toolCall("index_docs"),
		stream.Event{Kind: stream.KindToolProgress, ToolName: "index_docs",
			Progress: &stream.Progress{Current: 1, Total: 5, Message: "chunking"}},
		stream.Event{Kind: stream.KindToolProgress, ToolName: "index_docs",
			Progress: &stream.Progress{Current: 3, Total: 5, Message: "embedding"}},
	)

	inv := s.Items()[0].(*ToolInvocation)
	if inv.Status != StatusPending {
		t.Fatalf("status = %v, want pending", inv.Status)
	}
	if inv.Progress == nil {
		t.Fatal("expected progress")
	}
	if inv.Progress.Current != 3 || inv.Progress.Message != "embedding" {
		t.Errorf("progress = %+v, want latest update", inv.Progress)
	}
	if inv.Progress.Percent != 60 {
		t.Errorf("percent = %v, want 60", inv.Progress.Percent)
	}
}

func TestProgressPrefersServerPercentage(t *testing.T) {
	s := NewSession(nil)
	pct := 42.5
	applyAll(s,
		toolCall("index_docs"),
		stream.Event{Kind: stream.KindToolProgress, ToolName: "index_docs",
			Progress: &stream.Progress{Current: 1, Total: 5, Percentage: &pct}},
	)

	inv := s.Items()[0].(*ToolInvocation)
	if inv.Progress.Percent != 42.5 {
		t.Errorf("percent = %v, want server-supplied 42.5", inv.Progress.Percent)
	}
}

func TestToolErrorMarksInvocation(t *testing.T) {
	s := NewSession(nil)
	applyAll(s,
		toolCall("web_fetch"),
		stream.Event{Kind: stream.KindToolError, ToolName: "web_fetch", Message: "timeout"},
	)

	inv := s.Items()[0].(*ToolInvocation)
	if inv.Status != StatusError {
		t.Errorf("status = %v, want error", inv.Status)
	}
	if inv.ErrorMessage != "timeout" {
		t.Errorf("error message = %q, want %q", inv.ErrorMessage, "timeout")
	}
}

func TestFailureStatusFromResultRecord(t *testing.T) {
	s := NewSession(nil)
	applyAll(s,
		toolCall("web_fetch"),
		stream.Event{Kind: stream.KindToolResult, ToolName: "web_fetch",
			Result: map[string]any{"status": "error", "message": "connection refused"}},
	)

	inv := s.Items()[0].(*ToolInvocation)
	if inv.Status != StatusError {
		t.Errorf("status = %v, want error", inv.Status)
	}
	if inv.ErrorMessage != "connection refused" {
		t.Errorf("error message = %q", inv.ErrorMessage)
	}
}

func TestTerminalStatusIsSticky(t *testing.T) {
	s := NewSession(nil)
	applyAll(s,
		toolCall("graph_query"),
		stream.Event{Kind: stream.KindToolResult, ToolName: "graph_query",
			Result: map[string]any{"status": "success"}},
		// Late records for an already-resolved invocation have nothing to
		// attach to and are discarded.
		stream.Event{Kind: stream.KindToolProgress, ToolName: "graph_query",
			Progress: &stream.Progress{Current: 9, Total: 10}},
		stream.Event{Kind: stream.KindToolError, ToolName: "graph_query", Message: "late"},
	)

	inv := s.Items()[0].(*ToolInvocation)
	if inv.Status != StatusSuccess {
		t.Errorf("status = %v, want success to stick", inv.Status)
	}
	if inv.Progress != nil {
		t.Errorf("progress should stay cleared, got %+v", inv.Progress)
	}
	if inv.ErrorMessage != "" {
		t.Errorf("late error must not overwrite a resolved invocation: %q", inv.ErrorMessage)
	}
	if s.DiscardedRecords() != 2 {
		t.Errorf("discarded = %d, want 2", s.DiscardedRecords())
	}
}

func TestUnmatchedResultIsDiscarded(t *testing.T) {
	s := NewSession(nil)
	applyAll(s, stream.Event{Kind: stream.KindToolResult, ToolName: "nobody",
		Result: map[string]any{"status": "success"}})

	if len(s.Items()) != 0 {
		t.Errorf("expected no items, got %d", len(s.Items()))
	}
	if s.DiscardedRecords() != 1 {
		t.Errorf("discarded = %d, want 1", s.DiscardedRecords())
	}
}

func TestSameNameResolvesMostRecentPending(t *testing.T) {
	s := NewSession(nil)
	applyAll(s,
		toolCall("vector_search"),
		toolCall("vector_search"),
		stream.Event{Kind: stream.KindToolResult, ToolName: "vector_search",
			Result: map[string]any{"status": "success"}},
	)

	items := s.Items()
	first := items[0].(*ToolInvocation)
	second := items[1].(*ToolInvocation)
	if second.Status != StatusSuccess {
		t.Errorf("most recent pending call should resolve first, got %v", second.Status)
	}
	if first.Status != StatusPending {
		t.Errorf("earlier call should still be pending, got %v", first.Status)
	}
}

func TestTurnErrorAnnotatesTrailingText(t *testing.T) {
	s := NewSession(nil)
	applyAll(s,
		textDelta("Partial answer"),
		stream.Event{Kind: stream.KindError, Text: "model overloaded"},
	)

	if !s.Failed() {
		t.Fatal("expected failed flag")
	}
	items := s.Items()
	seg := items[len(items)-1].(*TextSegment)
	if !strings.HasSuffix(seg.Content, "ERROR: model overloaded") {
		t.Errorf("trailing text = %q, want error annotation", seg.Content)
	}
	if !strings.Contains(seg.Content, "Partial answer\n\n") {
		t.Errorf("annotation should be separated from prior text: %q", seg.Content)
	}
}

func TestTurnErrorWithoutTextAppendsSegment(t *testing.T) {
	s := NewSession(nil)
	applyAll(s,
		toolCall("graph_query"),
		stream.Event{Kind: stream.KindError, Text: "backend unavailable"},
	)

	items := s.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	seg, ok := items[1].(*TextSegment)
	if !ok {
		t.Fatalf("items[1] = %T, want *TextSegment", items[1])
	}
	if seg.Content != "ERROR: backend unavailable" {
		t.Errorf("annotation = %q", seg.Content)
	}
}

func TestWarningsAreOutOfBand(t *testing.T) {
	s := NewSession(nil)
	applyAll(s,
		textDelta("Answer"),
		stream.Event{Kind: stream.KindWarning, Text: "graph stale"},
	)

	if len(s.Items()) != 1 {
		t.Errorf("warning must not enter the transcript, items = %d", len(s.Items()))
	}
	w := s.TakeWarnings()
	if len(w) != 1 || w[0] != "graph stale" {
		t.Errorf("warnings = %v", w)
	}
	if len(s.TakeWarnings()) != 0 {
		t.Error("TakeWarnings should drain")
	}
}

type captureSink struct {
	parts []string
}

func (c *captureSink) AppendDelta(content string) { c.parts = append(c.parts, content) }

func TestMindmapDeltasGoToSink(t *testing.T) {
	sink := &captureSink{}
	s := NewSession(sink)
	applyAll(s,
		stream.Event{Kind: stream.KindMindmap, Text: "# Root\n"},
		stream.Event{Kind: stream.KindMindmap, Text: "## Child\n"},
	)

	if len(s.Items()) != 0 {
		t.Errorf("mindmap content must not enter the transcript, items = %d", len(s.Items()))
	}
	if len(sink.parts) != 2 || sink.parts[0] != "# Root\n" {
		t.Errorf("sink = %v", sink.parts)
	}
}

func TestEmptyTextDeltaStillAppendsSegment(t *testing.T) {
	s := NewSession(nil)
	applyAll(s, toolCall("graph_query"), textDelta(""))

	items := s.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if seg, ok := items[1].(*TextSegment); !ok || seg.Content != "" {
		t.Errorf("items[1] = %#v, want empty text segment", items[1])
	}
}

func TestFlattenedTextSkipsInvocations(t *testing.T) {
	s := NewSession(nil)
	applyAll(s,
		textDelta("Before. "),
		toolCall("vector_search"),
		textDelta("After."),
	)
	if got := s.FlattenedText(); got != "Before. After." {
		t.Errorf("flattened = %q", got)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	s := NewSession(nil)
	applyAll(s, toolCall("graph_query"))

	snap := s.Items()
	applyAll(s, stream.Event{Kind: stream.KindToolResult, ToolName: "graph_query",
		Result: map[string]any{"status": "success"}})

	if snap[0].(*ToolInvocation).Status != StatusPending {
		t.Error("snapshot mutated by a later event")
	}
}
