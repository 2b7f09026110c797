package chat

import (
	"strings"
	"sync"
)

// MindmapSink receives side-channel mindmap deltas. They belong to a
// separate document with its own consumer, not to the transcript.
type MindmapSink interface {
	AppendDelta(content string)
}

// Session holds the reconstructed state of one turn: the ordered item
// list, a flattened text accumulator kept for consumers that predate
// item-list rendering, and turn-level flags. A Session lives exactly as
// long as one query/response exchange.
//
// Event processing is single-goroutine (the drainer); the mutex exists
// only because the render loop takes snapshots while events are applied.
type Session struct {
	mu        sync.Mutex
	items     []Item
	text      strings.Builder
	warnings  []string
	discarded int
	failed    bool
	done      bool
	mindmap   MindmapSink
}

// NewSession returns an empty session. sink may be nil when no mindmap
// consumer is attached; side-channel deltas are then dropped.
func NewSession(sink MindmapSink) *Session {
	return &Session{mindmap: sink}
}

// Items returns a snapshot of the transcript. Invocation structs are
// copied so the drainer can keep mutating the originals; maps inside are
// shared but never mutated after assignment.
func (s *Session) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.items)
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		switch v := it.(type) {
		case *TextSegment:
			seg := *v
			out[i] = &seg
		case *ToolInvocation:
			inv := *v
			if v.Progress != nil {
				p := *v.Progress
				inv.Progress = &p
			}
			out[i] = &inv
		}
	}
	return out
}

// Text returns the flattened accumulator.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text.String()
}

// FlattenedText is the answer text as derived from the item list, falling
// back to the accumulator when the list is empty (callers that never
// produced items still get their text).
func (s *Session) FlattenedText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.items) == 0 {
		return s.text.String()
	}
	var b strings.Builder
	for _, it := range s.items {
		if seg, ok := it.(*TextSegment); ok {
			b.WriteString(seg.Content)
		}
	}
	return b.String()
}

// Invocations returns copies of every tool invocation in call order,
// whatever their current status.
func (s *Session) Invocations() []ToolInvocation {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []ToolInvocation
	for _, it := range s.items {
		if inv, ok := it.(*ToolInvocation); ok {
			c := *inv
			if inv.Progress != nil {
				p := *inv.Progress
				c.Progress = &p
			}
			out = append(out, c)
		}
	}
	return out
}

// TakeWarnings drains accumulated out-of-band warnings.
func (s *Session) TakeWarnings() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.warnings
	s.warnings = nil
	return w
}

// Done reports whether the turn finished (normally or not).
func (s *Session) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Failed reports whether a turn-level error was recorded.
func (s *Session) Failed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failed
}

// DiscardedRecords counts records dropped for being malformed,
// unrecognized, or uncorrelatable.
func (s *Session) DiscardedRecords() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.discarded
}

func (s *Session) recordDiscarded() {
	s.mu.Lock()
	s.discarded++
	s.mu.Unlock()
}

func (s *Session) markDone() {
	s.mu.Lock()
	s.done = true
	s.mu.Unlock()
}
