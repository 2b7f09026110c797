package chat

import (
	"fmt"
	"log"
	"time"

	"github.com/awilkes/kbchat/internal/stream"
)

// Apply folds one classified event into the session. It never fails: a
// panic from a pathological payload is converted into a turn-level error
// annotation so the rest of the stream keeps flowing.
func (s *Session) Apply(ev stream.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			s.annotate(fmt.Sprintf("internal error applying %s event: %v", ev.Kind, r))
			s.failed = true
		}
	}()

	switch ev.Kind {
	case stream.KindTextDelta:
		s.appendText(ev.Text)

	case stream.KindToolCall:
		// A tool call always starts a fresh item. Any open text segment
		// before it is closed by position alone.
		s.items = append(s.items, &ToolInvocation{
			Name:      ev.ToolName,
			Arguments: ev.Arguments,
			Status:    StatusPending,
			CreatedAt: time.Now(),
		})

	case stream.KindToolProgress:
		if !s.applyProgress(ev) {
			s.discarded++
			log.Printf("warning: progress for %s with no pending invocation", ev.ToolName)
		}

	case stream.KindToolResult:
		if !s.applyResult(ev) {
			s.discarded++
			log.Printf("warning: result for %s with no pending invocation", ev.ToolName)
		}

	case stream.KindToolError:
		if !s.applyToolError(ev) {
			s.discarded++
			log.Printf("warning: error for %s with no pending invocation", ev.ToolName)
		}

	case stream.KindMindmap:
		if s.mindmap != nil {
			s.mindmap.AppendDelta(ev.Text)
		}

	case stream.KindWarning:
		s.warnings = append(s.warnings, ev.Text)

	case stream.KindError:
		s.annotate(ev.Text)
		s.failed = true
	}
}

// appendText grows the trailing text segment, or opens a new one when the
// last item is a tool invocation (or the list is empty).
func (s *Session) appendText(delta string) {
	s.text.WriteString(delta)
	if n := len(s.items); n > 0 {
		if seg, ok := s.items[n-1].(*TextSegment); ok {
			seg.Content += delta
			return
		}
	}
	s.items = append(s.items, &TextSegment{Content: delta})
}

// annotate makes a turn-level failure visible inside the transcript.
// Callers hold s.mu.
func (s *Session) annotate(msg string) {
	note := "ERROR: " + msg
	if n := len(s.items); n > 0 {
		if seg, ok := s.items[n-1].(*TextSegment); ok {
			sep := "\n\n"
			if seg.Content == "" {
				sep = ""
			}
			seg.Content += sep + note
			s.text.WriteString(sep + note)
			return
		}
	}
	s.items = append(s.items, &TextSegment{Content: note})
	s.text.WriteString(note)
}
