package chat

import "time"

// Status is the lifecycle state of a tool invocation. Transitions are
// monotonic: Pending may move to Success or Error once; both are terminal.
type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Progress is the latest progress report for a pending invocation. Percent
// is derived from Current/Total when the server did not supply one.
type Progress struct {
	Current int     `json:"current"`
	Total   int     `json:"total"`
	Message string  `json:"message,omitempty"`
	Percent float64 `json:"percent,omitempty"`
}

// Item is one ordered unit of the reconstructed transcript: either a run
// of answer text or the record of one tool invocation. The transcript is
// append-only in position; items are mutated in place, never reordered.
type Item interface {
	item()
}

// TextSegment is a contiguous run of answer text. It keeps growing while
// it is the last item; once a tool invocation lands after it, further text
// starts a new segment.
type TextSegment struct {
	Content string
}

// ToolInvocation is the lifecycle record of one backend tool call. It is
// created on the call announcement and resolved at most once by a result
// or error event.
type ToolInvocation struct {
	Name         string         `json:"name"`
	Arguments    map[string]any `json:"arguments,omitempty"`
	Status       Status         `json:"status"`
	Progress     *Progress      `json:"progress,omitempty"`
	Result       map[string]any `json:"result,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

func (*TextSegment) item()    {}
func (*ToolInvocation) item() {}

// Resolved reports whether the invocation reached a terminal status.
func (inv *ToolInvocation) Resolved() bool {
	return inv.Status != StatusPending
}
