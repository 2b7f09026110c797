package stream

// Kind identifies the semantic type of a classified stream record.
type Kind string

const (
	// KindTextDelta is an incremental piece of the answer text.
	KindTextDelta Kind = "text-delta"
	// KindToolCall announces a backend-initiated tool invocation.
	KindToolCall Kind = "tool-call"
	// KindToolProgress is an incremental progress update for a pending invocation.
	KindToolProgress Kind = "tool-progress"
	// KindToolResult resolves a pending invocation with its result payload.
	KindToolResult Kind = "tool-result"
	// KindToolError resolves a pending invocation with a failure message.
	KindToolError Kind = "tool-error"
	// KindMindmap is a side-channel delta for the mindmap document. It has
	// no position in the transcript.
	KindMindmap Kind = "mindmap"
	// KindWarning is an out-of-band notice for the user.
	KindWarning Kind = "warning"
	// KindError is a turn-level failure, distinct from a tool-level one.
	KindError Kind = "error"
)

// Progress carries a tool invocation's progress as reported by the backend.
// Percentage is nil when the server did not compute one.
type Progress struct {
	Current    int
	Total      int
	Message    string
	Percentage *float64
}

// Event is one classified stream record. Kind determines which fields are
// meaningful: Text for text-delta/mindmap/warning/error, ToolName plus
// Arguments for tool-call, ToolName plus Result (and optionally refined
// Arguments) for tool-result, ToolName plus Progress for tool-progress,
// ToolName plus Message for tool-error.
type Event struct {
	Kind      Kind
	Text      string
	ToolName  string
	Arguments map[string]any
	Result    map[string]any
	Progress  *Progress
	Message   string
}
