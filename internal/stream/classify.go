package stream

import (
	"encoding/json"
	"strings"
)

// JSON shapes for the backend's NDJSON query stream. Each record is a flat
// object carrying exactly one of these keys.

type rawRecord struct {
	ToolCall     *rawToolCall     `json:"tool_call"`
	ToolResult   *rawToolResult   `json:"tool_result"`
	ToolProgress *rawToolProgress `json:"tool_progress"`
	ToolError    *rawToolError    `json:"tool_error"`
	Mindmap      *string          `json:"mindmap_content"`
	Response     *string          `json:"response"`
	Warning      *string          `json:"warning"`
	Error        *string          `json:"error"`
}

type rawToolCall struct {
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"` // JSON-encoded object
	} `json:"function"`
}

type rawToolResult struct {
	ToolName  string         `json:"tool_name"`
	Arguments map[string]any `json:"arguments"`
	Result    map[string]any `json:"result"`
}

type rawToolProgress struct {
	ToolName string `json:"tool_name"`
	Progress struct {
		Current    int      `json:"current"`
		Total      int      `json:"total"`
		Message    string   `json:"message"`
		Percentage *float64 `json:"percentage"`
	} `json:"progress"`
}

type rawToolError struct {
	ToolName string `json:"tool_name"`
	Message  string `json:"message"`
}

// Classify parses one framed record and tags it with its event kind.
// It returns false for blank lines, records that are not valid JSON, and
// records carrying none of the recognized keys; the caller counts and
// moves on; a bad record never aborts the stream.
//
// When a record carries more than one recognized key (the backend never
// does this in practice), the first match in the order below wins.
func Classify(line string) (Event, bool) {
	if strings.TrimSpace(line) == "" {
		return Event{}, false
	}

	var rec rawRecord
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		return Event{}, false
	}

	switch {
	case rec.ToolCall != nil:
		return Event{
			Kind:      KindToolCall,
			ToolName:  rec.ToolCall.Function.Name,
			Arguments: decodeArguments(rec.ToolCall.Function.Arguments),
		}, true
	case rec.ToolResult != nil:
		return Event{
			Kind:      KindToolResult,
			ToolName:  rec.ToolResult.ToolName,
			Arguments: rec.ToolResult.Arguments,
			Result:    rec.ToolResult.Result,
		}, true
	case rec.ToolProgress != nil:
		p := rec.ToolProgress.Progress
		return Event{
			Kind:     KindToolProgress,
			ToolName: rec.ToolProgress.ToolName,
			Progress: &Progress{
				Current:    p.Current,
				Total:      p.Total,
				Message:    p.Message,
				Percentage: p.Percentage,
			},
		}, true
	case rec.ToolError != nil:
		return Event{
			Kind:     KindToolError,
			ToolName: rec.ToolError.ToolName,
			Message:  rec.ToolError.Message,
		}, true
	case rec.Mindmap != nil:
		return Event{Kind: KindMindmap, Text: *rec.Mindmap}, true
	case rec.Response != nil:
		return Event{Kind: KindTextDelta, Text: *rec.Response}, true
	case rec.Warning != nil:
		return Event{Kind: KindWarning, Text: *rec.Warning}, true
	case rec.Error != nil:
		return Event{Kind: KindError, Text: *rec.Error}, true
	}

	return Event{}, false
}

// decodeArguments unpacks the JSON-string argument payload of a tool call.
// The backend occasionally emits malformed argument strings; those become
// an empty map rather than a classification failure, since the call itself
// is still meaningful.
func decodeArguments(s string) map[string]any {
	args := make(map[string]any)
	if s == "" {
		return args
	}
	if err := json.Unmarshal([]byte(s), &args); err != nil {
		return make(map[string]any)
	}
	return args
}
