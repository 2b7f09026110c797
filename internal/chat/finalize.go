package chat

import (
	"context"
	"encoding/json"
	"fmt"
)

// SavedTurn is the finished state of one turn, handed to the persistence
// collaborator exactly once. Invocations and Items carry whatever state
// existed at completion; an aborted turn persists its pending
// invocations as pending.
type SavedTurn struct {
	Query       string           `json:"query"`
	Answer      string           `json:"answer"`
	Invocations []ToolInvocation `json:"invocations,omitempty"`
	Items       ItemList         `json:"items,omitempty"`
}

// Saver persists one finished turn to the conversation store.
type Saver interface {
	SaveTurn(ctx context.Context, conversationID string, turn SavedTurn) error
}

// ItemList is a transcript slice that survives a JSON round trip; the
// concrete item type is recorded alongside each entry.
type ItemList []Item

type savedItem struct {
	Type       string          `json:"type"`
	Content    string          `json:"content,omitempty"`
	Invocation *ToolInvocation `json:"invocation,omitempty"`
}

func (l ItemList) MarshalJSON() ([]byte, error) {
	out := make([]savedItem, 0, len(l))
	for _, it := range l {
		switch v := it.(type) {
		case *TextSegment:
			out = append(out, savedItem{Type: "text", Content: v.Content})
		case *ToolInvocation:
			out = append(out, savedItem{Type: "tool_call", Invocation: v})
		}
	}
	return json.Marshal(out)
}

func (l *ItemList) UnmarshalJSON(data []byte) error {
	var raw []savedItem
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	items := make(ItemList, 0, len(raw))
	for _, si := range raw {
		switch si.Type {
		case "text":
			items = append(items, &TextSegment{Content: si.Content})
		case "tool_call":
			if si.Invocation == nil {
				return fmt.Errorf("tool_call item without invocation")
			}
			items = append(items, si.Invocation)
		default:
			return fmt.Errorf("unknown item type %q", si.Type)
		}
	}
	*l = items
	return nil
}
