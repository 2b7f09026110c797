package api

import (
	"context"
	"net/http"

	"github.com/awilkes/kbchat/internal/chat"
)

// SaveTurn persists one finished exchange as a message pair, carrying both
// the flat tool-call summary and the ordered transcript items.
func (c *Client) SaveTurn(ctx context.Context, conversationID string, turn chat.SavedTurn) error {
	req := saveMessageRequest{
		Query:       turn.Query,
		Answer:      turn.Answer,
		ToolCalls:   encodeToolCalls(turn.Invocations),
		StreamItems: encodeStreamItems(turn.Items),
	}
	return c.do(ctx, http.MethodPost, "/api/conversations/"+conversationID+"/messages", req, nil)
}

func encodeToolCalls(invocations []chat.ToolInvocation) []ToolCall {
	var out []ToolCall
	for _, inv := range invocations {
		out = append(out, ToolCall{
			ToolName:     inv.Name,
			Arguments:    inv.Arguments,
			Result:       inv.Result,
			Status:       string(inv.Status),
			ErrorMessage: inv.ErrorMessage,
		})
	}
	return out
}

func encodeStreamItems(items []chat.Item) []StreamItem {
	var out []StreamItem
	for _, it := range items {
		switch v := it.(type) {
		case *chat.TextSegment:
			out = append(out, StreamItem{Type: "text", Content: v.Content})
		case *chat.ToolInvocation:
			out = append(out, StreamItem{
				Type:         "tool_call",
				ToolName:     v.Name,
				Arguments:    v.Arguments,
				Result:       v.Result,
				Status:       string(v.Status),
				ErrorMessage: v.ErrorMessage,
			})
		}
	}
	return out
}

// DecodeStreamItems rebuilds transcript items from a persisted message,
// for rendering history the same way as a live turn.
func DecodeStreamItems(items []StreamItem) []chat.Item {
	var out []chat.Item
	for _, it := range items {
		switch it.Type {
		case "text":
			out = append(out, &chat.TextSegment{Content: it.Content})
		case "tool_call":
			out = append(out, &chat.ToolInvocation{
				Name:         it.ToolName,
				Arguments:    it.Arguments,
				Result:       it.Result,
				Status:       chat.Status(it.Status),
				ErrorMessage: it.ErrorMessage,
			})
		}
	}
	return out
}
