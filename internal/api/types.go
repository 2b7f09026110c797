package api

import "time"

// Wire types for the knowledge-base backend's REST API. The backend speaks
// snake_case on conversation resources and camelCase inside persisted
// message payloads; both shapes are mirrored here as they appear on the
// wire.

type Conversation struct {
	ID        string    `json:"conversation_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	FileCount int       `json:"file_count"`
	Status    string    `json:"status"`
	Pinned    bool      `json:"pinned"`
}

type conversationList struct {
	Conversations []Conversation `json:"conversations"`
	Total         int            `json:"total"`
}

type createConversationRequest struct {
	Title string `json:"title,omitempty"`
}

// UpdateConversation carries a partial update; nil fields are left as-is.
type UpdateConversation struct {
	Title  *string `json:"title,omitempty"`
	Pinned *bool   `json:"pinned,omitempty"`
}

// ToolCall is one persisted tool invocation record.
type ToolCall struct {
	ToolName     string         `json:"toolName"`
	Arguments    map[string]any `json:"arguments"`
	Result       map[string]any `json:"result,omitempty"`
	Status       string         `json:"status"`
	ErrorMessage string         `json:"errorMessage,omitempty"`
}

// StreamItem is one entry of a message's ordered transcript: a text run
// ("text") or a tool invocation ("tool_call").
type StreamItem struct {
	Type         string         `json:"type"`
	Content      string         `json:"content,omitempty"`
	ToolName     string         `json:"toolName,omitempty"`
	Arguments    map[string]any `json:"arguments,omitempty"`
	Result       map[string]any `json:"result,omitempty"`
	Status       string         `json:"status,omitempty"`
	ErrorMessage string         `json:"errorMessage,omitempty"`
}

// Message is one history entry as returned by the messages endpoint.
type Message struct {
	Role        string       `json:"role"`
	Content     string       `json:"content"`
	Timestamp   string       `json:"timestamp"`
	StreamItems []StreamItem `json:"streamItems,omitempty"`
	ToolCalls   []ToolCall   `json:"toolCalls,omitempty"`
}

type messagesResponse struct {
	Messages []Message `json:"messages"`
}

type saveMessageRequest struct {
	Query       string       `json:"query"`
	Answer      string       `json:"answer"`
	ToolCalls   []ToolCall   `json:"tool_calls,omitempty"`
	StreamItems []StreamItem `json:"stream_items,omitempty"`
}

type resetMessagesRequest struct {
	Index int `json:"index"`
}

// GraphStatus reports indexing progress for a conversation's knowledge
// graph. Ready only once every uploaded document finished processing.
type GraphStatus struct {
	Ready      bool `json:"is_ready"`
	Total      int  `json:"total_documents"`
	Completed  int  `json:"completed_documents"`
	Processing int  `json:"processing_documents"`
	Pending    int  `json:"pending_documents"`
	Failed     int  `json:"failed_documents"`
}

type queryRequest struct {
	Query string `json:"query"`
	Mode  string `json:"mode"`
}
