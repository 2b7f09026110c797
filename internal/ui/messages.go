package ui

import (
	"github.com/awilkes/kbchat/internal/api"
	"github.com/awilkes/kbchat/internal/chat"
	"github.com/awilkes/kbchat/internal/ui/panels"
)

// Type aliases to the panels message types so both packages share one definition.

// CloseModalMsg signals that the modal should be closed.
type CloseModalMsg = panels.CloseModalMsg

// ClearFlashMsg signals the status bar flash should be cleared.
type ClearFlashMsg = panels.ClearFlashMsg

// AnimTickMsg advances spinner animations.
type AnimTickMsg = panels.AnimTickMsg

// YankMsg carries text that should be copied to the clipboard.
type YankMsg = panels.YankMsg

// App-level messages produced by backend commands.

// ConversationsLoadedMsg delivers the conversation list from the server.
type ConversationsLoadedMsg struct {
	Conversations []api.Conversation
	Err           error
}

// ConversationCreatedMsg delivers a newly created conversation.
type ConversationCreatedMsg struct {
	Conversation *api.Conversation
	Err          error
}

// ConversationDeletedMsg confirms a deletion.
type ConversationDeletedMsg struct {
	ID  string
	Err error
}

// ConversationUpdatedMsg delivers the result of a metadata patch.
type ConversationUpdatedMsg struct {
	Conversation *api.Conversation
	Err          error
}

// HistoryLoadedMsg delivers a conversation's saved messages.
type HistoryLoadedMsg struct {
	ConversationID string
	Messages       []api.Message
	Err            error
}

// GraphStatusMsg delivers the knowledge graph indexing state.
type GraphStatusMsg struct {
	Status *api.GraphStatus
	Err    error
}

// TurnStartedMsg reports the outcome of opening a streaming query.
type TurnStartedMsg struct {
	Turn *chat.Turn
	Err  error
}

// TurnUpdatedMsg signals that the in-flight turn has new reduced state.
type TurnUpdatedMsg struct{}

// TurnDoneMsg signals that the in-flight turn finalized.
type TurnDoneMsg struct{}

// MindmapUpdatedMsg signals new mindmap content.
type MindmapUpdatedMsg struct{}

// OutboxFlushedMsg reports how many queued turns were delivered.
type OutboxFlushedMsg struct {
	Delivered int
}
