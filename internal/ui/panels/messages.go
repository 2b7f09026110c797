package panels

// CloseModalMsg signals that the modal should be closed.
type CloseModalMsg struct{}

// ClearFlashMsg signals the status bar flash should be cleared.
type ClearFlashMsg struct{}

// AnimTickMsg advances spinner animations.
type AnimTickMsg struct{}

// GTimerExpiredMsg is sent when the gg double-tap window expires.
type GTimerExpiredMsg struct{}

// YankMsg carries text that should be copied to the clipboard.
type YankMsg struct {
	Text string
}

// SubmitQueryMsg is emitted by the composer when the user sends a query.
type SubmitQueryMsg struct {
	Query string
	Mode  string
}

// SelectConversationMsg is emitted when the user activates a conversation.
type SelectConversationMsg struct {
	ID string
}

// NewConversationMsg requests creation of a fresh conversation.
type NewConversationMsg struct{}

// DeleteConversationMsg requests deletion of a conversation.
type DeleteConversationMsg struct {
	ID string
}

// RenameConversationMsg requests retitling a conversation.
type RenameConversationMsg struct {
	ID    string
	Title string
}

// TogglePinMsg requests flipping a conversation's pinned flag.
type TogglePinMsg struct {
	ID     string
	Pinned bool
}
