// Package chat implements the assistant chat channel: the socket
// protocol, the pending-message reconciliation and the streaming of
// assistant replies.
package chat

// Inbound event names
const (
	EventAuthenticate = "authenticate"
	EventChatMessage  = "chat_message"
)

// Outbound event names
const (
	EventAuthResponse    = "auth_response"
	EventMessageReceived = "message_received"
)

// InboundFrame is a frame received from the client. Event selects
// which of the remaining fields are meaningful.
type InboundFrame struct {
	Event     string `json:"event"`
	Token     string `json:"token,omitempty"`
	UserID    string `json:"user_id,omitempty"`
	Content   string `json:"content,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
	TempID    string `json:"tempId,omitempty"`
}

// AuthResponse acknowledges (or rejects) an authenticate frame
type AuthResponse struct {
	Event   string `json:"event"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// MessageReceived is the server's message event. Type distinguishes
// the confirmed echo of a user message from assistant chunks and the
// final assistant message.
type MessageReceived struct {
	Event   string `json:"event"`
	Type    string `json:"type"` // user_message | ai_message_chunk | ai_message_complete
	ID      string `json:"id"`
	TempID  string `json:"tempId,omitempty"` // set on user_message to reconcile the pending entry
	Content string `json:"content"`
}
