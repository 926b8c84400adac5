package domain

import "time"

// Chat message types emitted over the socket
const (
	ChatUserMessage       = "user_message"
	ChatAssistantChunk    = "ai_message_chunk"
	ChatAssistantComplete = "ai_message_complete"
)

// ChatMessage is a persisted chat message. Assistant replies are
// written once complete; in-flight chunks live only on the socket.
type ChatMessage struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"column:user_id;size:36;index" json:"user_id"`
	Role      string    `gorm:"size:20" json:"role"` // "user" or "assistant"
	Content   string    `gorm:"type:text" json:"content"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"timestamp"`
}

// TableName returns the table name
func (ChatMessage) TableName() string {
	return "chat_messages"
}
