package repository

import (
	"gorm.io/gorm"

	"github.com/opiniondesk/opiniondesk-backend/internal/domain"
)

// ChatRepository persists chat history
type ChatRepository interface {
	Append(msg *domain.ChatMessage) error
	History(userID string, limit int) ([]domain.ChatMessage, error)
}

type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a new ChatRepository
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

// Append inserts a chat message
func (r *chatRepository) Append(msg *domain.ChatMessage) error {
	return r.db.Create(msg).Error
}

// History retrieves the most recent messages for a user, oldest first
func (r *chatRepository) History(userID string, limit int) ([]domain.ChatMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	var messages []domain.ChatMessage
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	// reverse to chronological order
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
