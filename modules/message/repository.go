package message

import (
	"gorm.io/gorm"

	domain "github.com/example/chat-app/domain/chat"
)

// MessageRepository handles message persistence using GORM.
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository.
func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{
		db: db,
	}
}

// Create persists a new message.
func (r *MessageRepository) Create(msg *domain.Message) error {
	result := r.db.Create(msg)
	return result.Error
}

// Conversation returns every message exchanged between the two users,
// ordered by creation time ascending.
func (r *MessageRepository) Conversation(userA, userB string) ([]domain.Message, error) {
	var messages []domain.Message
	result := r.db.
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userA, userB, userB, userA).
		Order("created_at asc").
		Find(&messages)
	if result.Error != nil {
		return nil, result.Error
	}
	return messages, nil
}
