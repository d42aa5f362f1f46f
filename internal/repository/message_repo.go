package repository

import (
	"context"

	"github.com/groupchat/chat-backend/internal/domain"
	"gorm.io/gorm"
)

// MessageRepository message data access interface
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	FindByID(ctx context.Context, id uint64) (*domain.Message, error)
	FindConversation(ctx context.Context, userID, memberID uint64) ([]*domain.Message, error)
	UpdateStatus(ctx context.Context, id uint64, from, to domain.MessageStatus) error
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create creates a new message
func (r *messageRepository) Create(ctx context.Context, msg *domain.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// FindByID finds a message by ID
func (r *messageRepository) FindByID(ctx context.Context, id uint64) (*domain.Message, error) {
	var msg domain.Message
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&msg).Error
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// FindConversation returns messages exchanged in either direction, oldest first
func (r *messageRepository) FindConversation(ctx context.Context, userID, memberID uint64) ([]*domain.Message, error) {
	messages := make([]*domain.Message, 0)
	err := r.db.WithContext(ctx).
		Where("(user_id = ? AND member_id = ?) OR (user_id = ? AND member_id = ?)",
			userID, memberID, memberID, userID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&messages).Error
	return messages, err
}

// UpdateStatus moves a message from one status to another.
// Returns gorm.ErrRecordNotFound when the row is no longer in the from status.
func (r *messageRepository) UpdateStatus(ctx context.Context, id uint64, from, to domain.MessageStatus) error {
	result := r.db.WithContext(ctx).Model(&domain.Message{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
