package repository

import (
	"context"

	"github.com/groupchat/chat-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConversationMemberRepository membership edge data access interface
type ConversationMemberRepository interface {
	Exists(ctx context.Context, userID, memberID uint64) (bool, error)
	CreatePair(ctx context.Context, forward *domain.ConversationMember) (*domain.ConversationMember, error)
	FindByID(ctx context.Context, id uint64) (*domain.ConversationMember, error)
	FindByMemberID(ctx context.Context, memberID uint64) ([]*domain.ConversationMember, error)
	FindByUserID(ctx context.Context, userID uint64) ([]*domain.ConversationMember, error)
	FindConversationsWithNames(ctx context.Context, userID uint64) ([]*domain.UserConversation, error)
	Delete(ctx context.Context, id uint64) error
}

type conversationMemberRepository struct {
	db *gorm.DB
}

// NewConversationMemberRepository creates a new ConversationMemberRepository
func NewConversationMemberRepository(db *gorm.DB) ConversationMemberRepository {
	return &conversationMemberRepository{db: db}
}

// Exists checks the exact ordered pair
func (r *conversationMemberRepository) Exists(ctx context.Context, userID, memberID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.ConversationMember{}).
		Where("user_id = ? AND member_id = ?", userID, memberID).
		Count(&count).Error
	return count > 0, err
}

// CreatePair inserts the forward edge and its mirror in one transaction.
// Only the forward edge may conflict. A mirror left behind by an earlier
// one-sided removal is kept and returned as is.
func (r *conversationMemberRepository) CreatePair(ctx context.Context, forward *domain.ConversationMember) (*domain.ConversationMember, error) {
	mirror := forward.Mirror()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(forward).Error; err != nil {
			return err
		}
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(mirror)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			return nil
		}
		var existing domain.ConversationMember
		if err := tx.Where("user_id = ? AND member_id = ?", mirror.UserID, mirror.MemberID).
			First(&existing).Error; err != nil {
			return err
		}
		mirror = &existing
		return nil
	})
	if err != nil {
		return nil, translateError(err)
	}
	return mirror, nil
}

// FindByID finds a membership row by primary key
func (r *conversationMemberRepository) FindByID(ctx context.Context, id uint64) (*domain.ConversationMember, error) {
	var member domain.ConversationMember
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// FindByMemberID returns every row pointing at memberID
func (r *conversationMemberRepository) FindByMemberID(ctx context.Context, memberID uint64) ([]*domain.ConversationMember, error) {
	var members []*domain.ConversationMember
	err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("id ASC").
		Find(&members).Error
	return members, err
}

// FindByUserID returns every row owned by userID
func (r *conversationMemberRepository) FindByUserID(ctx context.Context, userID uint64) ([]*domain.ConversationMember, error) {
	var members []*domain.ConversationMember
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&members).Error
	return members, err
}

// FindConversationsWithNames returns userID's rows joined with the counterpart's name.
// Self-referencing rows are excluded.
func (r *conversationMemberRepository) FindConversationsWithNames(ctx context.Context, userID uint64) ([]*domain.UserConversation, error) {
	var rows []*domain.UserConversation
	err := r.db.WithContext(ctx).
		Table("conversation_members AS cm").
		Select("cm.id, cm.member_id, COALESCE(u.name, '') AS member_name").
		Joins("LEFT JOIN users AS u ON u.id = cm.member_id").
		Where("cm.user_id = ? AND cm.member_id <> ?", userID, userID).
		Order("cm.id ASC").
		Scan(&rows).Error
	return rows, err
}

// Delete removes a single row; the mirror row is untouched
func (r *conversationMemberRepository) Delete(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.ConversationMember{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
