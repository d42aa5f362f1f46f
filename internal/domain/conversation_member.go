package domain

import "time"

// ConversationMember is one directed membership edge (conversation_members table).
// A two-party conversation is stored as two rows, each pointing at the other.
type ConversationMember struct {
	ID        uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID    uint64     `gorm:"column:user_id;not null;uniqueIndex:idx_conversation_members_pair,priority:1" json:"user_id"`
	MemberID  uint64     `gorm:"column:member_id;not null;index;uniqueIndex:idx_conversation_members_pair,priority:2" json:"member_id"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"column:deleted_at" json:"-"`
}

func (ConversationMember) TableName() string { return "conversation_members" }

// Mirror returns the reverse edge
func (m *ConversationMember) Mirror() *ConversationMember {
	return &ConversationMember{UserID: m.MemberID, MemberID: m.UserID}
}

// AddMemberRequest represents an add-member request
type AddMemberRequest struct {
	UserID   uint64 `json:"user_id"`
	MemberID uint64 `json:"member_id"`
}

// UserConversation is a membership row enriched with the counterpart's name
type UserConversation struct {
	ID         uint64 `gorm:"column:id" json:"id"`
	MemberID   uint64 `gorm:"column:member_id" json:"member_id"`
	MemberName string `gorm:"column:member_name" json:"member_name"`
}
