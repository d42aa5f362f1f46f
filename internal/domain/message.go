package domain

import "time"

// MessageStatus is the delivery state of a message
type MessageStatus string

const (
	MessageStatusSent      MessageStatus = "sent"
	MessageStatusDelivered MessageStatus = "delivered"
	MessageStatusRead      MessageStatus = "read"
)

var statusRank = map[MessageStatus]int{
	MessageStatusSent:      0,
	MessageStatusDelivered: 1,
	MessageStatusRead:      2,
}

// ParseMessageStatus returns the status named by s
func ParseMessageStatus(s string) (MessageStatus, bool) {
	status := MessageStatus(s)
	_, ok := statusRank[status]
	return status, ok
}

// CanTransitionTo reports whether next is reachable from s.
// Status only moves forward; staying put is allowed.
func (s MessageStatus) CanTransitionTo(next MessageStatus) bool {
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[next]
	if !ok {
		return false
	}
	return to >= from
}

// Message represents a direct message (messages table)
type Message struct {
	ID        uint64        `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID    uint64        `gorm:"column:user_id;not null;index:idx_messages_pair,priority:1" json:"user_id"`
	MemberID  uint64        `gorm:"column:member_id;not null;index:idx_messages_pair,priority:2" json:"member_id"`
	Body      string        `gorm:"column:message;type:text" json:"message"`
	Status    MessageStatus `gorm:"column:status;type:varchar(16);not null;default:'sent'" json:"status"`
	CreatedAt time.Time     `gorm:"column:created_at;autoCreateTime;index:idx_messages_pair,priority:3" json:"created_at"`
	UpdatedAt time.Time     `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time    `gorm:"column:deleted_at" json:"-"`
}

func (Message) TableName() string { return "messages" }

// SendMessageRequest represents a send message request
type SendMessageRequest struct {
	UserID   uint64 `json:"user_id"`
	MemberID uint64 `json:"member_id"`
	Message  string `json:"message"`
}

// UpdateStatusRequest represents a status transition request
type UpdateStatusRequest struct {
	UserID uint64 `json:"user_id"`
	Status string `json:"status"`
}

// ConversationHistory is the ordered message list between two users
type ConversationHistory struct {
	MemberName string     `json:"member_name"`
	Messages   []*Message `json:"messages"`
}
