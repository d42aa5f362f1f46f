package service

import (
	"context"

	"github.com/groupchat/chat-backend/internal/common"
	"github.com/groupchat/chat-backend/internal/domain"
	"github.com/groupchat/chat-backend/internal/metrics"
	"github.com/groupchat/chat-backend/internal/repository"
	"github.com/groupchat/chat-backend/pkg/cache"
	"github.com/groupchat/chat-backend/pkg/logger"
)

// MessageService message business logic
type MessageService interface {
	Send(ctx context.Context, req *domain.SendMessageRequest) (*domain.Message, error)
	FetchHistory(ctx context.Context, userID, memberID uint64) (*domain.ConversationHistory, error)
	UpdateStatus(ctx context.Context, messageID, userID uint64, status string) (*domain.Message, error)
}

type messageService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	cache       cache.Service
}

// NewMessageService creates a new MessageService. cacheService may be nil.
func NewMessageService(messageRepo repository.MessageRepository, userRepo repository.UserRepository, cacheService cache.Service) MessageService {
	return &messageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		cache:       cacheService,
	}
}

// Send stores a message with status sent. Any non-empty body is accepted.
func (s *messageService) Send(ctx context.Context, req *domain.SendMessageRequest) (*domain.Message, error) {
	if req == nil || req.UserID == 0 || req.MemberID == 0 || req.Message == "" {
		return nil, common.Invalidf("user_id, member_id and message are required")
	}

	msg := &domain.Message{
		UserID:   req.UserID,
		MemberID: req.MemberID,
		Body:     req.Message,
		Status:   domain.MessageStatusSent,
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, internalError(ctx, "message.send", err)
	}
	metrics.MessageSent()
	return msg, nil
}

// FetchHistory returns the counterpart's name and every message between the two users
func (s *messageService) FetchHistory(ctx context.Context, userID, memberID uint64) (*domain.ConversationHistory, error) {
	if userID == 0 || memberID == 0 {
		return nil, common.Invalidf("user_id and member_id are required")
	}

	name, err := s.counterpartName(ctx, memberID)
	if err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.FindConversation(ctx, userID, memberID)
	if err != nil {
		return nil, internalError(ctx, "message.history", err)
	}
	if messages == nil {
		messages = []*domain.Message{}
	}

	return &domain.ConversationHistory{
		MemberName: name,
		Messages:   messages,
	}, nil
}

// counterpartName reads through the cache, falling back to the users table
func (s *messageService) counterpartName(ctx context.Context, userID uint64) (string, error) {
	if s.cache != nil && s.cache.IsAvailable() {
		if name, err := s.cache.GetUserName(ctx, userID); err == nil {
			return name, nil
		}
	}

	name, err := s.userRepo.FindNameByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return "", common.ErrUserNotFound
		}
		return "", internalError(ctx, "message.history", err)
	}

	if s.cache != nil && s.cache.IsAvailable() {
		if err := s.cache.SetUserName(ctx, userID, name); err != nil {
			logger.FromContext(ctx).Warn().Err(err).Uint64("user_id", userID).Msg("user name cache write failed")
		}
	}
	return name, nil
}

// UpdateStatus advances a message's status on behalf of its recipient
func (s *messageService) UpdateStatus(ctx context.Context, messageID, userID uint64, status string) (*domain.Message, error) {
	if messageID == 0 || userID == 0 || status == "" {
		return nil, common.Invalidf("message_id, user_id and status are required")
	}
	next, ok := domain.ParseMessageStatus(status)
	if !ok {
		return nil, common.ErrInvalidStatusTransition
	}

	msg, err := s.messageRepo.FindByID(ctx, messageID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, common.ErrMessageNotFound
		}
		return nil, internalError(ctx, "message.status", err)
	}
	if msg.MemberID != userID {
		return nil, common.ErrNotRecipient
	}
	if msg.Status == next {
		return msg, nil
	}
	if !msg.Status.CanTransitionTo(next) {
		return nil, common.ErrInvalidStatusTransition
	}

	err = s.messageRepo.UpdateStatus(ctx, msg.ID, msg.Status, next)
	if err == nil {
		metrics.StatusTransition(string(next))
		msg.Status = next
		return msg, nil
	}
	if !repository.IsNotFound(err) {
		return nil, internalError(ctx, "message.status", err)
	}

	// status moved underneath us; accept it only if it already reached the target
	current, err := s.messageRepo.FindByID(ctx, messageID)
	if err != nil {
		return nil, internalError(ctx, "message.status", err)
	}
	if current.Status == next {
		return current, nil
	}
	return nil, common.ErrInvalidStatusTransition
}
