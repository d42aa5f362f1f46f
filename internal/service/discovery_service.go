package service

import (
	"context"

	"github.com/groupchat/chat-backend/internal/common"
	"github.com/groupchat/chat-backend/internal/domain"
	"github.com/groupchat/chat-backend/internal/repository"
)

// DiscoveryService finds users a caller can start a conversation with
type DiscoveryService interface {
	ListUsersWithoutConversation(ctx context.Context, userID uint64) ([]*domain.UserSummary, error)
}

type discoveryService struct {
	userRepo   repository.UserRepository
	memberRepo repository.ConversationMemberRepository
}

// NewDiscoveryService creates a new DiscoveryService
func NewDiscoveryService(userRepo repository.UserRepository, memberRepo repository.ConversationMemberRepository) DiscoveryService {
	return &discoveryService{userRepo: userRepo, memberRepo: memberRepo}
}

// ListUsersWithoutConversation returns every user except the caller and
// the caller's existing counterparts
func (s *discoveryService) ListUsersWithoutConversation(ctx context.Context, userID uint64) ([]*domain.UserSummary, error) {
	if userID == 0 {
		return nil, common.Invalidf("user_id is required")
	}

	users, err := s.userRepo.ListSummaries(ctx)
	if err != nil {
		return nil, internalError(ctx, "discovery.users", err)
	}
	rows, err := s.memberRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, internalError(ctx, "discovery.members", err)
	}

	excluded := make(map[uint64]struct{}, len(rows)+1)
	excluded[userID] = struct{}{}
	for _, row := range rows {
		excluded[row.MemberID] = struct{}{}
	}

	candidates := make([]*domain.UserSummary, 0, len(users))
	for _, u := range users {
		if _, skip := excluded[u.ID]; skip {
			continue
		}
		candidates = append(candidates, u)
	}
	if len(candidates) == 0 {
		return nil, common.ErrNoCandidates
	}
	return candidates, nil
}
