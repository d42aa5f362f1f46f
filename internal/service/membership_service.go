package service

import (
	"context"
	"errors"

	"github.com/groupchat/chat-backend/internal/common"
	"github.com/groupchat/chat-backend/internal/domain"
	"github.com/groupchat/chat-backend/internal/metrics"
	"github.com/groupchat/chat-backend/internal/repository"
)

// MembershipService manages pairwise conversation membership
type MembershipService interface {
	AddMember(ctx context.Context, userID, memberID uint64) ([]*domain.ConversationMember, error)
	ListMembers(ctx context.Context, memberID uint64) ([]*domain.ConversationMember, error)
	RemoveMember(ctx context.Context, id uint64) error
	ListUserConversations(ctx context.Context, userID uint64) ([]*domain.UserConversation, error)
}

type membershipService struct {
	memberRepo repository.ConversationMemberRepository
}

// NewMembershipService creates a new MembershipService
func NewMembershipService(memberRepo repository.ConversationMemberRepository) MembershipService {
	return &membershipService{memberRepo: memberRepo}
}

// AddMember links two users in both directions. Only an existing forward
// edge is a conflict; a mirror surviving an earlier removal is reused.
func (s *membershipService) AddMember(ctx context.Context, userID, memberID uint64) ([]*domain.ConversationMember, error) {
	if userID == 0 || memberID == 0 {
		return nil, common.Invalidf("user_id and member_id are required")
	}
	if userID == memberID {
		return nil, common.ErrSelfRelation
	}

	exists, err := s.memberRepo.Exists(ctx, userID, memberID)
	if err != nil {
		return nil, internalError(ctx, "membership.add", err)
	}
	if exists {
		return nil, common.ErrRelationExists
	}

	forward := &domain.ConversationMember{UserID: userID, MemberID: memberID}
	mirror, err := s.memberRepo.CreatePair(ctx, forward)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, common.ErrRelationExists
		}
		return nil, internalError(ctx, "membership.add", err)
	}
	metrics.ConversationCreated(mirror.ID < forward.ID)
	return []*domain.ConversationMember{forward, mirror}, nil
}

// ListMembers returns every row whose member_id is the given user
func (s *membershipService) ListMembers(ctx context.Context, memberID uint64) ([]*domain.ConversationMember, error) {
	if memberID == 0 {
		return nil, common.Invalidf("member_id is required")
	}
	members, err := s.memberRepo.FindByMemberID(ctx, memberID)
	if err != nil {
		return nil, internalError(ctx, "membership.list", err)
	}
	if members == nil {
		members = []*domain.ConversationMember{}
	}
	return members, nil
}

// RemoveMember deletes a single membership row
func (s *membershipService) RemoveMember(ctx context.Context, id uint64) error {
	if id == 0 {
		return common.Invalidf("id is required")
	}
	if err := s.memberRepo.Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return common.ErrMemberNotFound
		}
		return internalError(ctx, "membership.remove", err)
	}
	metrics.ConversationRowRemoved()
	return nil
}

// ListUserConversations returns the user's counterparts with their names
func (s *membershipService) ListUserConversations(ctx context.Context, userID uint64) ([]*domain.UserConversation, error) {
	if userID == 0 {
		return nil, common.Invalidf("user_id is required")
	}
	rows, err := s.memberRepo.FindConversationsWithNames(ctx, userID)
	if err != nil {
		return nil, internalError(ctx, "membership.conversations", err)
	}
	if rows == nil {
		rows = []*domain.UserConversation{}
	}
	return rows, nil
}
