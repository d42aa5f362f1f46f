package service

import (
	"context"
	"time"

	"github.com/groupchat/chat-backend/internal/domain"
	"github.com/groupchat/chat-backend/pkg/cache"
	"github.com/stretchr/testify/mock"
)

// --- Mock UserRepository ---

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uint64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) FindNameByID(ctx context.Context, id uint64) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *mockUserRepo) ListSummaries(ctx context.Context) ([]*domain.UserSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.UserSummary), args.Error(1)
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	args := m.Called(ctx, phone)
	return args.Bool(0), args.Error(1)
}

// --- Mock ConversationMemberRepository ---

type mockMemberRepo struct {
	mock.Mock
}

func (m *mockMemberRepo) Exists(ctx context.Context, userID, memberID uint64) (bool, error) {
	args := m.Called(ctx, userID, memberID)
	return args.Bool(0), args.Error(1)
}

func (m *mockMemberRepo) CreatePair(ctx context.Context, forward *domain.ConversationMember) (*domain.ConversationMember, error) {
	args := m.Called(ctx, forward)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConversationMember), args.Error(1)
}

func (m *mockMemberRepo) FindByID(ctx context.Context, id uint64) (*domain.ConversationMember, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConversationMember), args.Error(1)
}

func (m *mockMemberRepo) FindByMemberID(ctx context.Context, memberID uint64) ([]*domain.ConversationMember, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ConversationMember), args.Error(1)
}

func (m *mockMemberRepo) FindByUserID(ctx context.Context, userID uint64) ([]*domain.ConversationMember, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ConversationMember), args.Error(1)
}

func (m *mockMemberRepo) FindConversationsWithNames(ctx context.Context, userID uint64) ([]*domain.UserConversation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.UserConversation), args.Error(1)
}

func (m *mockMemberRepo) Delete(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

// --- Mock MessageRepository ---

type mockMessageRepo struct {
	mock.Mock
}

func (m *mockMessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *mockMessageRepo) FindByID(ctx context.Context, id uint64) (*domain.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

func (m *mockMessageRepo) FindConversation(ctx context.Context, userID, memberID uint64) ([]*domain.Message, error) {
	args := m.Called(ctx, userID, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Message), args.Error(1)
}

func (m *mockMessageRepo) UpdateStatus(ctx context.Context, id uint64, from, to domain.MessageStatus) error {
	return m.Called(ctx, id, from, to).Error(0)
}

// --- In-memory cache.Service ---

type memoryCache struct {
	names  map[uint64]string
	writes int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{names: make(map[uint64]string)}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	return cache.ErrCacheMiss
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, keys ...string) error { return nil }

func (c *memoryCache) GetUserName(ctx context.Context, userID uint64) (string, error) {
	name, ok := c.names[userID]
	if !ok {
		return "", cache.ErrCacheMiss
	}
	return name, nil
}

func (c *memoryCache) SetUserName(ctx context.Context, userID uint64, name string) error {
	c.writes++
	c.names[userID] = name
	return nil
}

func (c *memoryCache) IsAvailable() bool             { return true }
func (c *memoryCache) Ping(ctx context.Context) error { return nil }
