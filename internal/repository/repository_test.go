package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/groupchat/chat-backend/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.ConversationMember{}, &domain.Message{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string) *domain.User {
	t.Helper()
	u := &domain.User{
		Name:        name,
		Email:       fmt.Sprintf("%s@example.com", name),
		PhoneNumber: fmt.Sprintf("+1555%07d", len(name)*1000+int(name[0])),
		Password:    "hash",
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func TestIsDuplicateKey(t *testing.T) {
	assert.True(t, isDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, isDuplicateKey(fmt.Errorf("insert: %w", &mysql.MySQLError{Number: 1062})))
	assert.True(t, isDuplicateKey(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isDuplicateKey(errors.New("UNIQUE constraint failed: users.email")))

	assert.False(t, isDuplicateKey(&mysql.MySQLError{Number: 1045}))
	assert.False(t, isDuplicateKey(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isDuplicateKey(errors.New("connection refused")))
	assert.NoError(t, translateError(nil))
}

func TestUserRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	alice := &domain.User{Name: "Alice", Email: "alice@example.com", PhoneNumber: "+15550001", Password: "hash"}
	require.NoError(t, repo.Create(ctx, alice))
	assert.NotZero(t, alice.ID)

	t.Run("duplicate email maps to ErrDuplicate", func(t *testing.T) {
		dup := &domain.User{Name: "Other", Email: "alice@example.com", PhoneNumber: "+15550002", Password: "hash"}
		err := repo.Create(ctx, dup)
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("lookups", func(t *testing.T) {
		byEmail, err := repo.FindByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, byEmail.ID)

		byID, err := repo.FindByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alice", byID.Name)

		name, err := repo.FindNameByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alice", name)

		_, err = repo.FindByID(ctx, 9999)
		assert.True(t, IsNotFound(err))
		_, err = repo.FindNameByID(ctx, 9999)
		assert.True(t, IsNotFound(err))
	})

	t.Run("exists checks", func(t *testing.T) {
		ok, err := repo.ExistsByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.ExistsByPhone(ctx, "+15550001")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.ExistsByPhone(ctx, "+19999999")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("summaries", func(t *testing.T) {
		seedUser(t, db, "bob")
		rows, err := repo.ListSummaries(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "Alice", rows[0].Name)
		assert.Equal(t, "bob", rows[1].Name)
	})
}

func TestConversationMemberRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConversationMemberRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	forward := &domain.ConversationMember{UserID: alice.ID, MemberID: bob.ID}
	mirror, err := repo.CreatePair(ctx, forward)
	require.NoError(t, err)
	assert.NotZero(t, forward.ID)
	assert.Equal(t, bob.ID, mirror.UserID)
	assert.Equal(t, alice.ID, mirror.MemberID)

	t.Run("both directions exist", func(t *testing.T) {
		ok, err := repo.Exists(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = repo.Exists(ctx, bob.ID, alice.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("second pair is rejected atomically", func(t *testing.T) {
		_, err := repo.CreatePair(ctx, &domain.ConversationMember{UserID: bob.ID, MemberID: alice.ID})
		assert.ErrorIs(t, err, ErrDuplicate)

		var count int64
		require.NoError(t, db.Model(&domain.ConversationMember{}).Count(&count).Error)
		assert.Equal(t, int64(2), count)
	})

	t.Run("conversations with names", func(t *testing.T) {
		rows, err := repo.FindConversationsWithNames(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, bob.ID, rows[0].MemberID)
		assert.Equal(t, "bob", rows[0].MemberName)
	})

	t.Run("self rows are excluded from conversations", func(t *testing.T) {
		require.NoError(t, db.Create(&domain.ConversationMember{UserID: alice.ID, MemberID: alice.ID}).Error)
		rows, err := repo.FindConversationsWithNames(ctx, alice.ID)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("find by member", func(t *testing.T) {
		rows, err := repo.FindByMemberID(ctx, bob.ID)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, alice.ID, rows[0].UserID)

		rows, err = repo.FindByMemberID(ctx, 9999)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("delete removes one row only", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, forward.ID))

		_, err := repo.FindByID(ctx, forward.ID)
		assert.True(t, IsNotFound(err))

		ok, err := repo.Exists(ctx, bob.ID, alice.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		assert.True(t, IsNotFound(repo.Delete(ctx, forward.ID)))
	})

	t.Run("re-adding reuses the surviving mirror", func(t *testing.T) {
		survivor, err := repo.FindByUserID(ctx, bob.ID)
		require.NoError(t, err)
		require.Len(t, survivor, 1)

		again := &domain.ConversationMember{UserID: alice.ID, MemberID: bob.ID}
		got, err := repo.CreatePair(ctx, again)
		require.NoError(t, err)
		assert.NotZero(t, again.ID)
		assert.Equal(t, survivor[0].ID, got.ID)
		assert.Equal(t, bob.ID, got.UserID)

		var count int64
		require.NoError(t, db.Model(&domain.ConversationMember{}).
			Where("user_id <> member_id").Count(&count).Error)
		assert.Equal(t, int64(2), count)
	})
}

func TestMessageRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	msgs := []*domain.Message{
		{UserID: bob.ID, MemberID: alice.ID, Body: "second", Status: domain.MessageStatusSent, CreatedAt: base.Add(time.Minute)},
		{UserID: alice.ID, MemberID: bob.ID, Body: "first", Status: domain.MessageStatusSent, CreatedAt: base},
		{UserID: alice.ID, MemberID: carol.ID, Body: "other thread", Status: domain.MessageStatusSent, CreatedAt: base},
		{UserID: alice.ID, MemberID: bob.ID, Body: "third", Status: domain.MessageStatusSent, CreatedAt: base.Add(time.Minute)},
	}
	for _, m := range msgs {
		require.NoError(t, repo.Create(ctx, m))
	}

	t.Run("history covers both directions in order", func(t *testing.T) {
		history, err := repo.FindConversation(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		require.Len(t, history, 3)
		assert.Equal(t, "first", history[0].Body)
		assert.Equal(t, "second", history[1].Body)
		assert.Equal(t, "third", history[2].Body)

		reversed, err := repo.FindConversation(ctx, bob.ID, alice.ID)
		require.NoError(t, err)
		assert.Len(t, reversed, 3)
	})

	t.Run("empty history is an empty slice", func(t *testing.T) {
		history, err := repo.FindConversation(ctx, bob.ID, carol.ID)
		require.NoError(t, err)
		assert.NotNil(t, history)
		assert.Empty(t, history)
	})

	t.Run("status update is conditional", func(t *testing.T) {
		id := msgs[1].ID
		require.NoError(t, repo.UpdateStatus(ctx, id, domain.MessageStatusSent, domain.MessageStatusRead))

		got, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.MessageStatusRead, got.Status)

		err = repo.UpdateStatus(ctx, id, domain.MessageStatusSent, domain.MessageStatusDelivered)
		assert.True(t, IsNotFound(err))
	})
}
