package migration

import (
	"fmt"

	"github.com/groupchat/chat-backend/internal/domain"
	"github.com/groupchat/chat-backend/pkg/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Run creates or updates the users, conversation_members and messages tables.
// AutoMigrate also creates the unique (user_id, member_id) index that guards
// duplicate conversations.
func Run(db *gorm.DB) error {
	if err := db.AutoMigrate(&domain.User{}, &domain.ConversationMember{}, &domain.Message{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// demoPassword is shared by all seeded accounts
const demoPassword = "password123"

// SeedDemoUsers inserts a few accounts when the users table is empty.
// Only called in development environments.
func SeedDemoUsers(db *gorm.DB) error {
	var count int64
	if err := db.Model(&domain.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	users := []domain.User{
		{Name: "Alice", Email: "alice@example.com", PhoneNumber: "+15550000001", Password: string(hashed)},
		{Name: "Bob", Email: "bob@example.com", PhoneNumber: "+15550000002", Password: string(hashed)},
		{Name: "Carol", Email: "carol@example.com", PhoneNumber: "+15550000003", Password: string(hashed)},
	}
	if err := db.Create(&users).Error; err != nil {
		return err
	}

	logger.Info("seeded %d demo users (password %q)", len(users), demoPassword)
	return nil
}
