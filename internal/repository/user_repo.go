package repository

import (
	"context"

	"github.com/groupchat/chat-backend/internal/domain"
	"gorm.io/gorm"
)

// UserRepository user data access interface
type UserRepository interface {
	// Read operations
	FindByID(ctx context.Context, id uint64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindNameByID(ctx context.Context, id uint64) (string, error)
	ListSummaries(ctx context.Context) ([]*domain.UserSummary, error)

	// Write operations
	Create(ctx context.Context, user *domain.User) error

	// Validation operations
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// FindByID finds user by primary key
func (r *userRepository) FindByID(ctx context.Context, id uint64) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds user by email
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindNameByID loads only the display name
func (r *userRepository) FindNameByID(ctx context.Context, id uint64) (string, error) {
	var row domain.UserSummary
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Select("id, name").
		Where("id = ?", id).
		Take(&row).Error
	if err != nil {
		return "", err
	}
	return row.Name, nil
}

// ListSummaries returns id and name of every user
func (r *userRepository) ListSummaries(ctx context.Context) ([]*domain.UserSummary, error) {
	var rows []*domain.UserSummary
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Select("id, name").
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

// Create creates a new user
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	return translateError(r.db.WithContext(ctx).Create(user).Error)
}

// ExistsByEmail checks if email exists
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}

// ExistsByPhone checks if phone number exists
func (r *userRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("phone_number = ?", phone).
		Count(&count).Error
	return count > 0, err
}
