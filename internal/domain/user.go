package domain

import "time"

// User represents an account (users table)
type User struct {
	ID          uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        string     `gorm:"column:name;type:varchar(50);not null" json:"name"`
	Email       string     `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	PhoneNumber string     `gorm:"column:phone_number;type:varchar(20);uniqueIndex;not null" json:"phone_number"`
	Password    string     `gorm:"column:password;type:varchar(255);not null" json:"-"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt   *time.Time `gorm:"column:deleted_at" json:"-"` // never set; deletes are hard deletes
}

func (User) TableName() string { return "users" }

// UserSummary is the id + name projection used by discovery
type UserSummary struct {
	ID   uint64 `gorm:"column:id" json:"id"`
	Name string `gorm:"column:name" json:"name"`
}

// UserResponse is the public view returned by login and profile endpoints
type UserResponse struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}

// ToProfileResponse includes the phone number for the owner's own profile
func (u *User) ToProfileResponse() *UserResponse {
	resp := u.ToResponse()
	resp.PhoneNumber = u.PhoneNumber
	return resp
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=50"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number" validate:"required,phone"`
	Password    string `json:"password" validate:"required,min=8,max=100"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest represents a token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}
