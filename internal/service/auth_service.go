package service

import (
	"context"
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/groupchat/chat-backend/internal/common"
	"github.com/groupchat/chat-backend/internal/domain"
	"github.com/groupchat/chat-backend/internal/repository"
	"github.com/groupchat/chat-backend/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches bcrypt.DefaultCost; kept explicit so stored hashes stay comparable
const bcryptCost = 10

var phonePattern = regexp.MustCompile(`^\+?[1-9]\d{0,15}$`)

// AuthService authentication business logic
type AuthService interface {
	Register(ctx context.Context, req *domain.RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, email, password string) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
	GetProfile(ctx context.Context, userID uint64) (*domain.UserResponse, error)
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	User         *domain.UserResponse `json:"user"`
	Token        string               `json:"token"`
	RefreshToken string               `json:"refresh_token"`
	ExpiresIn    int64                `json:"expires_in"` // access token lifetime in seconds
}

// TokenPair token pair
type TokenPair struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type authService struct {
	userRepo   repository.UserRepository
	jwtManager *jwt.Manager
	validate   *validator.Validate
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, jwtManager *jwt.Manager) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		validate:   newValidator(),
	}
}

// newValidator builds a validator that reports json field names and knows the phone rule
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return v
}

// Register creates a user and issues tokens for it
func (s *authService) Register(ctx context.Context, req *domain.RegisterRequest) (*AuthResponse, error) {
	if req == nil {
		return nil, common.Invalidf("request body is required")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)

	// 1. Validate input
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	// 2. Uniqueness checks
	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, internalError(ctx, "auth.register", err)
	}
	if exists {
		return nil, common.ErrUserAlreadyExists
	}
	exists, err = s.userRepo.ExistsByPhone(ctx, req.PhoneNumber)
	if err != nil {
		return nil, internalError(ctx, "auth.register", err)
	}
	if exists {
		return nil, common.ErrPhoneAlreadyExists
	}

	// 3. Hash password and store
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, internalError(ctx, "auth.register", err)
	}
	user := &domain.User{
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    string(hashed),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race against a concurrent registration
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, common.ErrUserAlreadyExists
		}
		return nil, internalError(ctx, "auth.register", err)
	}

	// 4. Issue tokens
	return s.issue(ctx, user)
}

// Login authenticates by email and password
func (s *authService) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, common.Invalidf("email and password are required")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, internalError(ctx, "auth.login", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, common.ErrInvalidCredentials
	}

	return s.issue(ctx, user)
}

// RefreshToken exchanges a refresh token for a new token pair
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, common.Invalidf("refresh_token is required")
	}

	claims, err := s.jwtManager.VerifyRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			return nil, common.ErrExpiredToken
		}
		return nil, common.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, common.ErrInvalidToken
		}
		return nil, internalError(ctx, "auth.refresh", err)
	}

	resp, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Token: resp.Token, RefreshToken: resp.RefreshToken, ExpiresIn: resp.ExpiresIn}, nil
}

// GetProfile returns the caller's own profile
func (s *authService) GetProfile(ctx context.Context, userID uint64) (*domain.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, common.ErrUserNotFound
		}
		return nil, internalError(ctx, "auth.profile", err)
	}
	return user.ToProfileResponse(), nil
}

func (s *authService) issue(ctx context.Context, user *domain.User) (*AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Name)
	if err != nil {
		return nil, internalError(ctx, "auth.token", err)
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, internalError(ctx, "auth.token", err)
	}
	return &AuthResponse{
		User:         user.ToResponse(),
		Token:        accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.AccessTTL().Seconds()),
	}, nil
}

// validationError turns the first failing field into a readable input error
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return common.Invalidf("invalid request: %v", err)
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return common.Invalidf("%s is required", fe.Field())
	case "email":
		return common.Invalidf("email must be a valid email address")
	case "phone":
		return common.Invalidf("phone_number must be a valid phone number")
	case "min":
		return common.Invalidf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return common.Invalidf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return common.Invalidf("%s is invalid", fe.Field())
	}
}
