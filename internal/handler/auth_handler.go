package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/groupchat/chat-backend/internal/common"
	"github.com/groupchat/chat-backend/internal/domain"
	"github.com/groupchat/chat-backend/internal/middleware"
	"github.com/groupchat/chat-backend/internal/service"
)

// AuthHandler handles registration, login and token endpoints
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles POST /api/users/register
// @Summary Register a user
// @Tags users
// @Accept json
// @Produce json
// @Param request body domain.RegisterRequest true "New account"
// @Success 201 {object} common.APIResponse{data=service.AuthResponse}
// @Failure 400 {object} common.APIResponse
// @Failure 409 {object} common.APIResponse
// @Router /users/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		common.HandleError(c, err, "Failed to register user")
		return
	}

	common.CreatedResponse(c, "User registered successfully", resp)
}

// Login handles POST /api/users/login
// @Summary Log in
// @Tags users
// @Accept json
// @Produce json
// @Param request body domain.LoginRequest true "Credentials"
// @Success 200 {object} common.APIResponse{data=service.AuthResponse}
// @Failure 401 {object} common.APIResponse
// @Router /users/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		common.HandleError(c, err, "Failed to log in")
		return
	}

	common.SuccessResponse(c, "Login successful", resp)
}

// Refresh handles POST /api/users/refresh
// @Summary Exchange a refresh token for a new token pair
// @Tags users
// @Accept json
// @Produce json
// @Param request body domain.RefreshRequest true "Refresh token"
// @Success 200 {object} common.APIResponse{data=service.TokenPair}
// @Failure 401 {object} common.APIResponse
// @Router /users/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req domain.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	pair, err := h.authService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		common.HandleError(c, err, "Failed to refresh token")
		return
	}

	common.SuccessResponse(c, "Token refreshed", pair)
}

// Me handles GET /api/users/me
// @Summary Profile of the authenticated user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} common.APIResponse{data=domain.UserResponse}
// @Failure 401 {object} common.APIResponse
// @Router /users/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		common.ErrorResponse(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	profile, err := h.authService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		common.HandleError(c, err, "Failed to load profile")
		return
	}

	common.SuccessResponse(c, "Profile retrieved", profile)
}
