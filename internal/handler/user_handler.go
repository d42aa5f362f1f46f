package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/groupchat/chat-backend/internal/common"
	"github.com/groupchat/chat-backend/internal/service"
	"github.com/groupchat/chat-backend/pkg/ginutil"
)

// UserHandler serves user discovery
type UserHandler struct {
	discoveryService service.DiscoveryService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(discoveryService service.DiscoveryService) *UserHandler {
	return &UserHandler{discoveryService: discoveryService}
}

// GetUsersForChat handles GET /api/users/get_users_for_chat?user_id=
// @Summary Users the caller has no conversation with
// @Tags users
// @Produce json
// @Param user_id query int true "Caller id"
// @Success 200 {object} common.APIResponse{data=[]domain.UserSummary}
// @Failure 404 {object} common.APIResponse
// @Router /users/get_users_for_chat [get]
func (h *UserHandler) GetUsersForChat(c *gin.Context) {
	userID := ginutil.QueryUint64(c, "user_id")

	users, err := h.discoveryService.ListUsersWithoutConversation(c.Request.Context(), userID)
	if err != nil {
		common.HandleError(c, err, "Failed to fetch users")
		return
	}

	common.SuccessResponse(c, "Users retrieved successfully", users)
}
