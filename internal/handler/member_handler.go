package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/groupchat/chat-backend/internal/common"
	"github.com/groupchat/chat-backend/internal/domain"
	"github.com/groupchat/chat-backend/internal/service"
	"github.com/groupchat/chat-backend/pkg/ginutil"
)

// MemberHandler handles conversation membership requests
type MemberHandler struct {
	service service.MembershipService
}

// NewMemberHandler creates a new MemberHandler
func NewMemberHandler(service service.MembershipService) *MemberHandler {
	return &MemberHandler{service: service}
}

// AddMember handles POST /api/conversation_members/add_member
// @Summary Start a conversation between two users
// @Tags conversation_members
// @Accept json
// @Produce json
// @Param request body domain.AddMemberRequest true "Pair"
// @Success 201 {object} common.APIResponse{data=[]domain.ConversationMember}
// @Failure 409 {object} common.APIResponse
// @Router /conversation_members/add_member [post]
func (h *MemberHandler) AddMember(c *gin.Context) {
	var req domain.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rows, err := h.service.AddMember(c.Request.Context(), req.UserID, req.MemberID)
	if err != nil {
		common.HandleError(c, err, "Failed to add member")
		return
	}

	common.CreatedResponse(c, "Member added successfully", rows)
}

// GetMembers handles GET /api/conversation_members/get_members/:member_id
// @Summary Membership rows pointing at a user
// @Tags conversation_members
// @Produce json
// @Param member_id path int true "User id"
// @Success 200 {object} common.APIResponse{data=[]domain.ConversationMember}
// @Router /conversation_members/get_members/{member_id} [get]
func (h *MemberHandler) GetMembers(c *gin.Context) {
	memberID := ginutil.ParamUint64(c, "member_id")

	rows, err := h.service.ListMembers(c.Request.Context(), memberID)
	if err != nil {
		common.HandleError(c, err, "Failed to fetch members")
		return
	}

	common.SuccessResponse(c, "Members retrieved successfully", rows)
}

// DeleteMember handles DELETE /api/conversation_members/delete_member/:id
// @Summary Remove one membership row
// @Tags conversation_members
// @Produce json
// @Param id path int true "Membership row id"
// @Success 200 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Router /conversation_members/delete_member/{id} [delete]
func (h *MemberHandler) DeleteMember(c *gin.Context) {
	id := ginutil.ParamUint64(c, "id")

	if err := h.service.RemoveMember(c.Request.Context(), id); err != nil {
		common.HandleError(c, err, "Failed to delete member")
		return
	}

	common.SuccessResponse(c, "Member deleted successfully", nil)
}

// GetUserConversations handles GET /api/conversation_members/get_user_conversations/:user_id
// @Summary Counterparts of a user with their names
// @Tags conversation_members
// @Produce json
// @Param user_id path int true "User id"
// @Success 200 {object} common.APIResponse{data=[]domain.UserConversation}
// @Router /conversation_members/get_user_conversations/{user_id} [get]
func (h *MemberHandler) GetUserConversations(c *gin.Context) {
	userID := ginutil.ParamUint64(c, "user_id")

	rows, err := h.service.ListUserConversations(c.Request.Context(), userID)
	if err != nil {
		common.HandleError(c, err, "Failed to fetch conversations")
		return
	}

	common.SuccessResponse(c, "Conversations retrieved successfully", rows)
}
