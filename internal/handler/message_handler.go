package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/groupchat/chat-backend/internal/common"
	"github.com/groupchat/chat-backend/internal/domain"
	"github.com/groupchat/chat-backend/internal/service"
	"github.com/groupchat/chat-backend/pkg/ginutil"
)

// MessageHandler handles direct message HTTP requests
type MessageHandler struct {
	service service.MessageService
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(service service.MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

// SendMessage handles POST /api/messages/send_message
// @Summary Send a message
// @Tags messages
// @Accept json
// @Produce json
// @Param request body domain.SendMessageRequest true "Message"
// @Success 200 {object} common.APIResponse{data=domain.Message}
// @Failure 429 {object} common.APIResponse
// @Router /messages/send_message [post]
func (h *MessageHandler) SendMessage(c *gin.Context) {
	var req domain.SendMessageRequest
	// the sender rate limiter may already have read the body
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	msg, err := h.service.Send(c.Request.Context(), &req)
	if err != nil {
		common.HandleError(c, err, "Failed to send message")
		return
	}

	common.SuccessResponse(c, "Message sent successfully", msg)
}

// GetAllMessagesOfMemberID handles GET /api/messages/get_all_messages_of_member_id?user_id=&member_id=
// @Summary Conversation history between two users
// @Tags messages
// @Produce json
// @Param user_id query int true "Caller id"
// @Param member_id query int true "Counterpart id"
// @Success 200 {object} common.APIResponse{data=domain.ConversationHistory}
// @Router /messages/get_all_messages_of_member_id [get]
func (h *MessageHandler) GetAllMessagesOfMemberID(c *gin.Context) {
	userID := ginutil.QueryUint64(c, "user_id")
	memberID := ginutil.QueryUint64(c, "member_id")

	history, err := h.service.FetchHistory(c.Request.Context(), userID, memberID)
	if err != nil {
		common.HandleError(c, err, "Failed to fetch messages")
		return
	}

	common.SuccessResponse(c, "Messages retrieved successfully", history)
}

// UpdateStatus handles PATCH /api/messages/:message_id/status
// @Summary Advance a message's delivery status
// @Tags messages
// @Accept json
// @Produce json
// @Param message_id path int true "Message id"
// @Param request body domain.UpdateStatusRequest true "Recipient and target status"
// @Success 200 {object} common.APIResponse{data=domain.Message}
// @Failure 400 {object} common.APIResponse
// @Failure 403 {object} common.APIResponse
// @Router /messages/{message_id}/status [patch]
func (h *MessageHandler) UpdateStatus(c *gin.Context) {
	messageID := ginutil.ParamUint64(c, "message_id")
	if messageID == 0 {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid message id", nil)
		return
	}

	var req domain.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	msg, err := h.service.UpdateStatus(c.Request.Context(), messageID, req.UserID, req.Status)
	if err != nil {
		common.HandleError(c, err, "Failed to update message status")
		return
	}

	common.SuccessResponse(c, "Message status updated", msg)
}
