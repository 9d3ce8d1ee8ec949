package handlers

import (
	"net/http"

	"mental-wellness-be/internal/models"
	"mental-wellness-be/internal/services"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chat *services.ChatService
}

func NewChatHandler(chat *services.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// SendMessage godoc
// @Summary Send a chat message
// @Description Scores the message for stress, generates a supportive reply and logs the exchange
// @Tags chat
// @Accept json
// @Produce json
// @Param payload body models.SendMessageRequest true "Message"
// @Success 200 {object} models.SendMessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /send-message [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	resp, err := h.chat.SubmitMessage(c.Request.Context(), req.Username, req.Message, req.SessionID)
	if err != nil {
		// The only rejection the chat core makes is empty message text
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}
