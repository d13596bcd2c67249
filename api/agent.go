package api

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aidekit/aidekit/chatmodel"
)

// handleAgentChat runs one turn of the assistant. A missing chat ID
// starts a new conversation; the allocated ID is returned so the
// client can continue it.
func (s *Server) handleAgentChat(c *gin.Context) {
	var req chatmodel.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if s.assistant == nil {
		badRequest(c, errors.New("agent is not configured"))
		return
	}

	chatID := req.ChatID
	if chatID == "" {
		chatID = uuid.NewString()
	}
	content, err := s.assistant.Run(c.Request.Context(), chatID, req.Message)
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, chatmodel.ChatResponse{
		ChatID:  chatID,
		Content: content,
	})
}
