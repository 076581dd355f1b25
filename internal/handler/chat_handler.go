package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/mobilitylab/taxi-insights/internal/assistant"
	"github.com/mobilitylab/taxi-insights/internal/service"
	"github.com/mobilitylab/taxi-insights/pkg/response"
)

// ChatHandler handles the conversational endpoints.
type ChatHandler struct {
	service   *service.ChatService
	assistant *assistant.Assistant
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(service *service.ChatService, ai *assistant.Assistant) *ChatHandler {
	return &ChatHandler{service: service, assistant: ai}
}

// ChatRequest is the question body. SessionID is optional; a new session is
// started when it is empty.
type ChatRequest struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question" binding:"required"`
}

// Ask handles POST /api/v1/chat
func (h *ChatHandler) Ask(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	answer := h.service.Ask(req.SessionID, req.Question)
	response.Success(c, answer)
}

// GetHistory handles GET /api/v1/chat/:session_id/history
func (h *ChatHandler) GetHistory(c *gin.Context) {
	sessionID := c.Param("session_id")
	turns := h.service.History(sessionID)
	response.Success(c, gin.H{
		"session_id": sessionID,
		"turns":      turns,
	})
}

// GetStatus handles GET /api/v1/assistant/status
func (h *ChatHandler) GetStatus(c *gin.Context) {
	response.Success(c, gin.H{
		"provider": h.assistant.Provider(),
		"mode":     h.assistant.Mode(),
	})
}
