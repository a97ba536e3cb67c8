package handlers

import (
	"net/http"

	"deen-companion-api/internal/upstream"

	"github.com/gin-gonic/gin"
)

// ChatRequest represents the Q&A request payload
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// ChatHandler forwards Q&A messages to the text-generation endpoint.
// Replies are not cached.
type ChatHandler struct {
	client *upstream.ChatClient
}

func NewChatHandler(client *upstream.ChatClient) *ChatHandler {
	return &ChatHandler{client: client}
}

// Ask handles POST /api/chat
func (h *ChatHandler) Ask(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request. A message is required.",
		})
		return
	}

	reply, err := h.client.Generate(c.Request.Context(), req.Message)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
