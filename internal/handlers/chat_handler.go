package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lumen/internal/services"
)

// ChatHandler serves the assistant.
type ChatHandler struct {
	chat *services.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chat *services.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

type chatRequest struct {
	Message string `json:"message"`
}

// Send posts a message to the open conversation.
func (h *ChatHandler) Send(c *gin.Context) {
	var req chatRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}
	reply, err := h.chat.Send(c.Request.Context(), req.Message)
	respond(c, http.StatusOK, reply, err)
}

// History returns earlier messages; ?session_id picks another conversation.
func (h *ChatHandler) History(c *gin.Context) {
	sid, err := queryInt(c, "session_id", 0)
	if err != nil {
		respondWithError(c, err)
		return
	}
	limit, err := queryInt(c, "limit", services.DefaultHistoryLimit)
	if err != nil {
		respondWithError(c, err)
		return
	}
	hist, err := h.chat.History(c.Request.Context(), int64(sid), limit)
	respond(c, http.StatusOK, hist, err)
}

// Reset starts the next message in a new conversation.
func (h *ChatHandler) Reset(c *gin.Context) {
	h.chat.Reset()
	noContent(c)
}
