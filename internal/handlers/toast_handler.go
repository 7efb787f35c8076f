package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lumen/internal/toast"
)

// ToastHandler exposes the notification queue.
type ToastHandler struct {
	toasts *toast.Store
}

// NewToastHandler creates a new ToastHandler.
func NewToastHandler(toasts *toast.Store) *ToastHandler {
	return &ToastHandler{toasts: toasts}
}

// List returns the visible toasts, oldest first.
func (h *ToastHandler) List(c *gin.Context) {
	respond(c, http.StatusOK, h.toasts.List(), nil)
}

// Dismiss removes one toast. Unknown ids are ignored.
func (h *ToastHandler) Dismiss(c *gin.Context) {
	h.toasts.Remove(c.Param("id"))
	noContent(c)
}
