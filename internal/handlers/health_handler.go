package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"lumen/internal/models"
)

// HealthChecker reports backend health.
type HealthChecker interface {
	Health(ctx context.Context) (*models.Health, error)
}

// HealthHandler reports whether the local app and its backend are up.
type HealthHandler struct {
	backend HealthChecker
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(backend HealthChecker) *HealthHandler {
	return &HealthHandler{backend: backend}
}

// healthResponse pairs local liveness with the backend's report.
type healthResponse struct {
	Status  string         `json:"status"`
	Backend *models.Health `json:"backend,omitempty"`
	Error   string         `json:"backend_error,omitempty"`
}

// Health always answers 200 while the local app runs; backend trouble is
// reported in the body.
func (h *HealthHandler) Health(c *gin.Context) {
	res := healthResponse{Status: "ok"}
	b, err := h.backend.Health(c.Request.Context())
	if err != nil {
		res.Status = "degraded"
		res.Error = err.Error()
	} else {
		res.Backend = b
	}
	respond(c, http.StatusOK, res, nil)
}
