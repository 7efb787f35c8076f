package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lumen/internal/models"
	"lumen/internal/services"
)

// ProfileHandler serves the signed-in user's profile.
type ProfileHandler struct {
	profiles *services.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profiles *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Get returns the profile.
func (h *ProfileHandler) Get(c *gin.Context) {
	p, err := h.profiles.Get(c.Request.Context())
	respond(c, http.StatusOK, p, err)
}

// Update applies a partial profile update.
func (h *ProfileHandler) Update(c *gin.Context) {
	var req models.ProfileUpdate
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}
	p, err := h.profiles.Update(c.Request.Context(), req)
	respond(c, http.StatusOK, p, err)
}

// UpdateConsent changes the data-source consents.
func (h *ProfileHandler) UpdateConsent(c *gin.Context) {
	var req models.ConsentUpdate
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}
	p, err := h.profiles.UpdateConsent(c.Request.Context(), req)
	respond(c, http.StatusOK, p, err)
}
