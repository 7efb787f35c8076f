package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lumen/internal/models"
	"lumen/internal/services"
	"lumen/internal/session"
)

// IngestHandler adds transactions by hand or from Gmail.
type IngestHandler struct {
	ingest   *services.IngestService
	sessions *session.Store
}

// NewIngestHandler creates a new IngestHandler.
func NewIngestHandler(ingest *services.IngestService, sessions *session.Store) *IngestHandler {
	return &IngestHandler{ingest: ingest, sessions: sessions}
}

// Manual records a transaction using the entry form of the session's user type.
func (h *IngestHandler) Manual(c *gin.Context) {
	ctx := c.Request.Context()
	if h.sessions.UserType() == models.UserTypeBusiness {
		var entry models.ManualBusinessEntry
		if err := bindJSON(c, &entry); err != nil {
			respondWithError(c, err)
			return
		}
		res, err := h.ingest.AddBusiness(ctx, entry)
		respond(c, http.StatusCreated, res, err)
		return
	}

	var entry models.ManualConsumerEntry
	if err := bindJSON(c, &entry); err != nil {
		respondWithError(c, err)
		return
	}
	res, err := h.ingest.AddConsumer(ctx, entry)
	respond(c, http.StatusCreated, res, err)
}

// GmailStatus reports whether Gmail is connected.
func (h *IngestHandler) GmailStatus(c *gin.Context) {
	st, err := h.ingest.GmailStatus(c.Request.Context())
	respond(c, http.StatusOK, st, err)
}

// GmailConnect returns the OAuth URL to visit.
func (h *IngestHandler) GmailConnect(c *gin.Context) {
	res, err := h.ingest.GmailConnect(c.Request.Context())
	respond(c, http.StatusOK, res, err)
}

// GmailSync imports receipts from the last ?days=N days.
func (h *IngestHandler) GmailSync(c *gin.Context) {
	days, err := queryInt(c, "days", services.DefaultSyncDays)
	if err != nil {
		respondWithError(c, err)
		return
	}
	res, err := h.ingest.GmailSync(c.Request.Context(), days)
	respond(c, http.StatusOK, res, err)
}
