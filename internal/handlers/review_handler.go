package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"lumen/internal/models"
	"lumen/internal/services"
)

// ReviewHandler serves the queue of flagged transactions.
type ReviewHandler struct {
	ctx  context.Context
	view *services.ReviewView
	svc  *services.ReviewService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(ctx context.Context, view *services.ReviewView, svc *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{ctx: ctx, view: view, svc: svc}
}

// reviewRequest is the optional body of confirm and reject.
type reviewRequest struct {
	Notes string `json:"notes"`
}

// Queue returns the flagged transactions awaiting review.
func (h *ReviewHandler) Queue(c *gin.Context) {
	h.view.Mount(h.ctx)
	if c.Query("refresh") == "1" {
		h.view.Refresh()
	}
	respond(c, http.StatusOK, h.view.Snapshot(), nil)
}

// Confirm marks a flagged transaction as legitimate.
func (h *ReviewHandler) Confirm(c *gin.Context) {
	h.resolve(c, h.view.Confirm)
}

// Reject marks a flagged transaction as fraudulent.
func (h *ReviewHandler) Reject(c *gin.Context) {
	h.resolve(c, h.view.Reject)
}

// Explain returns why a transaction was flagged.
func (h *ReviewHandler) Explain(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	exp, err := h.svc.Explain(c.Request.Context(), id)
	respond(c, http.StatusOK, exp, err)
}

func (h *ReviewHandler) resolve(c *gin.Context, fn func(context.Context, int64, string) (*models.ConfirmResult, error)) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	var req reviewRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}
	res, err := fn(c.Request.Context(), id, req.Notes)
	respond(c, http.StatusOK, res, err)
}
