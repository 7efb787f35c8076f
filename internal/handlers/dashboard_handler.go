package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"lumen/internal/models"
	"lumen/internal/services"
)

// DashboardHandler serves the polled dashboard and analytics pages.
type DashboardHandler struct {
	ctx       context.Context
	dashboard *services.DashboardView
	analytics *services.AnalyticsView
}

// NewDashboardHandler creates a new DashboardHandler. Views are mounted on
// ctx the first time their page is requested.
func NewDashboardHandler(ctx context.Context, dashboard *services.DashboardView, analytics *services.AnalyticsView) *DashboardHandler {
	return &DashboardHandler{ctx: ctx, dashboard: dashboard, analytics: analytics}
}

// Dashboard returns the latest profile, recent transactions and stats.
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	h.dashboard.Mount(h.ctx)
	if c.Query("refresh") == "1" {
		h.dashboard.Refresh()
	}
	respond(c, http.StatusOK, h.dashboard.Snapshot(), nil)
}

// analyticsResponse carries the period the stats cover.
type analyticsResponse struct {
	Days int `json:"days"`
	services.Snapshot[models.Stats]
}

// Analytics returns stats for ?days=N, defaulting to the current period.
func (h *DashboardHandler) Analytics(c *gin.Context) {
	days, err := queryIntMax(c, "days", h.analytics.Days(), services.MaxStatsDays)
	if err != nil {
		respondWithError(c, err)
		return
	}
	h.analytics.Mount(h.ctx)
	h.analytics.SetDays(days)
	respond(c, http.StatusOK, analyticsResponse{Days: h.analytics.Days(), Snapshot: h.analytics.Snapshot()}, nil)
}
