package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lumen/internal/middleware"
	"lumen/internal/validator"
)

// Handlers groups every page handler of the local app.
type Handlers struct {
	Health    *HealthHandler
	Auth      *AuthHandler
	Dashboard *DashboardHandler
	Review    *ReviewHandler
	Profile   *ProfileHandler
	Chat      *ChatHandler
	Upload    *UploadHandler
	Ingest    *IngestHandler
	Toasts    *ToastHandler
}

// NewRouter builds the gin engine of the local app. A non-empty localKey
// must accompany every request.
func NewRouter(h Handlers, sessions middleware.SessionSource, localKey string) *gin.Engine {
	validator.Register()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.LocalKey(localKey))

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/dashboard")
	})

	// Public routes
	router.GET("/health", h.Health.Health)
	auth := router.Group("/auth")
	auth.GET("", h.Auth.Page)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/register", h.Auth.Register)

	// Guarded routes
	guarded := router.Group("/")
	guarded.Use(middleware.RequireSession(sessions))

	guarded.POST("/auth/logout", h.Auth.Logout)

	guarded.GET("/dashboard", h.Dashboard.Dashboard)
	guarded.GET("/analytics", h.Dashboard.Analytics)

	review := guarded.Group("/review")
	review.GET("", h.Review.Queue)
	review.POST("/:id/confirm", h.Review.Confirm)
	review.POST("/:id/reject", h.Review.Reject)
	review.GET("/:id/explain", h.Review.Explain)

	profile := guarded.Group("/profile")
	profile.GET("", h.Profile.Get)
	profile.PATCH("", h.Profile.Update)
	profile.PATCH("/consent", h.Profile.UpdateConsent)

	chat := guarded.Group("/chat")
	chat.POST("", h.Chat.Send)
	chat.GET("/history", h.Chat.History)
	chat.POST("/reset", h.Chat.Reset)

	up := guarded.Group("/upload")
	up.GET("", h.Upload.State)
	up.POST("/open", h.Upload.Open)
	up.POST("/select", h.Upload.Select)
	up.POST("/submit", h.Upload.Submit)
	up.POST("/dismiss", h.Upload.Dismiss)

	guarded.POST("/transactions/manual", h.Ingest.Manual)
	gmail := guarded.Group("/gmail")
	gmail.GET("/status", h.Ingest.GmailStatus)
	gmail.POST("/connect", h.Ingest.GmailConnect)
	gmail.POST("/sync", h.Ingest.GmailSync)

	guarded.GET("/toasts", h.Toasts.List)
	guarded.DELETE("/toasts/:id", h.Toasts.Dismiss)

	return router
}
