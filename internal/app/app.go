// Package app wires configuration, local storage, the backend client and
// the stateful stores into one container shared by the CLI and the local
// web app.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"lumen/internal/client"
	"lumen/internal/config"
	"lumen/internal/database"
	"lumen/internal/handlers"
	"lumen/internal/logger"
	"lumen/internal/services"
	"lumen/internal/session"
	"lumen/internal/storage"
	"lumen/internal/toast"
	"lumen/internal/upload"
)

// App holds every long-lived component.
type App struct {
	Config *config.Config
	db     *database.Manager

	Sessions    *session.Store
	API         *client.Client
	Toasts      *toast.Store
	Coordinator *upload.Coordinator
	Modal       *upload.Modal

	Auth     *services.AuthService
	Profiles *services.ProfileService
	Review   *services.ReviewService
	Chat     *services.ChatService
	Ingest   *services.IngestService

	Dashboard   *services.DashboardView
	ReviewQueue *services.ReviewView
	Analytics   *services.AnalyticsView

	stopSessionHook func()
}

// New opens local storage described by dbCfg, runs its migrations and
// builds the app on top of it.
func New(cfg *config.Config, dbCfg *database.Config) (*App, error) {
	dbManager, err := database.NewManager(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open local storage: %w", err)
	}
	if err := dbManager.Migrate(); err != nil {
		_ = dbManager.Close()
		return nil, fmt.Errorf("failed to migrate local storage: %w", err)
	}

	a, err := NewWithStore(cfg, storage.NewDBStore(dbManager.DB()), nil)
	if err != nil {
		_ = dbManager.Close()
		return nil, err
	}
	a.db = dbManager
	return a, nil
}

// NewWithStore builds the app on an existing key-value store. A nil
// httpClient gets one bounded by cfg.RequestTimeout.
func NewWithStore(cfg *config.Config, kv storage.Store, httpClient *http.Client) (*App, error) {
	sessions, err := session.Open(storage.Seal(kv, cfg.StorageKey))
	if err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.RequestTimeout}
	}

	api := client.New(cfg.APIBaseURL, sessions, httpClient)
	toasts := toast.NewStore(cfg.ToastDuration)
	coord := upload.NewCoordinator()
	review := services.NewReviewService(api, toasts)

	a := &App{
		Config:      cfg,
		Sessions:    sessions,
		API:         api,
		Toasts:      toasts,
		Coordinator: coord,
		Modal:       upload.NewModal(coord, api, toasts, cfg.UploadCloseDelay),
		Auth:        services.NewAuthService(api, api, sessions),
		Profiles:    services.NewProfileService(api, sessions),
		Review:      review,
		Chat:        services.NewChatService(api),
		Ingest:      services.NewIngestService(api, sessions, toasts),
	}
	a.Dashboard = services.NewDashboardView(api, api, sessions, cfg.PollInterval, nil)
	a.ReviewQueue = services.NewReviewView(review, cfg.PollInterval, nil)
	a.Analytics = services.NewAnalyticsView(api, services.DefaultStatsDays, cfg.PollInterval, nil)
	a.stopSessionHook = sessions.OnEnd(a.endSession)
	return a, nil
}

// Router builds the local web app. Polled views run on ctx until they are
// unmounted.
func (a *App) Router(ctx context.Context) *gin.Engine {
	h := handlers.Handlers{
		Health:    handlers.NewHealthHandler(a.API),
		Auth:      handlers.NewAuthHandler(a.Auth, a.Sessions),
		Dashboard: handlers.NewDashboardHandler(ctx, a.Dashboard, a.Analytics),
		Review:    handlers.NewReviewHandler(ctx, a.ReviewQueue, a.Review),
		Profile:   handlers.NewProfileHandler(a.Profiles),
		Chat:      handlers.NewChatHandler(a.Chat),
		Upload:    handlers.NewUploadHandler(a.Coordinator, a.Modal),
		Ingest:    handlers.NewIngestHandler(a.Ingest, a.Sessions),
		Toasts:    handlers.NewToastHandler(a.Toasts),
	}
	return handlers.NewRouter(h, a.Sessions, a.Config.ServeKey)
}

// Serve runs the local web app on cfg.ListenAddr until ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:    a.Config.ListenAddr,
		Handler: a.Router(ctx),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Get().Infow("local app starting", "addr", a.Config.ListenAddr, "backend", a.API.BaseURL())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Get().Info("shutdown signal received")
		a.UnmountViews()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server exited: %w", err)
	}
}

// UnmountViews stops every poller and waits for in-flight fetches.
func (a *App) UnmountViews() {
	a.Dashboard.Unmount()
	a.ReviewQueue.Unmount()
	a.Analytics.Unmount()
}

// Close stops background work and releases local storage.
func (a *App) Close() error {
	a.stopSessionHook()
	a.UnmountViews()
	a.Modal.Close()
	a.Toasts.Close()
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// endSession runs whenever the session ends, whether the user signed out,
// another user signed in, or the backend rejected the token. Nothing held
// for the previous user survives it.
func (a *App) endSession() {
	a.Dashboard.Reset()
	a.ReviewQueue.Reset()
	a.Analytics.Reset()
	a.Chat.Reset()
	a.Modal.Dismiss()
}
