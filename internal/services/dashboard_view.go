package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"lumen/internal/logger"
	"lumen/internal/models"
	"lumen/internal/session"
)

const (
	// RecentCount is how many transactions the dashboard shows.
	RecentCount = 5
	// DefaultStatsDays is the period of the dashboard and analytics stats.
	DefaultStatsDays = 30

	dashboardFetchLimit = 100
)

// Dashboard is the home screen: profile, latest transactions and stats.
type Dashboard struct {
	Profile *models.Profile      `json:"profile"`
	Recent  []models.Transaction `json:"recent_transactions"`
	Stats   *models.Stats        `json:"stats"`
}

// DashboardView keeps the dashboard fresh while mounted.
type DashboardView struct {
	view[Dashboard]
	profiles ProfileAPI
	txs      TransactionAPI
	sessions *session.Store
}

// NewDashboardView creates an unmounted dashboard. onError may be nil.
func NewDashboardView(profiles ProfileAPI, txs TransactionAPI, sessions *session.Store, interval time.Duration, onError func(error)) *DashboardView {
	v := &DashboardView{profiles: profiles, txs: txs, sessions: sessions}
	v.init("dashboard", interval, v.fetch, nil, onError, v.expire)
	return v
}

func (v *DashboardView) fetch(ctx context.Context) (Dashboard, error) {
	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := v.profiles.Me(gctx)
		d.Profile = p
		return err
	})
	g.Go(func() error {
		page, err := v.txs.ListTransactions(gctx, models.ListParams{Limit: dashboardFetchLimit})
		if err != nil {
			return err
		}
		d.Recent = models.MostRecent(page.Transactions, RecentCount)
		return nil
	})
	g.Go(func() error {
		s, err := v.txs.Stats(gctx, DefaultStatsDays)
		d.Stats = s
		return err
	})

	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return d, nil
}

// expire signs out after the backend rejected the token while polling.
func (v *DashboardView) expire(cause error) {
	if err := expireSession(v.sessions, cause); err != nil && !isUnauthorized(err) {
		logger.Get().Warnw("failed to clear rejected session", "error", err)
	}
}
