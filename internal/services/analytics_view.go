package services

import (
	"context"
	"sync/atomic"
	"time"

	"lumen/internal/models"
)

// MaxStatsDays is the longest period the stats can be requested for.
const MaxStatsDays = 3650

// AnalyticsView keeps the stats for a chosen period fresh.
type AnalyticsView struct {
	view[models.Stats]
	txs     TransactionAPI
	days    atomic.Int64
	initial int
}

// NewAnalyticsView creates an unmounted analytics view over days. onError may be nil.
func NewAnalyticsView(txs TransactionAPI, days int, interval time.Duration, onError func(error)) *AnalyticsView {
	if days <= 0 || days > MaxStatsDays {
		days = DefaultStatsDays
	}
	v := &AnalyticsView{txs: txs, initial: days}
	v.days.Store(int64(days))
	v.init("analytics", interval, v.fetch, nil, onError, nil)
	return v
}

// Days returns the period in days.
func (v *AnalyticsView) Days() int { return int(v.days.Load()) }

// SetDays changes the period and refetches. Periods outside
// 1..MaxStatsDays are ignored.
func (v *AnalyticsView) SetDays(days int) {
	if days <= 0 || days > MaxStatsDays || days == v.Days() {
		return
	}
	v.days.Store(int64(days))
	v.Refresh()
}

// Reset stops polling, forgets the stats and returns to the initial period.
func (v *AnalyticsView) Reset() {
	v.view.Reset()
	v.days.Store(int64(v.initial))
}

// Snapshot reports the stats as loaded only once they cover the current
// period.
func (v *AnalyticsView) Snapshot() Snapshot[models.Stats] {
	snap := v.view.Snapshot()
	if snap.Loaded && snap.Data.PeriodDays != v.Days() {
		snap.Loaded = false
	}
	return snap
}

func (v *AnalyticsView) fetch(ctx context.Context) (models.Stats, error) {
	days := v.Days()
	s, err := v.txs.Stats(ctx, days)
	if err != nil {
		return models.Stats{}, err
	}
	stats := *s
	stats.PeriodDays = days
	return stats, nil
}
