package services

import (
	"context"
	"sync"
	"time"

	"lumen/internal/models"
)

// ReviewView keeps the queue of flagged, unreviewed transactions fresh and
// drops resolved items locally before the backend reflects them.
type ReviewView struct {
	view[models.FlaggedPage]
	svc *ReviewService

	resolvedMu sync.Mutex
	resolved   map[int64]struct{}
}

// NewReviewView creates an unmounted review queue. onError may be nil.
func NewReviewView(svc *ReviewService, interval time.Duration, onError func(error)) *ReviewView {
	v := &ReviewView{svc: svc, resolved: make(map[int64]struct{})}
	v.init("review", interval, v.fetch, v.hideResolved, onError, nil)
	return v
}

// Confirm confirms id and removes it from the queue.
func (v *ReviewView) Confirm(ctx context.Context, id int64, notes string) (*models.ConfirmResult, error) {
	res, err := v.svc.Confirm(ctx, id, notes)
	if err != nil {
		return nil, err
	}
	v.remove(id)
	return res, nil
}

// Reject rejects id and removes it from the queue.
func (v *ReviewView) Reject(ctx context.Context, id int64, notes string) (*models.ConfirmResult, error) {
	res, err := v.svc.Reject(ctx, id, notes)
	if err != nil {
		return nil, err
	}
	v.remove(id)
	return res, nil
}

// Reset stops polling and forgets both the queue and local resolutions.
func (v *ReviewView) Reset() {
	v.view.Reset()

	v.resolvedMu.Lock()
	clear(v.resolved)
	v.resolvedMu.Unlock()
}

func (v *ReviewView) fetch(ctx context.Context) (models.FlaggedPage, error) {
	page, err := v.svc.Pending(ctx, DefaultFlaggedLimit)
	if err != nil {
		return models.FlaggedPage{}, err
	}
	return *page, nil
}

func (v *ReviewView) remove(id int64) {
	v.resolvedMu.Lock()
	v.resolved[id] = struct{}{}
	v.resolvedMu.Unlock()

	v.update(func(p models.FlaggedPage) models.FlaggedPage { return p.Without(id) })
}

// hideResolved filters locally resolved ids out of a fetched page. Ids the
// backend no longer returns are forgotten.
func (v *ReviewView) hideResolved(page models.FlaggedPage) models.FlaggedPage {
	v.resolvedMu.Lock()
	defer v.resolvedMu.Unlock()

	present := make(map[int64]bool, len(page.Transactions))
	for _, tx := range page.Transactions {
		present[tx.ID] = true
	}
	for id := range v.resolved {
		if !present[id] {
			delete(v.resolved, id)
			continue
		}
		page = page.Without(id)
	}
	return page
}
