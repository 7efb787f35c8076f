package services

import (
	"context"
	"fmt"

	apperrors "lumen/internal/errors"
	"lumen/internal/models"
	"lumen/internal/validator"
)

// DefaultFlaggedLimit is the page size of the review queue.
const DefaultFlaggedLimit = 50

// ReviewService confirms or rejects transactions the anomaly detector flagged.
type ReviewService struct {
	api      TransactionAPI
	notifier Notifier
}

// NewReviewService creates a ReviewService.
func NewReviewService(api TransactionAPI, notifier Notifier) *ReviewService {
	return &ReviewService{api: api, notifier: notifier}
}

// Pending lists flagged transactions awaiting review.
func (s *ReviewService) Pending(ctx context.Context, limit int) (*models.FlaggedPage, error) {
	if limit <= 0 {
		limit = DefaultFlaggedLimit
	}
	return s.api.Flagged(ctx, models.FlaggedParams{Limit: limit, UnconfirmedOnly: true})
}

// Confirm marks a flagged transaction as legitimate.
func (s *ReviewService) Confirm(ctx context.Context, id int64, notes string) (*models.ConfirmResult, error) {
	return s.resolve(ctx, id, models.Confirmation{Confirmed: true, Notes: notes})
}

// Reject marks a flagged transaction as not the user's.
func (s *ReviewService) Reject(ctx context.Context, id int64, notes string) (*models.ConfirmResult, error) {
	return s.resolve(ctx, id, models.Confirmation{Confirmed: false, Notes: notes})
}

// Explain returns the backend's reason for flagging a transaction.
func (s *ReviewService) Explain(ctx context.Context, id int64) (*models.Explanation, error) {
	if id <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid transaction id")
	}
	return s.api.Explain(ctx, id)
}

func (s *ReviewService) resolve(ctx context.Context, id int64, conf models.Confirmation) (*models.ConfirmResult, error) {
	if id <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid transaction id")
	}
	if err := validator.Validate(&conf); err != nil {
		return nil, err
	}

	res, err := s.api.ConfirmTransaction(ctx, id, conf)
	if err != nil {
		s.notifier.Error(apperrors.Message(err))
		return nil, err
	}

	msg := res.Message
	if msg == "" {
		verb := "confirmed"
		if !conf.Confirmed {
			verb = "rejected"
		}
		msg = fmt.Sprintf("Transaction %d %s", id, verb)
	}
	s.notifier.Success(msg)
	return res, nil
}
