package services

import (
	"context"

	apperrors "lumen/internal/errors"
	"lumen/internal/models"
	"lumen/internal/session"
	"lumen/internal/validator"
)

// DefaultSyncDays is how far back a Gmail sync looks by default.
const DefaultSyncDays = 30

// IngestService adds transactions by hand or from connected sources.
type IngestService struct {
	api      IngestAPI
	sessions *session.Store
	notifier Notifier
}

// NewIngestService creates an IngestService.
func NewIngestService(api IngestAPI, sessions *session.Store, notifier Notifier) *IngestService {
	return &IngestService{api: api, sessions: sessions, notifier: notifier}
}

// AddConsumer records a personal transaction. Only consumer sessions may use it.
func (s *IngestService) AddConsumer(ctx context.Context, entry models.ManualConsumerEntry) (*models.ManualEntryResult, error) {
	if err := s.requireType(models.UserTypeConsumer); err != nil {
		return nil, err
	}
	if err := validator.Validate(&entry); err != nil {
		return nil, err
	}
	return s.notify(s.api.ManualConsumer(ctx, entry))
}

// AddBusiness records a business transaction. Only business sessions may use it.
func (s *IngestService) AddBusiness(ctx context.Context, entry models.ManualBusinessEntry) (*models.ManualEntryResult, error) {
	if err := s.requireType(models.UserTypeBusiness); err != nil {
		return nil, err
	}
	if err := validator.Validate(&entry); err != nil {
		return nil, err
	}
	return s.notify(s.api.ManualBusiness(ctx, entry))
}

// GmailStatus reports whether Gmail is connected.
func (s *IngestService) GmailStatus(ctx context.Context) (*models.GmailStatus, error) {
	return s.api.GmailStatus(ctx)
}

// GmailConnect starts the OAuth flow and returns the URL to visit.
func (s *IngestService) GmailConnect(ctx context.Context) (*models.GmailConnectResult, error) {
	return s.api.GmailConnect(ctx)
}

// GmailSync imports recent email receipts.
func (s *IngestService) GmailSync(ctx context.Context, daysBack int) (*models.SyncResult, error) {
	if daysBack <= 0 {
		daysBack = DefaultSyncDays
	}
	res, err := s.api.GmailSync(ctx, daysBack)
	if err != nil {
		s.notifier.Error(apperrors.Message(err))
		return nil, err
	}
	s.notifier.Info(res.Message)
	return res, nil
}

func (s *IngestService) requireType(want models.UserType) error {
	got := s.sessions.UserType()
	if got != "" && got != want {
		return apperrors.WithMessage(apperrors.ErrForbidden, "This entry form is for "+string(want)+" accounts")
	}
	return nil
}

func (s *IngestService) notify(res *models.ManualEntryResult, err error) (*models.ManualEntryResult, error) {
	if err != nil {
		s.notifier.Error(apperrors.Message(err))
		return nil, err
	}
	msg := res.Message
	if msg == "" {
		msg = "Transaction saved"
	}
	s.notifier.Success(msg)
	return res, nil
}
