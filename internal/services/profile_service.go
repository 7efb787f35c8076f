package services

import (
	"context"

	apperrors "lumen/internal/errors"
	"lumen/internal/logger"
	"lumen/internal/models"
	"lumen/internal/session"
	"lumen/internal/validator"
)

// ProfileService reads and edits the signed-in user's profile.
type ProfileService struct {
	api      ProfileAPI
	sessions *session.Store
}

// NewProfileService creates a ProfileService.
func NewProfileService(api ProfileAPI, sessions *session.Store) *ProfileService {
	return &ProfileService{api: api, sessions: sessions}
}

// Get fetches the profile. A rejected token ends the local session and
// yields ErrNotAuthenticated.
func (s *ProfileService) Get(ctx context.Context) (*models.Profile, error) {
	p, err := s.api.Me(ctx)
	if err != nil {
		return nil, s.handleAuthError(err)
	}
	return p, nil
}

// Update applies a partial profile update and mirrors it into the session.
func (s *ProfileService) Update(ctx context.Context, update models.ProfileUpdate) (*models.Profile, error) {
	if update.Empty() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Nothing to update")
	}
	if err := validator.Validate(&update); err != nil {
		return nil, err
	}

	p, err := s.api.UpdateProfile(ctx, update)
	if err != nil {
		return nil, s.handleAuthError(err)
	}
	if err := s.sessions.UpdateUser(patchFromProfile(p)); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateConsent changes which sources may be ingested.
func (s *ProfileService) UpdateConsent(ctx context.Context, update models.ConsentUpdate) (*models.Profile, error) {
	if update == (models.ConsentUpdate{}) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Nothing to update")
	}
	p, err := s.api.UpdateConsent(ctx, update)
	if err != nil {
		return nil, s.handleAuthError(err)
	}
	return p, nil
}

func (s *ProfileService) handleAuthError(err error) error {
	if !isUnauthorized(err) {
		return err
	}
	return expireSession(s.sessions, err)
}

// expireSession clears the local session after the backend rejected the
// token.
func expireSession(sessions *session.Store, cause error) error {
	logger.Get().Infow("session rejected by backend, signing out", "error", cause)
	if err := sessions.Logout(); err != nil {
		return err
	}
	return apperrors.Wrap(apperrors.ErrNotAuthenticated, cause)
}
