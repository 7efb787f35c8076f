package services

import (
	"context"
	"errors"
	"io"
	"strings"

	apperrors "lumen/internal/errors"
	"lumen/internal/logger"
	"lumen/internal/models"
	"lumen/internal/session"
	"lumen/internal/validator"
)

// Avatar is an optional profile picture sent with a registration.
type Avatar struct {
	Filename string
	Content  io.Reader
}

// AuthService signs users in and out.
type AuthService struct {
	api      AuthAPI
	profiles ProfileAPI
	sessions *session.Store
}

// NewAuthService creates an AuthService. profiles may be nil, in which case
// the session is not enriched from the profile after login.
func NewAuthService(api AuthAPI, profiles ProfileAPI, sessions *session.Store) *AuthService {
	return &AuthService{api: api, profiles: profiles, sessions: sessions}
}

// Login validates the form, authenticates against the backend and opens a
// session. On failure the session is left untouched.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (models.Session, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if err := validator.Validate(&req); err != nil {
		return models.Session{}, err
	}

	tok, err := s.api.Login(ctx, req)
	if err != nil {
		return models.Session{}, err
	}

	user := models.User{
		ID:        tok.UserID,
		FirstName: "User",
		Email:     req.Email,
		UserType:  req.UserType,
	}
	if err := s.sessions.Login(tok.AccessToken, user, req.UserType); err != nil {
		return models.Session{}, err
	}
	s.hydrate(ctx)

	logger.Get().Infow("signed in", "user_id", tok.UserID, "user_type", req.UserType)
	return s.sessions.Snapshot(), nil
}

// Register creates an account, optionally uploading an avatar first, and
// opens a session for it. A failed avatar upload does not block registration.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest, avatar *Avatar) (models.Session, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.GSTIN = strings.ToUpper(strings.TrimSpace(req.GSTIN))
	if err := validator.Validate(&req); err != nil {
		return models.Session{}, err
	}

	if avatar != nil && req.AvatarURL == "" {
		res, err := s.api.UploadAvatar(ctx, avatar.Filename, avatar.Content)
		if err != nil {
			logger.Get().Warnw("avatar upload failed, registering without one", "error", err)
		} else {
			req.AvatarURL = res.AvatarURL
		}
	}

	tok, err := s.api.Register(ctx, req)
	if err != nil {
		return models.Session{}, err
	}

	first, last := SplitName(req.Name)
	user := models.User{
		ID:        tok.UserID,
		FirstName: first,
		LastName:  last,
		Email:     req.Email,
		Avatar:    req.AvatarURL,
		UserType:  req.UserType,
	}
	if err := s.sessions.Login(tok.AccessToken, user, req.UserType); err != nil {
		return models.Session{}, err
	}

	logger.Get().Infow("registered", "user_id", tok.UserID, "user_type", req.UserType)
	return s.sessions.Snapshot(), nil
}

// Logout ends the backend session when one is held and always clears the
// local one.
func (s *AuthService) Logout(ctx context.Context) error {
	if s.sessions.IsAuthenticated() {
		if err := s.api.Logout(ctx); err != nil {
			logger.Get().Warnw("backend logout failed, clearing local session", "error", err)
		}
	}
	return s.sessions.Logout()
}

// hydrate replaces the placeholder name with the profile's. Failures are
// logged only.
func (s *AuthService) hydrate(ctx context.Context) {
	if s.profiles == nil {
		return
	}
	p, err := s.profiles.Me(ctx)
	if err != nil {
		logger.Get().Debugw("profile fetch after login failed", "error", err)
		return
	}
	if err := s.sessions.UpdateUser(patchFromProfile(p)); err != nil {
		logger.Get().Warnw("failed to store profile in session", "error", err)
	}
}

// SplitName splits a full name at the first space.
func SplitName(name string) (first, last string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "User", ""
	}
	first, last, _ = strings.Cut(name, " ")
	return first, strings.TrimSpace(last)
}

func patchFromProfile(p *models.Profile) models.UserPatch {
	first, last := SplitName(p.Name)
	patch := models.UserPatch{FirstName: &first, LastName: &last}
	if p.Email != "" {
		patch.Email = &p.Email
	}
	if p.AvatarURL != "" {
		patch.Avatar = &p.AvatarURL
	}
	return patch
}

// isUnauthorized reports whether err means the backend rejected our token.
func isUnauthorized(err error) bool {
	return errors.Is(err, apperrors.ErrUnauthorized) || errors.Is(err, apperrors.ErrNotAuthenticated)
}
