package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	apperrors "lumen/internal/errors"
	"lumen/internal/models"
	"lumen/internal/testutil"
)

type mockAuthAPI struct {
	LoginFn        func(ctx context.Context, req models.LoginRequest) (*models.Token, error)
	RegisterFn     func(ctx context.Context, req models.RegisterRequest) (*models.Token, error)
	LogoutFn       func(ctx context.Context) error
	UploadAvatarFn func(ctx context.Context, filename string, r io.Reader) (*models.AvatarResult, error)
}

func (m *mockAuthAPI) Login(ctx context.Context, req models.LoginRequest) (*models.Token, error) {
	return m.LoginFn(ctx, req)
}

func (m *mockAuthAPI) Register(ctx context.Context, req models.RegisterRequest) (*models.Token, error) {
	return m.RegisterFn(ctx, req)
}

func (m *mockAuthAPI) Logout(ctx context.Context) error { return m.LogoutFn(ctx) }

func (m *mockAuthAPI) UploadAvatar(ctx context.Context, filename string, r io.Reader) (*models.AvatarResult, error) {
	return m.UploadAvatarFn(ctx, filename, r)
}

func TestAuthService_Login(t *testing.T) {
	t.Run("valid credentials open a session", func(t *testing.T) {
		e := newEnv(t)
		svc := NewAuthService(e.api, e.api, e.sessions)

		sess, err := svc.Login(context.Background(), models.LoginRequest{
			Email: " Asha@Example.com ", Password: testutil.TestPassword, UserType: models.UserTypeConsumer,
		})
		testutil.AssertNoError(t, err)

		if !sess.IsAuthenticated || sess.UserID != "1" || sess.UserType != models.UserTypeConsumer {
			t.Errorf("unexpected session: %+v", sess)
		}
		if sess.DisplayName != "Asha Rao" {
			t.Errorf("expected profile name in session, got %q", sess.DisplayName)
		}
		if tok, _ := e.sessions.Token(); tok != e.backend.Token {
			t.Error("expected backend token to be stored")
		}
	})

	t.Run("wrong password leaves session untouched", func(t *testing.T) {
		e := newEnv(t)
		svc := NewAuthService(e.api, e.api, e.sessions)

		_, err := svc.Login(context.Background(), models.LoginRequest{
			Email: testutil.TestEmail, Password: "wrong", UserType: models.UserTypeConsumer,
		})
		testutil.AssertAppError(t, err, apperrors.ErrUnauthorized.Code)
		if err.Error() != "Incorrect email or password" {
			t.Errorf("expected server detail, got %q", err.Error())
		}
		if e.sessions.IsAuthenticated() || e.sessions.User() != nil {
			t.Error("failed login must not mutate the session")
		}
	})

	t.Run("invalid form never reaches the backend", func(t *testing.T) {
		e := newEnv(t)
		svc := NewAuthService(e.api, e.api, e.sessions)

		_, err := svc.Login(context.Background(), models.LoginRequest{Email: "not-an-email", Password: "x", UserType: models.UserTypeConsumer})
		testutil.AssertAppError(t, err, apperrors.ErrInvalidInput.Code)
		if e.backend.Calls("/api/v1/auth/login") != 0 {
			t.Error("backend must not be called for an invalid form")
		}
	})

	t.Run("network failure", func(t *testing.T) {
		sessions := testutil.NewSessionStore(t)
		svc := NewAuthService(&mockAuthAPI{
			LoginFn: func(context.Context, models.LoginRequest) (*models.Token, error) {
				return nil, apperrors.Wrap(apperrors.ErrNetwork, errors.New("dial tcp: refused"))
			},
		}, nil, sessions)

		_, err := svc.Login(context.Background(), models.LoginRequest{Email: "a@b.co", Password: "x", UserType: models.UserTypeBusiness})
		testutil.AssertAppError(t, err, apperrors.ErrNetwork.Code)
		if sessions.IsAuthenticated() {
			t.Error("session must stay signed out")
		}
	})
}

func TestAuthService_Register(t *testing.T) {
	t.Run("uploads avatar then signs in", func(t *testing.T) {
		e := newEnv(t)
		svc := NewAuthService(e.api, e.api, e.sessions)

		sess, err := svc.Register(context.Background(), models.RegisterRequest{
			Email:    "new@shop.in",
			Password: "longenough",
			Name:     "Ravi Kumar Shah",
			UserType: models.UserTypeConsumer,
		}, &Avatar{Filename: "me.png", Content: strings.NewReader("png")})
		testutil.AssertNoError(t, err)

		if sess.DisplayName != "Ravi Kumar Shah" || !sess.IsAuthenticated {
			t.Errorf("unexpected session: %+v", sess)
		}
		if u := e.sessions.User(); u.FirstName != "Ravi" || u.LastName != "Kumar Shah" || u.Avatar != "/static/avatars/me.png" {
			t.Errorf("unexpected user: %+v", u)
		}
	})

	t.Run("avatar failure does not block registration", func(t *testing.T) {
		sessions := testutil.NewSessionStore(t)
		var sent models.RegisterRequest
		svc := NewAuthService(&mockAuthAPI{
			UploadAvatarFn: func(context.Context, string, io.Reader) (*models.AvatarResult, error) {
				return nil, apperrors.FromStatus(413, "File too large")
			},
			RegisterFn: func(_ context.Context, req models.RegisterRequest) (*models.Token, error) {
				sent = req
				return &models.Token{AccessToken: "tok", UserID: "9"}, nil
			},
		}, nil, sessions)

		_, err := svc.Register(context.Background(), models.RegisterRequest{
			Email: "b@c.co", Password: "longenough", Name: "B", UserType: models.UserTypeConsumer,
		}, &Avatar{Filename: "big.png", Content: strings.NewReader("x")})
		testutil.AssertNoError(t, err)
		if sent.AvatarURL != "" {
			t.Errorf("expected no avatar url, got %q", sent.AvatarURL)
		}
	})

	t.Run("duplicate email surfaces detail", func(t *testing.T) {
		e := newEnv(t)
		svc := NewAuthService(e.api, e.api, e.sessions)

		_, err := svc.Register(context.Background(), models.RegisterRequest{
			Email: testutil.TestEmail, Password: "longenough", Name: "Asha", UserType: models.UserTypeConsumer,
		}, nil)
		testutil.AssertAppError(t, err, apperrors.ErrInvalidInput.Code)
		if err.Error() != "Email already registered" {
			t.Errorf("unexpected message %q", err.Error())
		}
	})
}

func TestAuthService_Logout(t *testing.T) {
	t.Run("clears session even when backend fails", func(t *testing.T) {
		sessions := testutil.NewSessionStore(t)
		testutil.LoginTestUser(t, sessions, "tok")
		called := false
		svc := NewAuthService(&mockAuthAPI{
			LogoutFn: func(context.Context) error {
				called = true
				return apperrors.ErrServer
			},
		}, nil, sessions)

		testutil.AssertNoError(t, svc.Logout(context.Background()))
		if !called {
			t.Error("expected backend logout")
		}
		if sessions.IsAuthenticated() || sessions.User() != nil {
			t.Error("expected cleared session")
		}
	})

	t.Run("skips backend when signed out", func(t *testing.T) {
		sessions := testutil.NewSessionStore(t)
		svc := NewAuthService(&mockAuthAPI{
			LogoutFn: func(context.Context) error {
				t.Error("backend must not be called without a session")
				return nil
			},
		}, nil, sessions)
		testutil.AssertNoError(t, svc.Logout(context.Background()))
	})
}

func TestSplitName(t *testing.T) {
	tests := []struct{ in, first, last string }{
		{"Asha Rao", "Asha", "Rao"},
		{"Ravi Kumar Shah", "Ravi", "Kumar Shah"},
		{"Mononym", "Mononym", ""},
		{"  ", "User", ""},
	}
	for _, tt := range tests {
		first, last := SplitName(tt.in)
		if first != tt.first || last != tt.last {
			t.Errorf("SplitName(%q) = %q, %q; want %q, %q", tt.in, first, last, tt.first, tt.last)
		}
	}
}
