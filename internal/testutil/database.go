// Package testutil provides test helpers for local storage, session
// fixtures and a fake Lumen backend.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"lumen/internal/database"
	"lumen/internal/models"
	"lumen/internal/session"
	"lumen/internal/storage"
)

// SetupTestDB creates a migrated SQLite database in a temporary directory.
// The database is closed when the test ends.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	mgr, err := database.NewManager(&database.Config{
		Driver: database.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "lumen.db"),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if err := mgr.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})

	if err := mgr.Migrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return mgr.DB()
}

// NewSessionStore opens a session store backed by a fresh test database.
func NewSessionStore(t *testing.T) *session.Store {
	t.Helper()

	s, err := session.Open(storage.NewDBStore(SetupTestDB(t)))
	if err != nil {
		t.Fatalf("failed to open session store: %v", err)
	}
	return s
}

// SignedToken returns an HS256 JWT for subject that expires after ttl.
func SignedToken(t *testing.T, subject string, ttl time.Duration) string {
	t.Helper()

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	})
	s, err := tok.SignedString([]byte("testutil-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return s
}

// LoginTestUser signs the test user into s with a valid token.
func LoginTestUser(t *testing.T, s *session.Store, token string) models.User {
	t.Helper()

	user := models.User{
		ID:        "1",
		FirstName: "Asha",
		LastName:  "Rao",
		Email:     TestEmail,
		UserType:  models.UserTypeConsumer,
	}
	if err := s.Login(token, user, models.UserTypeConsumer); err != nil {
		t.Fatalf("failed to log in test user: %v", err)
	}
	return user
}
