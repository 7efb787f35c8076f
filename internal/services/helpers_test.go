package services

import (
	"testing"
	"time"

	"lumen/internal/client"
	"lumen/internal/models"
	"lumen/internal/session"
	"lumen/internal/testutil"
	"lumen/internal/toast"
)

type env struct {
	backend  *testutil.FakeBackend
	sessions *session.Store
	api      *client.Client
	toasts   *toast.Store
}

func newEnv(t *testing.T) *env {
	t.Helper()
	backend := testutil.NewFakeBackend(t)
	sessions := testutil.NewSessionStore(t)
	toasts := toast.NewStore(time.Minute)
	t.Cleanup(toasts.Close)
	return &env{
		backend:  backend,
		sessions: sessions,
		api:      client.New(backend.URL(), sessions, backend.Server.Client()),
		toasts:   toasts,
	}
}

func newLoggedInEnv(t *testing.T) *env {
	t.Helper()
	e := newEnv(t)
	testutil.LoginTestUser(t, e.sessions, e.backend.Token)
	return e
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func flaggedPage(ids ...int64) models.FlaggedPage {
	page := models.FlaggedPage{Total: len(ids), PendingReview: len(ids)}
	for _, id := range ids {
		page.Transactions = append(page.Transactions, models.Transaction{ID: id, Flagged: true})
	}
	return page
}
