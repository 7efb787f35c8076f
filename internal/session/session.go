// Package session holds the signed-in user and their bearer token in one
// durable record. Authentication is derived from that record: a session is
// authenticated exactly when it holds a token that has not expired.
package session

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "lumen/internal/errors"
	"lumen/internal/logger"
	"lumen/internal/models"
	"lumen/internal/storage"
)

// StorageKey is the fixed namespace the session record is persisted under.
const StorageKey = "lumen-auth-storage"

// record is the persisted shape.
type record struct {
	Token    string          `json:"token,omitempty"`
	User     *models.User    `json:"user,omitempty"`
	UserType models.UserType `json:"user_type,omitempty"`
}

// Store is the session store. All methods are safe for concurrent use.
type Store struct {
	mu  sync.RWMutex
	kv  storage.Store
	rec record
	now func() time.Time

	hooks    map[int]func()
	nextHook int
}

// Open loads the persisted session from kv. A missing record yields an empty
// session; one that cannot be opened or decoded is logged, deleted and
// treated as signed out.
func Open(kv storage.Store) (*Store, error) {
	s := &Store{kv: kv, now: time.Now, hooks: make(map[int]func())}

	raw, ok, err := kv.Get(StorageKey)
	switch {
	case errors.Is(err, storage.ErrSealedValue):
		s.discard(err)
		return s, nil
	case err != nil:
		return nil, err
	case !ok:
		return s, nil
	}
	if err := json.Unmarshal(raw, &s.rec); err != nil {
		s.rec = record{}
		s.discard(err)
	}
	return s, nil
}

func (s *Store) discard(cause error) {
	logger.Get().Warnw("discarding unreadable session record", "error", cause)
	if err := s.kv.Delete(StorageKey); err != nil {
		logger.Get().Warnw("failed to delete unreadable session record", "error", err)
	}
}

// OnEnd registers fn to run each time a session ends: on Logout, and when
// Login replaces an existing session. fn runs after the store is updated,
// without any store lock held. The returned func unregisters it.
func (s *Store) OnEnd(fn func()) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextHook
	s.nextHook++
	s.hooks[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.hooks, id)
	}
}

// Login replaces the session with user and token. An empty userType falls
// back to the user's own type.
func (s *Store) Login(token string, user models.User, userType models.UserType) error {
	if token == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Login response did not include an access token")
	}
	if userType == "" {
		userType = user.UserType
	}

	s.mu.Lock()
	replaced := s.rec.present()
	if err := s.persist(record{Token: token, User: &user, UserType: userType}); err != nil {
		s.mu.Unlock()
		return err
	}
	hooks := s.hooksLocked(replaced)
	s.mu.Unlock()

	runHooks(hooks)
	return nil
}

// Logout clears the user, the user type and the token.
func (s *Store) Logout() error {
	s.mu.Lock()
	if err := s.kv.Delete(StorageKey); err != nil {
		s.mu.Unlock()
		return err
	}
	hooks := s.hooksLocked(s.rec.present())
	s.rec = record{}
	s.mu.Unlock()

	runHooks(hooks)
	return nil
}

func (s *Store) hooksLocked(ended bool) []func() {
	if !ended {
		return nil
	}
	hooks := make([]func(), 0, len(s.hooks))
	for _, fn := range s.hooks {
		hooks = append(hooks, fn)
	}
	return hooks
}

func runHooks(hooks []func()) {
	for _, fn := range hooks {
		fn()
	}
}

func (r record) present() bool {
	return r.Token != "" || r.User != nil
}

// UpdateUser merges patch into the current user. Without a user it does nothing.
func (s *Store) UpdateUser(patch models.UserPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rec.User == nil {
		return nil
	}
	next := s.rec
	merged := next.User.Merge(patch)
	next.User = &merged
	return s.persist(next)
}

// SetUserType changes the active user type without touching the user.
func (s *Store) SetUserType(t models.UserType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.rec
	next.UserType = t
	return s.persist(next)
}

// User returns a copy of the current user, or nil when signed out.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.rec.User == nil {
		return nil
	}
	u := *s.rec.User
	return &u
}

// UserType returns the active user type.
func (s *Store) UserType() models.UserType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rec.UserType
}

// Token returns the bearer token when the session is authenticated.
func (s *Store) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.validLocked() {
		return "", false
	}
	return s.rec.Token, true
}

// IsAuthenticated reports whether a non-expired token is held.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.validLocked()
}

// Snapshot returns the read view of the session.
func (s *Store) Snapshot() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := models.Session{
		UserType:        s.rec.UserType,
		IsAuthenticated: s.validLocked(),
	}
	if u := s.rec.User; u != nil {
		snap.UserID = u.ID
		snap.DisplayName = u.DisplayName()
		snap.Email = u.Email
	}
	return snap
}

// persist writes next and, only once that succeeds, makes it current.
func (s *Store) persist(next record) error {
	raw, err := json.Marshal(next)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStorage, err)
	}
	if err := s.kv.Set(StorageKey, raw); err != nil {
		return err
	}
	s.rec = next
	return nil
}

func (s *Store) validLocked() bool {
	if s.rec.Token == "" {
		return false
	}
	return !tokenExpired(s.rec.Token, s.now())
}

// tokenExpired reads the exp claim without verifying the signature; the
// backend remains the authority on validity. Tokens that are not JWTs or
// carry no exp are treated as live.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !now.Before(exp.Time)
}
