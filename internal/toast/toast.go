// Package toast is the process-wide queue of short-lived notifications.
package toast

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind is the severity of a toast.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
)

// DefaultDuration is how long a toast stays queued unless dismissed.
const DefaultDuration = 5 * time.Second

// Toast is one queued notification.
type Toast struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Store holds toasts in insertion order. Each toast removes itself after the
// configured duration.
type Store struct {
	mu          sync.Mutex
	duration    time.Duration
	toasts      []Toast
	timers      map[string]*time.Timer
	subscribers map[int]func([]Toast)
	nextSub     int
	closed      bool
	now         func() time.Time
}

// NewStore creates a store whose toasts expire after duration. A
// non-positive duration disables expiry.
func NewStore(duration time.Duration) *Store {
	return &Store{
		duration:    duration,
		timers:      make(map[string]*time.Timer),
		subscribers: make(map[int]func([]Toast)),
		now:         time.Now,
	}
}

// Add appends a toast and returns its id. Unknown kinds are shown as info.
func (s *Store) Add(kind Kind, message string) string {
	switch kind {
	case KindSuccess, KindError, KindInfo, KindWarning:
	default:
		kind = KindInfo
	}

	s.mu.Lock()
	t := Toast{ID: newID(), Kind: kind, Message: message, CreatedAt: s.now()}
	s.toasts = append(s.toasts, t)
	if s.duration > 0 && !s.closed {
		id := t.ID
		s.timers[id] = time.AfterFunc(s.duration, func() { s.Remove(id) })
	}
	snapshot, subs := s.snapshotLocked()
	s.mu.Unlock()

	notify(subs, snapshot)
	return t.ID
}

// Success adds a success toast.
func (s *Store) Success(message string) string { return s.Add(KindSuccess, message) }

// Error adds an error toast.
func (s *Store) Error(message string) string { return s.Add(KindError, message) }

// Info adds an info toast.
func (s *Store) Info(message string) string { return s.Add(KindInfo, message) }

// Warning adds a warning toast.
func (s *Store) Warning(message string) string { return s.Add(KindWarning, message) }

// Remove drops the toast with id. Unknown ids are ignored.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	if timer, ok := s.timers[id]; ok {
		timer.Stop()
		delete(s.timers, id)
	}
	idx := -1
	for i, t := range s.toasts {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.toasts = append(s.toasts[:idx:idx], s.toasts[idx+1:]...)
	snapshot, subs := s.snapshotLocked()
	s.mu.Unlock()

	notify(subs, snapshot)
}

// List returns the queued toasts, oldest first.
func (s *Store) List() []Toast {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Toast(nil), s.toasts...)
}

// Len returns the number of queued toasts.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.toasts)
}

// Subscribe registers fn to receive the queue after every change. The
// returned func cancels the subscription.
func (s *Store) Subscribe(fn func([]Toast)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// Close stops all pending expiry timers. Queued toasts are kept.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
	s.closed = true
}

func (s *Store) snapshotLocked() ([]Toast, []func([]Toast)) {
	if len(s.subscribers) == 0 {
		return nil, nil
	}
	subs := make([]func([]Toast), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	return append([]Toast(nil), s.toasts...), subs
}

func notify(subs []func([]Toast), snapshot []Toast) {
	for _, fn := range subs {
		fn(snapshot)
	}
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
