// Package storage provides the durable key/value store that backs the session.
package storage

import (
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "lumen/internal/errors"
	"lumen/internal/models"
)

// Store persists opaque values by key.
type Store interface {
	// Get returns the value for key. The bool is false when the key is absent.
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// DBStore keeps entries in the storage_entries table.
type DBStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewDBStore creates a store over an already migrated database.
func NewDBStore(db *gorm.DB) *DBStore {
	return &DBStore{db: db, now: time.Now}
}

// Get implements Store.
func (s *DBStore) Get(key string) ([]byte, bool, error) {
	var entry models.StorageEntry
	err := s.db.Where("key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return entry.Value, true, nil
}

// Set implements Store. Existing values are overwritten.
func (s *DBStore) Set(key string, value []byte) error {
	entry := models.StorageEntry{Key: key, Value: value, UpdatedAt: s.now().UTC()}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return nil
}

// Delete implements Store. Deleting a missing key is not an error.
func (s *DBStore) Delete(key string) error {
	if err := s.db.Where("key = ?", key).Delete(&models.StorageEntry{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return nil
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

// Get implements Store.
func (s *MemoryStore) Get(key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set implements Store.
func (s *MemoryStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = append([]byte(nil), value...)
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
