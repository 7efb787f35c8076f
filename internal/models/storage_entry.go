package models

import "time"

// StorageEntry is one key of the durable local store.
type StorageEntry struct {
	Key       string    `gorm:"primaryKey;column:key"`
	Value     []byte    `gorm:"not null;column:value"`
	UpdatedAt time.Time `gorm:"not null;column:updated_at"`
}

// TableName overrides the gorm default.
func (StorageEntry) TableName() string {
	return "storage_entries"
}
