// Package models defines the core data structures for Glotian.
package models

import (
	"time"
)

// SyncStatus tracks whether a cached row has been applied remotely.
type SyncStatus string

const (
	SyncPending SyncStatus = "pending"
	SyncSynced  SyncStatus = "synced"
	SyncFailed  SyncStatus = "failed"
)

// Valid reports whether the status is one of the three known states.
func (s SyncStatus) Valid() bool {
	switch s {
	case SyncPending, SyncSynced, SyncFailed:
		return true
	}
	return false
}

// Note represents a captured piece of text from a page, optionally enriched
// with a translation and a summary.
type Note struct {
	ID     string `gorm:"primaryKey;size:64" json:"id"`
	UserID string `gorm:"size:64;index;index:idx_notes_user_created,priority:1;index:idx_notes_user_status,priority:1" json:"user_id"`

	// Content
	SourceURL   string `gorm:"size:2048" json:"source_url"`
	SourceTitle string `gorm:"size:512" json:"source_title"`
	Content     string `gorm:"type:text" json:"content"`
	Translation string `gorm:"type:text" json:"translation"`
	Summary     string `gorm:"type:text" json:"summary"`
	Language    string `gorm:"size:16" json:"language"`
	Tags        string `gorm:"size:1024" json:"tags"` // comma-separated

	// Sync state
	SyncStatus SyncStatus `gorm:"size:16;default:pending;index:idx_notes_user_status,priority:2" json:"sync_status"`

	// Timestamps
	CreatedAt      time.Time `gorm:"index:idx_notes_user_created,priority:2" json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	LastAccessedAt time.Time `gorm:"index" json:"last_accessed_at"`
}

// TableName specifies the table name for GORM.
func (Note) TableName() string {
	return "notes"
}
