package models

import (
	"encoding/json"
	"time"
)

// Operation is the kind of remote mutation a queue item represents.
type Operation string

const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Valid reports whether the operation is one of the three known kinds.
func (o Operation) Valid() bool {
	switch o {
	case OpCreate, OpUpdate, OpDelete:
		return true
	}
	return false
}

// Synced entity tables. The queue and the remote row API address entities
// by these names.
const (
	TableNotes       = "notes"
	TableFlashcards  = "flashcards"
	TableDecks       = "decks"
	TablePreferences = "user_preferences"
)

// EntityTables returns the tables holding synced cached entities.
func EntityTables() []string {
	return []string{TableNotes, TableFlashcards, TableDecks, TablePreferences}
}

// SyncQueueItem is one pending remote mutation. The queue is append-only
// and FIFO by enqueue time; multiple items for the same entity are legal,
// the processor re-resolves conflict state per item.
type SyncQueueItem struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	Operation Operation `gorm:"size:16;index:idx_queue_table_op,priority:2" json:"operation"`
	Table     string    `gorm:"column:entity_table;size:32;index:idx_queue_table_op,priority:1" json:"table"`
	EntityID  string    `gorm:"size:64" json:"entity_id"`

	// Payload is opaque until apply time; the processor validates it
	// against the table's shape just before the remote call.
	Payload json.RawMessage `gorm:"type:text" json:"payload"`

	EnqueuedAt    time.Time  `gorm:"index" json:"enqueued_at"`
	RetryCount    int        `gorm:"default:0" json:"retry_count"`
	LastAttemptAt *time.Time `json:"last_attempt_at"`
	LastError     string     `gorm:"size:1024" json:"last_error"`
}

// TableName specifies the table name for GORM.
func (SyncQueueItem) TableName() string {
	return "sync_queue"
}
