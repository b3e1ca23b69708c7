package models

import (
	"encoding/json"
	"time"
)

// ActivityItem is one entry in the per-user activity log. The log is
// append-only; old entries are reclaimed by the retention prune, newest
// first, regardless of sync status.
type ActivityItem struct {
	ID     uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID string `gorm:"size:64;index" json:"user_id"`

	Action string `gorm:"size:32;index" json:"action"`

	// Weak reference to the entity the action touched, if any.
	// Not a foreign key: the entity may be evicted or deleted later.
	EntityType string `gorm:"size:32" json:"entity_type"`
	EntityID   string `gorm:"size:64" json:"entity_id"`

	Metadata json.RawMessage `gorm:"type:text" json:"metadata"`

	SyncStatus SyncStatus `gorm:"size:16;default:pending" json:"sync_status"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for GORM.
func (ActivityItem) TableName() string {
	return "activity_log"
}

// Activity actions.
const (
	ActionCapture          = "capture"
	ActionTranslate        = "translate"
	ActionSummarize        = "summarize"
	ActionAskQuestion      = "ask_question"
	ActionReview           = "review"
	ActionCreateDeck       = "create_deck"
	ActionDelete           = "delete"
	ActionConflictResolved = "conflict_resolved"
)

// ValidActions returns all recognized activity actions.
func ValidActions() []string {
	return []string{
		ActionCapture, ActionTranslate, ActionSummarize, ActionAskQuestion,
		ActionReview, ActionCreateDeck, ActionDelete, ActionConflictResolved,
	}
}
