package models

import (
	"time"
)

// Deck groups flashcards for study.
type Deck struct {
	ID     string `gorm:"primaryKey;size:64" json:"id"`
	UserID string `gorm:"size:64;index;index:idx_decks_user_created,priority:1;index:idx_decks_user_status,priority:1" json:"user_id"`

	Name        string `gorm:"size:255" json:"name"`
	Description string `gorm:"size:1000" json:"description"`
	Language    string `gorm:"size:16" json:"language"`
	CardCount   int    `gorm:"default:0" json:"card_count"`

	SyncStatus SyncStatus `gorm:"size:16;default:pending;index:idx_decks_user_status,priority:2" json:"sync_status"`

	CreatedAt      time.Time `gorm:"index:idx_decks_user_created,priority:2" json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	LastAccessedAt time.Time `gorm:"index" json:"last_accessed_at"`
}

// TableName specifies the table name for GORM.
func (Deck) TableName() string {
	return "decks"
}
