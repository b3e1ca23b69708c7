package models

import (
	"time"
)

// Flashcard is a single study card belonging to a deck.
type Flashcard struct {
	ID     string `gorm:"primaryKey;size:64" json:"id"`
	UserID string `gorm:"size:64;index;index:idx_cards_user_created,priority:1;index:idx_cards_user_status,priority:1" json:"user_id"`
	DeckID string `gorm:"size:64;index" json:"deck_id"`

	// Content
	Front    string `gorm:"type:text" json:"front"`
	Back     string `gorm:"type:text" json:"back"`
	Example  string `gorm:"type:text" json:"example"`
	Language string `gorm:"size:16" json:"language"`

	// Study state
	Difficulty  string `gorm:"size:20;default:intermediate" json:"difficulty"`
	Proficiency string `gorm:"size:20;default:new" json:"proficiency"`
	ReviewCount int    `gorm:"default:0" json:"review_count"`

	// Sync state
	SyncStatus SyncStatus `gorm:"size:16;default:pending;index:idx_cards_user_status,priority:2" json:"sync_status"`

	// Timestamps
	CreatedAt      time.Time `gorm:"index:idx_cards_user_created,priority:2" json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	LastAccessedAt time.Time `gorm:"index" json:"last_accessed_at"`
}

// TableName specifies the table name for GORM.
func (Flashcard) TableName() string {
	return "flashcards"
}

// Difficulty levels.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// ValidDifficulties returns all valid difficulty levels.
func ValidDifficulties() []string {
	return []string{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}
}

// Proficiency levels, advanced as the user reviews a card.
const (
	ProficiencyNew      = "new"
	ProficiencyLearning = "learning"
	ProficiencyFamiliar = "familiar"
	ProficiencyMastered = "mastered"
)

// ValidProficiencies returns all valid proficiency levels.
func ValidProficiencies() []string {
	return []string{ProficiencyNew, ProficiencyLearning, ProficiencyFamiliar, ProficiencyMastered}
}
