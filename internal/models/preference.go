package models

import (
	"time"
)

// UserPreference stores one keyed preference value per user.
// Values are JSON-encoded strings validated against the known key set.
type UserPreference struct {
	ID     string `gorm:"primaryKey;size:64" json:"id"`
	UserID string `gorm:"size:64;index;index:idx_prefs_user_created,priority:1;index:idx_prefs_user_status,priority:1" json:"user_id"`

	Key   string `gorm:"size:64;index" json:"key"`
	Value string `gorm:"size:2048" json:"value"`

	SyncStatus SyncStatus `gorm:"size:16;default:pending;index:idx_prefs_user_status,priority:2" json:"sync_status"`

	CreatedAt      time.Time `gorm:"index:idx_prefs_user_created,priority:2" json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	LastAccessedAt time.Time `gorm:"index" json:"last_accessed_at"`
}

// TableName specifies the table name for GORM.
func (UserPreference) TableName() string {
	return "user_preferences"
}

// Known preference keys.
const (
	PrefTargetLanguage = "target_language"
	PrefNativeLanguage = "native_language"
	PrefTheme          = "theme"
	PrefAutoSync       = "auto_sync"
	PrefDailyGoal      = "daily_goal"
)

// ValidPreferenceKeys returns all recognized preference keys.
func ValidPreferenceKeys() []string {
	return []string{PrefTargetLanguage, PrefNativeLanguage, PrefTheme, PrefAutoSync, PrefDailyGoal}
}
