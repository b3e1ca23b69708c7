package db

import (
	"time"

	"gorm.io/gorm/clause"

	"github.com/jakga/glotian/internal/models"
)

// PutPreference upserts a preference row and advances its access time.
func (db *DB) PutPreference(pref *models.UserPreference) error {
	pref.LastAccessedAt = time.Now()
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(pref).Error
}

// GetPreference fetches a preference by user and key.
func (db *DB) GetPreference(userID, key string) (*models.UserPreference, error) {
	var pref models.UserPreference
	if err := db.First(&pref, "user_id = ? AND key = ?", userID, key).Error; err != nil {
		return nil, err
	}
	if err := db.touch(models.TablePreferences, pref.ID); err != nil {
		return nil, err
	}
	return &pref, nil
}

// DeletePreference removes a preference row from the cache.
func (db *DB) DeletePreference(id string) error {
	return db.Delete(&models.UserPreference{}, "id = ?", id).Error
}

// ListPreferencesByUser returns all preference rows for a user.
func (db *DB) ListPreferencesByUser(userID string) ([]models.UserPreference, error) {
	var prefs []models.UserPreference
	err := db.Where("user_id = ?", userID).Order("key ASC").Find(&prefs).Error
	return prefs, err
}
