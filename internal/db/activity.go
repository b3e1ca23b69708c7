package db

import (
	"encoding/json"

	"github.com/jakga/glotian/internal/models"
)

// AppendActivity records one action in the per-user activity log.
func (db *DB) AppendActivity(userID, action, entityType, entityID string, metadata json.RawMessage) (*models.ActivityItem, error) {
	item := &models.ActivityItem{
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Metadata:   metadata,
		SyncStatus: models.SyncPending,
	}
	if err := db.Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// ListRecentActivity returns a user's newest activity entries.
func (db *DB) ListRecentActivity(userID string, limit int) ([]models.ActivityItem, error) {
	var items []models.ActivityItem
	q := db.Where("user_id = ?", userID).Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&items).Error
	return items, err
}

// CountActivity returns the total number of activity entries.
func (db *DB) CountActivity() (int64, error) {
	var n int64
	err := db.Model(&models.ActivityItem{}).Count(&n).Error
	return n, err
}

// PruneActivity keeps only the newest keep entries, regardless of sync
// status, and reports how many were deleted.
func (db *DB) PruneActivity(keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res := db.Exec(
		`DELETE FROM activity_log WHERE id NOT IN (
			SELECT id FROM activity_log ORDER BY created_at DESC, id DESC LIMIT ?
		)`, keep)
	return res.RowsAffected, res.Error
}
