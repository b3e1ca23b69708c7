package db

import (
	"time"

	"gorm.io/gorm"

	"github.com/jakga/glotian/internal/models"
)

// AcquireSyncLease tries to take the single sync lease row for owner.
// Returns false when another live owner holds it; a lease whose heartbeat
// is older than ttl is stale and taken over.
func (db *DB) AcquireSyncLease(owner string, ttl time.Duration) (bool, error) {
	acquired := false
	err := db.Transaction(func(tx *DB) error {
		now := time.Now()

		var lease models.SyncLease
		err := tx.First(&lease, "id = ?", 1).Error
		if err == gorm.ErrRecordNotFound {
			lease = models.SyncLease{ID: 1, Owner: owner, HeartbeatAt: now}
			if err := tx.Create(&lease).Error; err != nil {
				return err
			}
			acquired = true
			return nil
		}
		if err != nil {
			return err
		}

		if lease.Owner != owner && now.Sub(lease.HeartbeatAt) <= ttl {
			return nil // held by a live owner
		}

		err = tx.Model(&models.SyncLease{}).Where("id = ?", 1).
			Updates(map[string]interface{}{
				"owner":        owner,
				"heartbeat_at": now,
			}).Error
		if err != nil {
			return err
		}
		acquired = true
		return nil
	})
	return acquired, err
}

// HeartbeatSyncLease refreshes the lease heartbeat while a run is in
// progress. A no-op if the lease has been taken over.
func (db *DB) HeartbeatSyncLease(owner string) error {
	return db.Model(&models.SyncLease{}).
		Where("id = ? AND owner = ?", 1, owner).
		Update("heartbeat_at", time.Now()).Error
}

// ReleaseSyncLease gives the lease up if owner still holds it.
func (db *DB) ReleaseSyncLease(owner string) error {
	return db.Delete(&models.SyncLease{}, "id = ? AND owner = ?", 1, owner).Error
}
