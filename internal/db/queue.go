package db

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jakga/glotian/internal/models"
)

// Enqueue appends a pending mutation to the sync queue. A failed append is
// returned to the caller: silent loss would strand the entity in pending
// with nothing left to advance it.
func (db *DB) Enqueue(op models.Operation, table, entityID string, payload json.RawMessage) (*models.SyncQueueItem, error) {
	if !op.Valid() {
		return nil, fmt.Errorf("invalid queue operation %q", op)
	}
	if err := validTable(table); err != nil {
		return nil, err
	}

	item := &models.SyncQueueItem{
		Operation:  op,
		Table:      table,
		EntityID:   entityID,
		Payload:    payload,
		EnqueuedAt: time.Now(),
	}
	if err := db.Create(item).Error; err != nil {
		return nil, fmt.Errorf("enqueue %s %s/%s: %w", op, table, entityID, err)
	}
	return item, nil
}

// RemoveQueueItem drops one item from the queue.
func (db *DB) RemoveQueueItem(id uint) error {
	return db.Delete(&models.SyncQueueItem{}, "id = ?", id).Error
}

// ListQueue returns all queued items in FIFO order (enqueue time, then id
// to break ties within the same tick).
func (db *DB) ListQueue() ([]models.SyncQueueItem, error) {
	var items []models.SyncQueueItem
	err := db.Order("enqueued_at ASC, id ASC").Find(&items).Error
	return items, err
}

// CountQueue returns the number of queued items.
func (db *DB) CountQueue() (int64, error) {
	var n int64
	err := db.Model(&models.SyncQueueItem{}).Count(&n).Error
	return n, err
}

// CountQueueFailed returns the number of queued items that have failed at
// least one attempt.
func (db *DB) CountQueueFailed() (int64, error) {
	var n int64
	err := db.Model(&models.SyncQueueItem{}).Where("retry_count > 0").Count(&n).Error
	return n, err
}

// UpdateQueueRetry persists retry bookkeeping after a retryable failure.
func (db *DB) UpdateQueueRetry(id uint, retryCount int, lastErr string) error {
	now := time.Now()
	return db.Model(&models.SyncQueueItem{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"retry_count":     retryCount,
			"last_attempt_at": &now,
			"last_error":      lastErr,
		}).Error
}

// ClearQueueRetries resets retry bookkeeping on every still-queued item,
// giving them a fresh attempt budget. Part of the user-driven failed reset.
func (db *DB) ClearQueueRetries() error {
	return db.Model(&models.SyncQueueItem{}).Where("retry_count > 0").
		Updates(map[string]interface{}{
			"retry_count":     0,
			"last_attempt_at": nil,
			"last_error":      "",
		}).Error
}
