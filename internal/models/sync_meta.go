package models

import "time"

// SyncMeta stores sync metadata as key-value pairs.
type SyncMeta struct {
	Key       string    `gorm:"primaryKey;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (SyncMeta) TableName() string {
	return "sync_meta"
}

// Common sync meta keys.
const (
	SyncMetaLastSync      = "last_sync"
	SyncMetaSchemaVersion = "schema_version"
	SyncMetaTrackingID    = "tracking_id"
)

// SyncLease is the persisted run-in-progress guard for the sync processor.
// A single row (ID = 1) holds the current owner and a heartbeat; a lease
// whose heartbeat is older than the TTL is considered stale and can be
// taken over by the next trigger.
type SyncLease struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Owner       string    `gorm:"size:64" json:"owner"`
	HeartbeatAt time.Time `json:"heartbeat_at"`
}

// TableName specifies the table name for GORM.
func (SyncLease) TableName() string {
	return "sync_lease"
}
