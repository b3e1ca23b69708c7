package db

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jakga/glotian/internal/models"
)

// validTable guards the table-keyed helpers: table names are interpolated
// into SQL, so only the closed entity-table set is accepted.
func validTable(table string) error {
	for _, t := range models.EntityTables() {
		if t == table {
			return nil
		}
	}
	return fmt.Errorf("unknown entity table %q", table)
}

// touch advances a row's access time. Access times are non-decreasing for
// a surviving row; eviction removes rows outright instead of resetting this.
func (db *DB) touch(table, id string) error {
	if err := validTable(table); err != nil {
		return err
	}
	return db.Table(table).Where("id = ?", id).
		Update("last_accessed_at", time.Now()).Error
}

// SetSyncStatus updates the sync status of one cached entity.
func (db *DB) SetSyncStatus(table, id string, status models.SyncStatus) error {
	if err := validTable(table); err != nil {
		return err
	}
	if !status.Valid() {
		return fmt.Errorf("invalid sync status %q", status)
	}
	return db.Table(table).Where("id = ?", id).
		Update("sync_status", status).Error
}

// ApplyRow overwrites (or creates) the cache entry for a validated remote
// row. Used by the conflict path: the remote copy replaces the local one.
func (db *DB) ApplyRow(row models.Row, status models.SyncStatus) error {
	switch r := row.(type) {
	case models.NoteRow:
		return db.PutNote(r.Model(status))
	case models.FlashcardRow:
		return db.PutFlashcard(r.Model(status))
	case models.DeckRow:
		return db.PutDeck(r.Model(status))
	case models.PreferenceRow:
		return db.PutPreference(r.Model(status))
	default:
		return fmt.Errorf("unknown row type %T", row)
	}
}

// DeleteEntity removes one cached entity by table and id.
func (db *DB) DeleteEntity(table, id string) error {
	if err := validTable(table); err != nil {
		return err
	}
	return db.Exec(fmt.Sprintf("DELETE FROM %s WHERE id = ?", table), id).Error
}

// GetEntityPayload fetches a cached entity as its wire-shaped JSON. Used
// when re-enqueueing a failed row for another attempt.
func (db *DB) GetEntityPayload(table, id string) ([]byte, error) {
	switch table {
	case models.TableNotes:
		var n models.Note
		if err := db.First(&n, "id = ?", id).Error; err != nil {
			return nil, err
		}
		return json.Marshal(n.Row())
	case models.TableFlashcards:
		var f models.Flashcard
		if err := db.First(&f, "id = ?", id).Error; err != nil {
			return nil, err
		}
		return json.Marshal(f.Row())
	case models.TableDecks:
		var d models.Deck
		if err := db.First(&d, "id = ?", id).Error; err != nil {
			return nil, err
		}
		return json.Marshal(d.Row())
	case models.TablePreferences:
		var p models.UserPreference
		if err := db.First(&p, "id = ?", id).Error; err != nil {
			return nil, err
		}
		return json.Marshal(p.Row())
	default:
		return nil, fmt.Errorf("unknown entity table %q", table)
	}
}

// CountPendingByUser returns how many cached entities still await sync.
func (db *DB) CountPendingByUser(userID string) (int64, error) {
	return db.countByStatus(userID, models.SyncPending)
}

// CountFailedByUser returns how many cached entities are permanently failed.
func (db *DB) CountFailedByUser(userID string) (int64, error) {
	return db.countByStatus(userID, models.SyncFailed)
}

func (db *DB) countByStatus(userID string, status models.SyncStatus) (int64, error) {
	var total int64
	for _, table := range models.EntityTables() {
		var n int64
		err := db.Table(table).
			Where("user_id = ? AND sync_status = ?", userID, status).
			Count(&n).Error
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// FailedEntity identifies one permanently failed cached entity.
type FailedEntity struct {
	Table string
	ID    string
}

// ListFailedByUser returns the failed entities for a user across all tables.
func (db *DB) ListFailedByUser(userID string) ([]FailedEntity, error) {
	var failed []FailedEntity
	for _, table := range models.EntityTables() {
		var ids []string
		err := db.Table(table).
			Where("user_id = ? AND sync_status = ?", userID, models.SyncFailed).
			Order("created_at ASC").
			Pluck("id", &ids).Error
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			failed = append(failed, FailedEntity{Table: table, ID: id})
		}
	}
	return failed, nil
}

// CountEvictable returns how many rows in a table are eligible for
// eviction: already synced (or failed), and not accessed since cutoff.
func (db *DB) CountEvictable(table string, cutoff time.Time) (int64, error) {
	if err := validTable(table); err != nil {
		return 0, err
	}
	var n int64
	err := db.Table(table).
		Where("sync_status <> ? AND last_accessed_at < ?", models.SyncPending, cutoff).
		Count(&n).Error
	return n, err
}

// EvictOldest bulk-deletes the n least-recently-accessed eligible rows in
// a table and reports how many were removed.
func (db *DB) EvictOldest(table string, cutoff time.Time, n int) (int64, error) {
	if err := validTable(table); err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, nil
	}
	stmt := fmt.Sprintf(
		`DELETE FROM %s WHERE id IN (
			SELECT id FROM %s
			WHERE sync_status <> ? AND last_accessed_at < ?
			ORDER BY last_accessed_at ASC
			LIMIT ?
		)`, table, table)
	res := db.Exec(stmt, models.SyncPending, cutoff, n)
	return res.RowsAffected, res.Error
}
