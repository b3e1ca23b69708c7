package sync

import (
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/jakga/glotian/internal/db"
	"github.com/jakga/glotian/internal/models"
)

// Mutator records local edits: it writes the entity into the cache with
// status pending and appends the matching queue item in one transaction,
// so an entity can never end up pending without a queue record to advance
// it (and vice versa).
type Mutator struct {
	db *db.DB
}

// NewMutator creates a mutator over the cache store.
func NewMutator(database *db.DB) *Mutator {
	return &Mutator{db: database}
}

// SaveNote stores a note locally and enqueues it for sync. The action
// names what produced the note (capture, translate, summarize).
func (m *Mutator) SaveNote(note *models.Note, action string) error {
	note.SyncStatus = models.SyncPending
	return m.db.Transaction(func(tx *db.DB) error {
		op, err := opFor(tx, models.TableNotes, note.ID)
		if err != nil {
			return err
		}
		if err := tx.PutNote(note); err != nil {
			return err
		}
		if err := enqueueRow(tx, op, models.TableNotes, note.ID, note.Row()); err != nil {
			return err
		}
		_, err = tx.AppendActivity(note.UserID, action, models.TableNotes, note.ID, nil)
		return err
	})
}

// SaveFlashcard stores a flashcard locally and enqueues it for sync.
func (m *Mutator) SaveFlashcard(card *models.Flashcard) error {
	card.SyncStatus = models.SyncPending
	return m.db.Transaction(func(tx *db.DB) error {
		op, err := opFor(tx, models.TableFlashcards, card.ID)
		if err != nil {
			return err
		}
		if err := tx.PutFlashcard(card); err != nil {
			return err
		}
		return enqueueRow(tx, op, models.TableFlashcards, card.ID, card.Row())
	})
}

// SaveDeck stores a deck locally and enqueues it for sync.
func (m *Mutator) SaveDeck(deck *models.Deck) error {
	deck.SyncStatus = models.SyncPending
	return m.db.Transaction(func(tx *db.DB) error {
		op, err := opFor(tx, models.TableDecks, deck.ID)
		if err != nil {
			return err
		}
		if err := tx.PutDeck(deck); err != nil {
			return err
		}
		if err := enqueueRow(tx, op, models.TableDecks, deck.ID, deck.Row()); err != nil {
			return err
		}
		if op == models.OpCreate {
			_, err = tx.AppendActivity(deck.UserID, models.ActionCreateDeck, models.TableDecks, deck.ID, nil)
			return err
		}
		return nil
	})
}

// SavePreference stores a preference locally and enqueues it for sync.
func (m *Mutator) SavePreference(pref *models.UserPreference) error {
	pref.SyncStatus = models.SyncPending
	return m.db.Transaction(func(tx *db.DB) error {
		op, err := opFor(tx, models.TablePreferences, pref.ID)
		if err != nil {
			return err
		}
		if err := tx.PutPreference(pref); err != nil {
			return err
		}
		return enqueueRow(tx, op, models.TablePreferences, pref.ID, pref.Row())
	})
}

// DeleteEntity removes a cached entity and enqueues the remote delete. The
// delete payload carries the row's last known updated_at so the processor
// can still detect a newer remote copy.
func (m *Mutator) DeleteEntity(userID, table, id string) error {
	return m.db.Transaction(func(tx *db.DB) error {
		payload, err := tx.GetEntityPayload(table, id)
		if err != nil {
			return fmt.Errorf("read %s/%s before delete: %w", table, id, err)
		}
		if err := tx.DeleteEntity(table, id); err != nil {
			return err
		}
		if _, err := tx.Enqueue(models.OpDelete, table, id, payload); err != nil {
			return err
		}
		_, err = tx.AppendActivity(userID, models.ActionDelete, table, id, nil)
		return err
	})
}

// ResetFailed returns every permanently failed entity of a user to pending
// and re-enqueues it, clearing retry bookkeeping on still-queued items.
// Failed is terminal until this explicit user action.
func (m *Mutator) ResetFailed(userID string) (int, error) {
	failed, err := m.db.ListFailedByUser(userID)
	if err != nil {
		return 0, err
	}

	reset := 0
	for _, entity := range failed {
		err := m.db.Transaction(func(tx *db.DB) error {
			payload, err := tx.GetEntityPayload(entity.Table, entity.ID)
			if err != nil {
				return err
			}
			if err := tx.SetSyncStatus(entity.Table, entity.ID, models.SyncPending); err != nil {
				return err
			}
			_, err = tx.Enqueue(models.OpUpdate, entity.Table, entity.ID, payload)
			return err
		})
		if err != nil {
			return reset, fmt.Errorf("reset %s/%s: %w", entity.Table, entity.ID, err)
		}
		reset++
	}

	if err := m.db.ClearQueueRetries(); err != nil {
		return reset, err
	}
	return reset, nil
}

// opFor picks create or update depending on whether the entity already
// exists in the cache.
func opFor(tx *db.DB, table, id string) (models.Operation, error) {
	var n int64
	err := tx.Table(table).Where("id = ?", id).Count(&n).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return "", err
	}
	if n > 0 {
		return models.OpUpdate, nil
	}
	return models.OpCreate, nil
}

func enqueueRow(tx *db.DB, op models.Operation, table, id string, row models.Row) error {
	payload, err := json.Marshal(row)
	if err != nil {
		return err
	}
	_, err = tx.Enqueue(op, table, id, payload)
	return err
}
