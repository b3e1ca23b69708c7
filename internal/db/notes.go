package db

import (
	"time"

	"gorm.io/gorm/clause"

	"github.com/jakga/glotian/internal/models"
)

// PutNote upserts a note and advances its access time.
func (db *DB) PutNote(note *models.Note) error {
	note.LastAccessedAt = time.Now()
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(note).Error
}

// GetNote fetches a note by id and advances its access time.
func (db *DB) GetNote(id string) (*models.Note, error) {
	var note models.Note
	if err := db.First(&note, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := db.touch(models.TableNotes, id); err != nil {
		return nil, err
	}
	return &note, nil
}

// DeleteNote removes a note from the cache.
func (db *DB) DeleteNote(id string) error {
	return db.Delete(&models.Note{}, "id = ?", id).Error
}

// ListNotesByUser returns a user's notes, newest first.
func (db *DB) ListNotesByUser(userID string, limit int) ([]models.Note, error) {
	var notes []models.Note
	q := db.Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&notes).Error
	return notes, err
}
