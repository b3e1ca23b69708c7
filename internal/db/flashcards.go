package db

import (
	"time"

	"gorm.io/gorm/clause"

	"github.com/jakga/glotian/internal/models"
)

// PutFlashcard upserts a flashcard and advances its access time.
func (db *DB) PutFlashcard(card *models.Flashcard) error {
	card.LastAccessedAt = time.Now()
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(card).Error
}

// GetFlashcard fetches a flashcard by id and advances its access time.
func (db *DB) GetFlashcard(id string) (*models.Flashcard, error) {
	var card models.Flashcard
	if err := db.First(&card, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := db.touch(models.TableFlashcards, id); err != nil {
		return nil, err
	}
	return &card, nil
}

// DeleteFlashcard removes a flashcard from the cache.
func (db *DB) DeleteFlashcard(id string) error {
	return db.Delete(&models.Flashcard{}, "id = ?", id).Error
}

// ListFlashcardsByDeck returns the cards in a deck, newest first.
func (db *DB) ListFlashcardsByDeck(deckID string, limit int) ([]models.Flashcard, error) {
	var cards []models.Flashcard
	q := db.Where("deck_id = ?", deckID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&cards).Error
	return cards, err
}

// ListFlashcardsByUser returns a user's cards, newest first.
func (db *DB) ListFlashcardsByUser(userID string, limit int) ([]models.Flashcard, error) {
	var cards []models.Flashcard
	q := db.Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&cards).Error
	return cards, err
}
