package db

import (
	"time"

	"gorm.io/gorm/clause"

	"github.com/jakga/glotian/internal/models"
)

// PutDeck upserts a deck and advances its access time.
func (db *DB) PutDeck(deck *models.Deck) error {
	deck.LastAccessedAt = time.Now()
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(deck).Error
}

// GetDeck fetches a deck by id and advances its access time.
func (db *DB) GetDeck(id string) (*models.Deck, error) {
	var deck models.Deck
	if err := db.First(&deck, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := db.touch(models.TableDecks, id); err != nil {
		return nil, err
	}
	return &deck, nil
}

// DeleteDeck removes a deck from the cache.
func (db *DB) DeleteDeck(id string) error {
	return db.Delete(&models.Deck{}, "id = ?", id).Error
}

// ListDecksByUser returns a user's decks, newest first.
func (db *DB) ListDecksByUser(userID string, limit int) ([]models.Deck, error) {
	var decks []models.Deck
	q := db.Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&decks).Error
	return decks, err
}
