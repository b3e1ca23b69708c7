package models

import (
	"strings"
	"time"
)

// Row conversions from cache entities back to wire shapes. Used when an
// entity is (re-)enqueued for sync: the queue payload is the wire form.

// Row returns the wire shape of the note.
func (n *Note) Row() NoteRow {
	var tags []string
	if n.Tags != "" {
		tags = strings.Split(n.Tags, ",")
	}
	return NoteRow{
		ID:          n.ID,
		UserID:      n.UserID,
		SourceURL:   n.SourceURL,
		SourceTitle: n.SourceTitle,
		Content:     n.Content,
		Translation: n.Translation,
		Summary:     n.Summary,
		Language:    n.Language,
		Tags:        tags,
		UpdatedAt:   n.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// Row returns the wire shape of the flashcard.
func (f *Flashcard) Row() FlashcardRow {
	return FlashcardRow{
		ID:          f.ID,
		UserID:      f.UserID,
		DeckID:      f.DeckID,
		Front:       f.Front,
		Back:        f.Back,
		Example:     f.Example,
		Language:    f.Language,
		Difficulty:  f.Difficulty,
		Proficiency: f.Proficiency,
		ReviewCount: f.ReviewCount,
		UpdatedAt:   f.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// Row returns the wire shape of the deck.
func (d *Deck) Row() DeckRow {
	return DeckRow{
		ID:          d.ID,
		UserID:      d.UserID,
		Name:        d.Name,
		Description: d.Description,
		Language:    d.Language,
		CardCount:   d.CardCount,
		UpdatedAt:   d.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// Row returns the wire shape of the preference.
func (p *UserPreference) Row() PreferenceRow {
	return PreferenceRow{
		ID:        p.ID,
		UserID:    p.UserID,
		Key:       p.Key,
		Value:     p.Value,
		UpdatedAt: p.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}
