package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Row is a validated, typed row for one synced table. Every payload that
// crosses the cache/remote boundary in either direction is decoded through
// DecodeRow before it is applied, so shape checks live here and nowhere else.
type Row interface {
	// RowTable returns the table this row belongs to.
	RowTable() string
	// RowID returns the entity id carried by the row.
	RowID() string
}

// ValidationError reports a payload that failed its table's shape check.
// Validation failures are permanent: the processor never retries them.
type ValidationError struct {
	Table string
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s row: %s: %s", e.Table, e.Field, e.Msg)
}

func invalid(table, field, msg string) error {
	return &ValidationError{Table: table, Field: field, Msg: msg}
}

// NoteRow is the wire shape of a notes row.
type NoteRow struct {
	ID          string   `json:"id"`
	UserID      string   `json:"user_id"`
	SourceURL   string   `json:"source_url"`
	SourceTitle string   `json:"source_title"`
	Content     string   `json:"content"`
	Translation string   `json:"translation"`
	Summary     string   `json:"summary"`
	Language    string   `json:"language"`
	Tags        []string `json:"tags"`
	UpdatedAt   string   `json:"updated_at"`
}

func (NoteRow) RowTable() string { return TableNotes }

// RowID returns the entity id carried by the row.
func (r NoteRow) RowID() string { return r.ID }

func (r NoteRow) validate() error {
	if r.ID == "" {
		return invalid(TableNotes, "id", "required")
	}
	if r.UserID == "" {
		return invalid(TableNotes, "user_id", "required")
	}
	if r.Content == "" {
		return invalid(TableNotes, "content", "required")
	}
	return nil
}

// Model converts the row into a cache entity.
func (r NoteRow) Model(status SyncStatus) *Note {
	now := time.Now()
	return &Note{
		ID:             r.ID,
		UserID:         r.UserID,
		SourceURL:      r.SourceURL,
		SourceTitle:    r.SourceTitle,
		Content:        r.Content,
		Translation:    r.Translation,
		Summary:        r.Summary,
		Language:       r.Language,
		Tags:           strings.Join(r.Tags, ","),
		SyncStatus:     status,
		UpdatedAt:      parseRowTime(r.UpdatedAt, now),
		LastAccessedAt: now,
	}
}

// FlashcardRow is the wire shape of a flashcards row.
type FlashcardRow struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	DeckID      string `json:"deck_id"`
	Front       string `json:"front"`
	Back        string `json:"back"`
	Example     string `json:"example"`
	Language    string `json:"language"`
	Difficulty  string `json:"difficulty"`
	Proficiency string `json:"proficiency"`
	ReviewCount int    `json:"review_count"`
	UpdatedAt   string `json:"updated_at"`
}

func (FlashcardRow) RowTable() string { return TableFlashcards }

// RowID returns the entity id carried by the row.
func (r FlashcardRow) RowID() string { return r.ID }

func (r FlashcardRow) validate() error {
	if r.ID == "" {
		return invalid(TableFlashcards, "id", "required")
	}
	if r.UserID == "" {
		return invalid(TableFlashcards, "user_id", "required")
	}
	if r.Front == "" {
		return invalid(TableFlashcards, "front", "required")
	}
	if r.Back == "" {
		return invalid(TableFlashcards, "back", "required")
	}
	if r.Difficulty != "" && !contains(ValidDifficulties(), r.Difficulty) {
		return invalid(TableFlashcards, "difficulty", "unknown level "+r.Difficulty)
	}
	if r.Proficiency != "" && !contains(ValidProficiencies(), r.Proficiency) {
		return invalid(TableFlashcards, "proficiency", "unknown level "+r.Proficiency)
	}
	if r.ReviewCount < 0 {
		return invalid(TableFlashcards, "review_count", "negative")
	}
	return nil
}

// Model converts the row into a cache entity.
func (r FlashcardRow) Model(status SyncStatus) *Flashcard {
	now := time.Now()
	difficulty := r.Difficulty
	if difficulty == "" {
		difficulty = DifficultyIntermediate
	}
	proficiency := r.Proficiency
	if proficiency == "" {
		proficiency = ProficiencyNew
	}
	return &Flashcard{
		ID:             r.ID,
		UserID:         r.UserID,
		DeckID:         r.DeckID,
		Front:          r.Front,
		Back:           r.Back,
		Example:        r.Example,
		Language:       r.Language,
		Difficulty:     difficulty,
		Proficiency:    proficiency,
		ReviewCount:    r.ReviewCount,
		SyncStatus:     status,
		UpdatedAt:      parseRowTime(r.UpdatedAt, now),
		LastAccessedAt: now,
	}
}

// DeckRow is the wire shape of a decks row.
type DeckRow struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Language    string `json:"language"`
	CardCount   int    `json:"card_count"`
	UpdatedAt   string `json:"updated_at"`
}

func (DeckRow) RowTable() string { return TableDecks }

// RowID returns the entity id carried by the row.
func (r DeckRow) RowID() string { return r.ID }

func (r DeckRow) validate() error {
	if r.ID == "" {
		return invalid(TableDecks, "id", "required")
	}
	if r.UserID == "" {
		return invalid(TableDecks, "user_id", "required")
	}
	if r.Name == "" {
		return invalid(TableDecks, "name", "required")
	}
	if r.CardCount < 0 {
		return invalid(TableDecks, "card_count", "negative")
	}
	return nil
}

// Model converts the row into a cache entity.
func (r DeckRow) Model(status SyncStatus) *Deck {
	now := time.Now()
	return &Deck{
		ID:             r.ID,
		UserID:         r.UserID,
		Name:           r.Name,
		Description:    r.Description,
		Language:       r.Language,
		CardCount:      r.CardCount,
		SyncStatus:     status,
		UpdatedAt:      parseRowTime(r.UpdatedAt, now),
		LastAccessedAt: now,
	}
}

// PreferenceRow is the wire shape of a user_preferences row.
type PreferenceRow struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Key       string `json:"key"`
	Value     string `json:"value"`
	UpdatedAt string `json:"updated_at"`
}

func (PreferenceRow) RowTable() string { return TablePreferences }

// RowID returns the entity id carried by the row.
func (r PreferenceRow) RowID() string { return r.ID }

func (r PreferenceRow) validate() error {
	if r.ID == "" {
		return invalid(TablePreferences, "id", "required")
	}
	if r.UserID == "" {
		return invalid(TablePreferences, "user_id", "required")
	}
	if !contains(ValidPreferenceKeys(), r.Key) {
		return invalid(TablePreferences, "key", "unknown key "+r.Key)
	}
	return nil
}

// Model converts the row into a cache entity.
func (r PreferenceRow) Model(status SyncStatus) *UserPreference {
	now := time.Now()
	return &UserPreference{
		ID:             r.ID,
		UserID:         r.UserID,
		Key:            r.Key,
		Value:          r.Value,
		SyncStatus:     status,
		UpdatedAt:      parseRowTime(r.UpdatedAt, now),
		LastAccessedAt: now,
	}
}

// DecodeRow decodes and validates a payload against the table's shape.
// A failure here is a permanent error; callers must not retry it.
func DecodeRow(table string, payload json.RawMessage) (Row, error) {
	if len(payload) == 0 {
		return nil, invalid(table, "payload", "empty")
	}

	switch table {
	case TableNotes:
		var r NoteRow
		if err := json.Unmarshal(payload, &r); err != nil {
			return nil, invalid(table, "payload", err.Error())
		}
		if err := r.validate(); err != nil {
			return nil, err
		}
		return r, nil
	case TableFlashcards:
		var r FlashcardRow
		if err := json.Unmarshal(payload, &r); err != nil {
			return nil, invalid(table, "payload", err.Error())
		}
		if err := r.validate(); err != nil {
			return nil, err
		}
		return r, nil
	case TableDecks:
		var r DeckRow
		if err := json.Unmarshal(payload, &r); err != nil {
			return nil, invalid(table, "payload", err.Error())
		}
		if err := r.validate(); err != nil {
			return nil, err
		}
		return r, nil
	case TablePreferences:
		var r PreferenceRow
		if err := json.Unmarshal(payload, &r); err != nil {
			return nil, invalid(table, "payload", err.Error())
		}
		if err := r.validate(); err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, invalid(table, "table", "unknown table")
	}
}

// PayloadUpdatedAt extracts the updated_at timestamp carried by a payload.
// Returns false when the payload has no parseable timestamp; the processor
// treats such payloads as older than any existing remote row.
func PayloadUpdatedAt(payload json.RawMessage) (time.Time, bool) {
	var probe struct {
		UpdatedAt string `json:"updated_at"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil || probe.UpdatedAt == "" {
		return time.Time{}, false
	}
	return ParseRowTime(probe.UpdatedAt)
}

// ParseRowTime parses a wire timestamp. The row API emits RFC3339; older
// clients wrote RFC3339 without a zone, so both are accepted.
func ParseRowTime(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseRowTime(s string, fallback time.Time) time.Time {
	if t, ok := ParseRowTime(s); ok {
		return t
	}
	return fallback
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
