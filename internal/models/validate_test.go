package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRow_Note(t *testing.T) {
	payload := json.RawMessage(`{
		"id": "n1",
		"user_id": "u1",
		"content": "merhaba",
		"language": "tr",
		"tags": ["greeting", "basics"],
		"updated_at": "2026-08-01T10:00:00Z"
	}`)

	row, err := DecodeRow(TableNotes, payload)
	require.NoError(t, err)
	assert.Equal(t, TableNotes, row.RowTable())
	assert.Equal(t, "n1", row.RowID())

	note := row.(NoteRow).Model(SyncSynced)
	assert.Equal(t, "greeting,basics", note.Tags)
	assert.Equal(t, SyncSynced, note.SyncStatus)
	assert.Equal(t, 2026, note.UpdatedAt.Year())
}

func TestDecodeRow_RequiredFields(t *testing.T) {
	cases := []struct {
		name    string
		table   string
		payload string
		field   string
	}{
		{"note missing id", TableNotes, `{"user_id":"u1","content":"x"}`, "id"},
		{"note missing user", TableNotes, `{"id":"n1","content":"x"}`, "user_id"},
		{"note missing content", TableNotes, `{"id":"n1","user_id":"u1"}`, "content"},
		{"card missing front", TableFlashcards, `{"id":"c1","user_id":"u1","back":"b"}`, "front"},
		{"card missing back", TableFlashcards, `{"id":"c1","user_id":"u1","front":"f"}`, "back"},
		{"deck missing name", TableDecks, `{"id":"d1","user_id":"u1"}`, "name"},
		{"pref unknown key", TablePreferences, `{"id":"p1","user_id":"u1","key":"font_size"}`, "key"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeRow(tc.table, json.RawMessage(tc.payload))
			require.Error(t, err)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "want ValidationError, got %T", err)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestDecodeRow_EnumClosure(t *testing.T) {
	_, err := DecodeRow(TableFlashcards, json.RawMessage(
		`{"id":"c1","user_id":"u1","front":"f","back":"b","difficulty":"expert"}`))
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "difficulty", verr.Field)

	_, err = DecodeRow(TableFlashcards, json.RawMessage(
		`{"id":"c1","user_id":"u1","front":"f","back":"b","proficiency":"fluent"}`))
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "proficiency", verr.Field)

	// Empty enum fields fall back to defaults instead of failing.
	row, err := DecodeRow(TableFlashcards, json.RawMessage(
		`{"id":"c1","user_id":"u1","front":"f","back":"b"}`))
	require.NoError(t, err)
	card := row.(FlashcardRow).Model(SyncPending)
	assert.Equal(t, DifficultyIntermediate, card.Difficulty)
	assert.Equal(t, ProficiencyNew, card.Proficiency)
}

func TestDecodeRow_UnknownTable(t *testing.T) {
	_, err := DecodeRow("sessions", json.RawMessage(`{"id":"s1"}`))
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
}

func TestDecodeRow_EmptyAndMalformedPayload(t *testing.T) {
	_, err := DecodeRow(TableNotes, nil)
	require.Error(t, err)

	_, err = DecodeRow(TableNotes, json.RawMessage(`{not json`))
	require.Error(t, err)
}

func TestPayloadUpdatedAt(t *testing.T) {
	ts, ok := PayloadUpdatedAt(json.RawMessage(`{"updated_at":"2026-08-01T10:00:00Z"}`))
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC), ts.UTC())

	_, ok = PayloadUpdatedAt(json.RawMessage(`{"id":"n1"}`))
	assert.False(t, ok)

	_, ok = PayloadUpdatedAt(json.RawMessage(`{"updated_at":"yesterday"}`))
	assert.False(t, ok)
}

func TestParseRowTime_AcceptsLegacyZoneless(t *testing.T) {
	ts, ok := ParseRowTime("2025-03-04T05:06:07")
	require.True(t, ok)
	assert.Equal(t, 2025, ts.Year())

	ts, ok = ParseRowTime("2025-03-04T05:06:07.123456789Z")
	require.True(t, ok)
	assert.Equal(t, 123456789, ts.Nanosecond())
}

func TestRowRoundTrip_NoteTags(t *testing.T) {
	note := &Note{
		ID:      "n1",
		UserID:  "u1",
		Content: "ciao",
		Tags:    "greeting,basics",
	}
	row := note.Row()
	assert.Equal(t, []string{"greeting", "basics"}, row.Tags)

	back := row.Model(SyncPending)
	assert.Equal(t, note.Tags, back.Tags)
}
