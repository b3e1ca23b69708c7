package db

import (
	"testing"

	"github.com/jakga/glotian/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunDataMigrations_CoalescesLegacyNoteContent(t *testing.T) {
	db := testDB(t)

	// Simulate a pre-2.0.0 store: a legacy "text" column with the
	// content, and rows whose content column is still empty.
	require.NoError(t, db.Exec(`ALTER TABLE notes ADD COLUMN text TEXT`).Error)
	require.NoError(t, db.Exec(
		`INSERT INTO notes (id, user_id, content, text, sync_status) VALUES
			('legacy-1', 'u1', '', 'guten tag', 'synced'),
			('modern-1', 'u1', 'hallo', '', 'synced')`).Error)
	require.NoError(t, db.SetSyncMeta(models.SyncMetaSchemaVersion, "1.0.0"))

	require.NoError(t, db.runDataMigrations())

	legacy, err := db.GetNote("legacy-1")
	require.NoError(t, err)
	assert.Equal(t, "guten tag", legacy.Content)

	// Rows that already had content are untouched.
	modern, err := db.GetNote("modern-1")
	require.NoError(t, err)
	assert.Equal(t, "hallo", modern.Content)

	assert.False(t, db.Migrator().HasColumn(&models.Note{}, "text"),
		"legacy column should be dropped")

	version, err := db.GetSyncMeta(models.SyncMetaSchemaVersion)
	require.NoError(t, err)
	assert.Equal(t, currentSchemaVersion, version)
}

func TestRunDataMigrations_CoalescesLegacyFlashcardColumns(t *testing.T) {
	db := testDB(t)

	require.NoError(t, db.Exec(`ALTER TABLE flashcards ADD COLUMN level TEXT`).Error)
	require.NoError(t, db.Exec(`ALTER TABLE flashcards ADD COLUMN last_used_at DATETIME`).Error)
	require.NoError(t, db.Exec(
		`INSERT INTO flashcards (id, user_id, difficulty, level, sync_status, created_at, last_used_at)
		 VALUES ('legacy-c1', 'u1', '', 'advanced', 'synced', '2025-01-02 03:04:05', '2025-06-07 08:09:10')`).Error)
	require.NoError(t, db.SetSyncMeta(models.SyncMetaSchemaVersion, "2.0.0"))

	require.NoError(t, db.runDataMigrations())

	card, err := db.GetFlashcard("legacy-c1")
	require.NoError(t, err)
	assert.Equal(t, models.DifficultyAdvanced, card.Difficulty)
	assert.Equal(t, 2025, card.LastAccessedAt.Year())

	assert.False(t, db.Migrator().HasColumn(&models.Flashcard{}, "level"))
	assert.False(t, db.Migrator().HasColumn(&models.Flashcard{}, "last_used_at"))
}

func TestHasColumn_ExactNameOnly(t *testing.T) {
	db := testDB(t)

	ok, err := hasColumn(db, "notes", "content")
	require.NoError(t, err)
	assert.True(t, ok)

	// "text" is the column type of content/translation/summary, not a
	// column; it must not be detected as one.
	ok, err = hasColumn(db, "notes", "text")
	require.NoError(t, err)
	assert.False(t, ok)

	// "accessed_at" is a suffix of last_accessed_at, not a column.
	ok, err = hasColumn(db, "flashcards", "accessed_at")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = hasColumn(db, "flashcards", "last_accessed_at")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRunDataMigrations_FreshStoreHasNoLegacyColumns(t *testing.T) {
	db := testDB(t)

	require.NoError(t, db.PutNote(&models.Note{ID: "n1", UserID: "u1", Content: "intact"}))
	require.NoError(t, db.PutFlashcard(&models.Flashcard{
		ID: "c1", UserID: "u1", Front: "f", Back: "b", Difficulty: models.DifficultyBeginner,
	}))
	require.NoError(t, db.SetSyncMeta(models.SyncMetaSchemaVersion, "0.0.0"))

	// A fresh schema carries no legacy columns; every migration must
	// detect that and pass through without touching a row.
	require.NoError(t, db.runDataMigrations())

	note, err := db.GetNote("n1")
	require.NoError(t, err)
	assert.Equal(t, "intact", note.Content)

	card, err := db.GetFlashcard("c1")
	require.NoError(t, err)
	assert.Equal(t, models.DifficultyBeginner, card.Difficulty)

	for _, col := range []string{"content", "translation", "summary", "last_accessed_at"} {
		ok, err := hasColumn(db, "notes", col)
		require.NoError(t, err)
		assert.True(t, ok, "column %s must survive the pass", col)
	}
}

func TestRunDataMigrations_Idempotent(t *testing.T) {
	db := testDB(t)

	// A store already at the current version reruns nothing.
	require.NoError(t, db.runDataMigrations())
	require.NoError(t, db.runDataMigrations())

	version, err := db.GetSyncMeta(models.SyncMetaSchemaVersion)
	require.NoError(t, err)
	assert.Equal(t, currentSchemaVersion, version)
}
