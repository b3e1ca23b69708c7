package sync

import (
	"context"
	"testing"

	"github.com/jakga/glotian/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMutator_SaveNote(t *testing.T) {
	database := testDB(t)
	m := NewMutator(database)

	note := &models.Note{ID: "n1", UserID: "u1", Content: "hej"}
	require.NoError(t, m.SaveNote(note, models.ActionCapture))

	// Stored pending.
	got, err := database.GetNote("n1")
	require.NoError(t, err)
	assert.Equal(t, models.SyncPending, got.SyncStatus)

	// Queued as a create with the wire payload.
	items, err := database.ListQueue()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.OpCreate, items[0].Operation)
	assert.Equal(t, models.TableNotes, items[0].Table)
	assert.Contains(t, string(items[0].Payload), "hej")

	// Activity recorded.
	activity, err := database.ListRecentActivity("u1", 10)
	require.NoError(t, err)
	require.Len(t, activity, 1)
	assert.Equal(t, models.ActionCapture, activity[0].Action)
}

func TestMutator_SaveNote_SecondSaveIsUpdate(t *testing.T) {
	database := testDB(t)
	m := NewMutator(database)

	note := &models.Note{ID: "n1", UserID: "u1", Content: "v1"}
	require.NoError(t, m.SaveNote(note, models.ActionCapture))

	note.Content = "v2"
	require.NoError(t, m.SaveNote(note, models.ActionTranslate))

	// Both items stay queued; the queue is append-only.
	items, err := database.ListQueue()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, models.OpCreate, items[0].Operation)
	assert.Equal(t, models.OpUpdate, items[1].Operation)
}

func TestMutator_SaveDeck_RecordsCreateActivityOnce(t *testing.T) {
	database := testDB(t)
	m := NewMutator(database)

	deck := &models.Deck{ID: "d1", UserID: "u1", Name: "Phrases"}
	require.NoError(t, m.SaveDeck(deck))
	require.NoError(t, m.SaveDeck(deck))

	activity, err := database.ListRecentActivity("u1", 10)
	require.NoError(t, err)
	require.Len(t, activity, 1)
	assert.Equal(t, models.ActionCreateDeck, activity[0].Action)
}

func TestMutator_DeleteEntity(t *testing.T) {
	database := testDB(t)
	m := NewMutator(database)

	note := &models.Note{ID: "n1", UserID: "u1", Content: "bye"}
	require.NoError(t, m.SaveNote(note, models.ActionCapture))
	require.NoError(t, m.DeleteEntity("u1", models.TableNotes, "n1"))

	// Gone locally.
	_, err := database.GetNote("n1")
	assert.Error(t, err)

	// The delete item carries the last known payload for conflict checks.
	items, err := database.ListQueue()
	require.NoError(t, err)
	require.Len(t, items, 2)
	del := items[1]
	assert.Equal(t, models.OpDelete, del.Operation)
	assert.Contains(t, string(del.Payload), "bye")
	assert.Contains(t, string(del.Payload), "updated_at")
}

func TestMutator_DeleteEntity_MissingRow(t *testing.T) {
	database := testDB(t)
	m := NewMutator(database)

	err := m.DeleteEntity("u1", models.TableNotes, "ghost")
	require.Error(t, err)

	// Nothing was queued.
	n, err2 := database.CountQueue()
	require.NoError(t, err2)
	assert.Zero(t, n)
}

func TestMutator_ResetFailed(t *testing.T) {
	database := testDB(t)
	m := NewMutator(database)

	// Two failed entities, one synced bystander.
	require.NoError(t, database.PutNote(&models.Note{
		ID: "n1", UserID: "u1", Content: "a", SyncStatus: models.SyncFailed,
	}))
	require.NoError(t, database.PutDeck(&models.Deck{
		ID: "d1", UserID: "u1", Name: "D", SyncStatus: models.SyncFailed,
	}))
	require.NoError(t, database.PutNote(&models.Note{
		ID: "n2", UserID: "u1", Content: "b", SyncStatus: models.SyncSynced,
	}))

	count, err := m.ResetFailed("u1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Entities back to pending.
	note, err := database.GetNote("n1")
	require.NoError(t, err)
	assert.Equal(t, models.SyncPending, note.SyncStatus)
	deck, err := database.GetDeck("d1")
	require.NoError(t, err)
	assert.Equal(t, models.SyncPending, deck.SyncStatus)

	// The bystander is untouched.
	other, err := database.GetNote("n2")
	require.NoError(t, err)
	assert.Equal(t, models.SyncSynced, other.SyncStatus)

	// Fresh update items on the queue with clean retry state.
	items, err := database.ListQueue()
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, models.OpUpdate, item.Operation)
		assert.Zero(t, item.RetryCount)
	}
}

func TestMutator_ResetFailed_Nothing(t *testing.T) {
	database := testDB(t)
	m := NewMutator(database)

	count, err := m.ResetFailed("u1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMutator_ThenProcess_EndToEnd(t *testing.T) {
	database := testDB(t)
	backend := newFakeBackend()
	m := NewMutator(database)
	p := newTestProcessor(database, backend, Options{})

	require.NoError(t, m.SaveNote(&models.Note{ID: "n1", UserID: "u1", Content: "hei"}, models.ActionCapture))
	require.NoError(t, m.SaveFlashcard(&models.Flashcard{
		ID: "c1", UserID: "u1", Front: "hund", Back: "dog",
	}))
	require.NoError(t, m.SavePreference(&models.UserPreference{
		ID: "u1:target_language", UserID: "u1", Key: models.PrefTargetLanguage, Value: "no",
	}))

	res := p.Process(context.Background(), "u1")
	assert.Equal(t, Result{Synced: 3}, res)

	pending, err := database.CountPendingByUser("u1")
	require.NoError(t, err)
	assert.Zero(t, pending)
}
