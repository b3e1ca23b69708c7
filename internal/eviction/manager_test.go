package eviction

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/jakga/glotian/internal/db"
	"github.com/jakga/glotian/internal/log"
	"github.com/jakga/glotian/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testDB creates a temporary test database.
func testDB(t *testing.T) *db.DB {
	t.Helper()

	database, err := db.New(db.DefaultConfig(filepath.Join(t.TempDir(), "test.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

// fixedProbe reports a constant usage ratio (or a failure).
type fixedProbe struct {
	usage Usage
	err   error
}

func (p fixedProbe) Estimate(ctx context.Context) (Usage, error) {
	return p.usage, p.err
}

// staleNote inserts a note with a backdated access time.
func staleNote(t *testing.T, database *db.DB, id string, status models.SyncStatus, age time.Duration) {
	t.Helper()
	require.NoError(t, database.PutNote(&models.Note{ID: id, UserID: "u1", Content: "x", SyncStatus: status}))
	err := database.Model(&models.Note{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_accessed_at": time.Now().Add(-age),
			"sync_status":      status,
		}).Error
	require.NoError(t, err)
}

func staleCard(t *testing.T, database *db.DB, id string, status models.SyncStatus, age time.Duration) {
	t.Helper()
	require.NoError(t, database.PutFlashcard(&models.Flashcard{
		ID: id, UserID: "u1", Front: "f", Back: "b", SyncStatus: status,
	}))
	err := database.Model(&models.Flashcard{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_accessed_at": time.Now().Add(-age),
			"sync_status":      status,
		}).Error
	require.NoError(t, err)
}

func TestRun_SkipsWhenEstimateUnavailable(t *testing.T) {
	database := testDB(t)
	staleNote(t, database, "n1", models.SyncSynced, 60*24*time.Hour)

	m := NewManager(database, fixedProbe{err: errors.New("no quota configured")}, log.NewDiscard(), Options{})

	res, err := m.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Result{Skipped: true}, res)

	// Nothing was removed.
	_, err = database.GetNote("n1")
	assert.NoError(t, err)
}

func TestRun_EmptyStoreIsNotSkipped(t *testing.T) {
	database := testDB(t)

	// A genuinely empty store reports zero usage: the pass ran and found
	// nothing, which must stay distinguishable from a skipped pass.
	m := NewManager(database, fixedProbe{usage: Usage{Used: 0, Quota: 100}}, log.NewDiscard(), Options{})

	res, err := m.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.Zero(t, res.QuotaBefore)
}

func TestRun_NoopBelowHighWater(t *testing.T) {
	database := testDB(t)
	staleNote(t, database, "n1", models.SyncSynced, 60*24*time.Hour)

	m := NewManager(database, fixedProbe{usage: Usage{Used: 50, Quota: 100}}, log.NewDiscard(), Options{})

	res, err := m.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Evicted)
	assert.Zero(t, res.ItemsRemoved)
	assert.InDelta(t, 0.5, res.QuotaBefore, 1e-9)

	_, err = database.GetNote("n1")
	assert.NoError(t, err)
}

func TestRun_RemovesCeilOfEligibleFraction(t *testing.T) {
	database := testDB(t)

	// 7 eligible notes: ceil(7 * 0.20) = 2 must go.
	for i := 0; i < 7; i++ {
		staleNote(t, database, fmt.Sprintf("n%d", i), models.SyncSynced, 60*24*time.Hour)
	}

	m := NewManager(database, fixedProbe{usage: Usage{Used: 95, Quota: 100}}, log.NewDiscard(), Options{})

	res, err := m.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Evicted)
	assert.Equal(t, 2, res.ItemsRemoved)

	var remaining int64
	require.NoError(t, database.Model(&models.Note{}).Count(&remaining).Error)
	assert.Equal(t, int64(5), remaining)
}

func TestRun_NeverRemovesPendingOrRecent(t *testing.T) {
	database := testDB(t)

	staleNote(t, database, "stale-pending", models.SyncPending, 60*24*time.Hour)
	staleNote(t, database, "fresh-synced", models.SyncSynced, time.Hour)
	staleNote(t, database, "stale-synced", models.SyncSynced, 60*24*time.Hour)

	m := NewManager(database, fixedProbe{usage: Usage{Used: 99, Quota: 100}}, log.NewDiscard(), Options{
		EvictFraction: 1.0, // remove every eligible row
	})

	res, err := m.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.ItemsRemoved)

	var remaining []string
	require.NoError(t, database.Model(&models.Note{}).Pluck("id", &remaining).Error)
	assert.ElementsMatch(t, []string{"stale-pending", "fresh-synced"}, remaining)
}

func TestRun_SweepsEveryTable(t *testing.T) {
	database := testDB(t)

	staleNote(t, database, "n1", models.SyncSynced, 60*24*time.Hour)
	staleCard(t, database, "c1", models.SyncSynced, 60*24*time.Hour)

	m := NewManager(database, fixedProbe{usage: Usage{Used: 99, Quota: 100}}, log.NewDiscard(), Options{
		EvictFraction: 1.0,
	})

	res, err := m.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.ItemsRemoved, "a triggered pass sweeps all tables, no early exit")
}

func TestRun_PrunesActivityLog(t *testing.T) {
	database := testDB(t)

	for i := 0; i < 12; i++ {
		_, err := database.AppendActivity("u1", models.ActionCapture, models.TableNotes,
			fmt.Sprintf("n%d", i), nil)
		require.NoError(t, err)
	}

	m := NewManager(database, fixedProbe{usage: Usage{Used: 99, Quota: 100}}, log.NewDiscard(), Options{
		ActivityRetention: 10,
	})

	res, err := m.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.ItemsRemoved)

	n, err := database.CountActivity()
	require.NoError(t, err)
	assert.Equal(t, int64(10), n)
}

func TestUsageRatio(t *testing.T) {
	assert.InDelta(t, 0.9, Usage{Used: 90, Quota: 100}.Ratio(), 1e-9)
	assert.Zero(t, Usage{Used: 10, Quota: 0}.Ratio())
}

func TestStoreSizeProbe(t *testing.T) {
	database := testDB(t)

	probe := StoreSizeProbe{Path: database.Path(), Quota: 1 << 30}
	usage, err := probe.Estimate(context.Background())
	require.NoError(t, err)
	assert.Greater(t, usage.Used, int64(0))
	assert.Equal(t, int64(1<<30), usage.Quota)

	// No quota configured: estimate is unavailable.
	_, err = StoreSizeProbe{Path: database.Path()}.Estimate(context.Background())
	assert.Error(t, err)

	// Missing file set: estimate is unavailable.
	_, err = StoreSizeProbe{Path: "/nonexistent/glotian.db", Quota: 1}.Estimate(context.Background())
	assert.Error(t, err)
}
