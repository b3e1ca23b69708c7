package sync

import (
	"context"
	"testing"
	"time"

	"github.com/jakga/glotian/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_PeriodicTrigger(t *testing.T) {
	database := testDB(t)
	backend := newFakeBackend()
	p := newTestProcessor(database, backend, Options{})

	pendingNote(t, database, models.OpCreate, "n1", "tick", "2026-08-01T10:00:00Z")

	s := NewScheduler(p, 20*time.Millisecond, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	s.Run(ctx, "u1")

	n, err := database.CountQueue()
	require.NoError(t, err)
	assert.Zero(t, n, "the periodic trigger drained the queue")
}

func TestScheduler_SkipsWhileOffline(t *testing.T) {
	database := testDB(t)
	backend := newFakeBackend()
	p := newTestProcessor(database, backend, Options{})

	pendingNote(t, database, models.OpCreate, "n1", "waits", "2026-08-01T10:00:00Z")

	offline := func(ctx context.Context) bool { return false }
	s := NewScheduler(p, 20*time.Millisecond, offline)

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	s.Run(ctx, "u1")

	assert.Empty(t, backend.calls, "no sync attempts while offline")
}

func TestScheduler_SyncsOnReconnect(t *testing.T) {
	database := testDB(t)
	backend := newFakeBackend()
	p := newTestProcessor(database, backend, Options{})

	pendingNote(t, database, models.OpCreate, "n1", "back online", "2026-08-01T10:00:00Z")

	// Offline for the first few probes, then online.
	probes := 0
	probe := func(ctx context.Context) bool {
		probes++
		return probes > 3
	}
	s := NewScheduler(p, 20*time.Millisecond, probe)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	s.Run(ctx, "u1")

	n, err := database.CountQueue()
	require.NoError(t, err)
	assert.Zero(t, n, "reconnect fired a sync")
}

func TestNewScheduler_DefaultInterval(t *testing.T) {
	s := NewScheduler(nil, 0, nil)
	assert.Equal(t, DefaultSyncInterval, s.interval)
}
