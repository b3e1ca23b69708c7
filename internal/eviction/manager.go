// Package eviction keeps the cache store under its storage quota by
// reclaiming least-recently-accessed rows that are already synced and
// stale. Pending work and recent history are never touched.
package eviction

import (
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/jakga/glotian/internal/db"
	"github.com/jakga/glotian/internal/log"
	"github.com/jakga/glotian/internal/models"
)

// Default policy knobs. Exposed through Options so the fraction and
// thresholds can be tuned and property-tested independently.
const (
	DefaultHighWater         = 0.90
	DefaultEvictFraction     = 0.20
	DefaultStaleAfter        = 30 * 24 * time.Hour
	DefaultActivityRetention = 1000
)

// Usage is one storage-quota estimate.
type Usage struct {
	Used  int64
	Quota int64
}

// Ratio returns used/quota, or 0 when the quota is unknown.
func (u Usage) Ratio() float64 {
	if u.Quota <= 0 {
		return 0
	}
	return float64(u.Used) / float64(u.Quota)
}

// QuotaProbe estimates current storage usage. An error means the estimate
// is unavailable; eviction skips the cycle rather than guessing.
type QuotaProbe interface {
	Estimate(ctx context.Context) (Usage, error)
}

// StoreSizeProbe measures the SQLite file set against a configured quota.
type StoreSizeProbe struct {
	Path  string
	Quota int64
}

// Estimate stats the database file plus its journal sidecars.
func (p StoreSizeProbe) Estimate(ctx context.Context) (Usage, error) {
	if p.Quota <= 0 {
		return Usage{}, fmt.Errorf("no storage quota configured")
	}
	var used int64
	found := false
	for _, path := range []string{p.Path, p.Path + "-wal", p.Path + "-shm", p.Path + "-journal"} {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		used += info.Size()
		found = true
	}
	if !found {
		return Usage{}, fmt.Errorf("stat store %s: no files found", p.Path)
	}
	return Usage{Used: used, Quota: p.Quota}, nil
}

// Result reports one eviction pass. Skipped marks a pass that never ran
// because no usage estimate was available; the quota fields are then
// meaningless, not zero usage.
type Result struct {
	Evicted      bool    `json:"evicted"`
	Skipped      bool    `json:"skipped"`
	ItemsRemoved int     `json:"items_removed"`
	QuotaBefore  float64 `json:"quota_before"`
	QuotaAfter   float64 `json:"quota_after"`
}

// Options tunes the eviction policy.
type Options struct {
	HighWater         float64
	EvictFraction     float64
	StaleAfter        time.Duration
	ActivityRetention int
}

// Manager runs quota-gated LRU reclamation across the entity tables plus
// the activity log's count-based retention.
type Manager struct {
	db     *db.DB
	probe  QuotaProbe
	logger *log.Logger

	highWater         float64
	evictFraction     float64
	staleAfter        time.Duration
	activityRetention int
}

// NewManager creates an eviction manager.
func NewManager(database *db.DB, probe QuotaProbe, logger *log.Logger, opts Options) *Manager {
	if opts.HighWater <= 0 {
		opts.HighWater = DefaultHighWater
	}
	if opts.EvictFraction <= 0 {
		opts.EvictFraction = DefaultEvictFraction
	}
	if opts.StaleAfter <= 0 {
		opts.StaleAfter = DefaultStaleAfter
	}
	if opts.ActivityRetention <= 0 {
		opts.ActivityRetention = DefaultActivityRetention
	}
	if logger == nil {
		logger = log.NewDiscard()
	}
	return &Manager{
		db:                database,
		probe:             probe,
		logger:            logger,
		highWater:         opts.HighWater,
		evictFraction:     opts.EvictFraction,
		staleAfter:        opts.StaleAfter,
		activityRetention: opts.ActivityRetention,
	}
}

// Run performs one eviction pass. Quota is checked once before and once
// after the pass; a triggered pass always sweeps every table, even if
// usage drops below the threshold partway through.
func (m *Manager) Run(ctx context.Context) (Result, error) {
	before, err := m.probe.Estimate(ctx)
	if err != nil {
		// Estimate unavailable: skip the cycle rather than guess.
		m.logger.Printf("storage estimate unavailable, skipping eviction: %v", err)
		return Result{Skipped: true}, nil
	}

	res := Result{QuotaBefore: before.Ratio(), QuotaAfter: before.Ratio()}
	if before.Ratio() < m.highWater {
		return res, nil
	}

	cutoff := time.Now().Add(-m.staleAfter)

	for _, table := range []string{models.TableNotes, models.TableFlashcards, models.TableDecks} {
		eligible, err := m.db.CountEvictable(table, cutoff)
		if err != nil {
			return res, fmt.Errorf("count evictable %s: %w", table, err)
		}
		if eligible == 0 {
			continue
		}
		target := int(math.Ceil(float64(eligible) * m.evictFraction))
		removed, err := m.db.EvictOldest(table, cutoff, target)
		if err != nil {
			return res, fmt.Errorf("evict %s: %w", table, err)
		}
		res.ItemsRemoved += int(removed)
		m.logger.Printf("evicted %d of %d stale rows from %s", removed, eligible, table)
	}

	pruned, err := m.db.PruneActivity(m.activityRetention)
	if err != nil {
		return res, fmt.Errorf("prune activity log: %w", err)
	}
	res.ItemsRemoved += int(pruned)

	res.Evicted = res.ItemsRemoved > 0

	if after, err := m.probe.Estimate(ctx); err == nil {
		res.QuotaAfter = after.Ratio()
	}
	return res, nil
}
