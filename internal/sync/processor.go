// Package sync drains the local mutation queue against the Glotian remote
// backend, detecting conflicts and keeping retry bookkeeping.
package sync

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/jakga/glotian/internal/db"
	"github.com/jakga/glotian/internal/log"
	"github.com/jakga/glotian/internal/models"
	"github.com/jakga/glotian/internal/remote"
)

// Default policy knobs. Overridable through Options so the retry bound and
// lease lifetime can be tuned and tested independently of the algorithm.
const (
	DefaultMaxRetries = 5
	DefaultLeaseTTL   = 2 * time.Minute
)

// Result aggregates one processor run. Conflicts are counted separately
// from synced and failed: a conflict is not an error, it resolves to the
// remote copy.
type Result struct {
	Synced    int `json:"synced"`
	Failed    int `json:"failed"`
	Conflicts int `json:"conflicts"`
}

// Options tunes the processor.
type Options struct {
	MaxRetries int
	LeaseTTL   time.Duration
}

// Processor drains the sync queue. Process never returns an error: every
// failure becomes per-item bookkeeping plus a diagnostic log line.
type Processor struct {
	db      *db.DB
	backend remote.Backend
	logger  *log.Logger

	maxRetries int
	leaseTTL   time.Duration

	// owner identifies this process for the persisted lease.
	owner string
	// running guards against overlapping triggers within this process;
	// the lease row guards across processes.
	running atomic.Bool
}

// NewProcessor creates a sync processor.
func NewProcessor(database *db.DB, backend remote.Backend, logger *log.Logger, opts Options) *Processor {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.LeaseTTL <= 0 {
		opts.LeaseTTL = DefaultLeaseTTL
	}
	if logger == nil {
		logger = log.NewDiscard()
	}
	return &Processor{
		db:         database,
		backend:    backend,
		logger:     logger,
		maxRetries: opts.MaxRetries,
		leaseTTL:   opts.LeaseTTL,
		owner:      uuid.New().String(),
	}
}

// itemOutcome classifies what happened to one queue item.
type itemOutcome int

const (
	outcomeSynced itemOutcome = iota
	outcomeFailed
	outcomeConflict
	outcomeRequeued
)

// Process drains the queue once, strictly FIFO, one item at a time. All
// external triggers (timer, reconnect, user action, inbound request) land
// here; overlapping triggers coalesce into a single effective run and the
// losers return a zero Result.
func (p *Processor) Process(ctx context.Context, userID string) Result {
	var res Result

	if !p.running.CompareAndSwap(false, true) {
		p.logger.Printf("sync already running in this process, skipping trigger")
		return res
	}
	defer p.running.Store(false)

	acquired, err := p.db.AcquireSyncLease(p.owner, p.leaseTTL)
	if err != nil {
		p.logger.Errorf("acquire sync lease: %v", err)
		return res
	}
	if !acquired {
		p.logger.Printf("sync lease held elsewhere, skipping trigger")
		return res
	}
	defer func() {
		if err := p.db.ReleaseSyncLease(p.owner); err != nil {
			p.logger.Errorf("release sync lease: %v", err)
		}
	}()

	items, err := p.db.ListQueue()
	if err != nil {
		p.logger.Errorf("list sync queue: %v", err)
		return res
	}

	for i := range items {
		select {
		case <-ctx.Done():
			p.logger.Printf("sync interrupted: %v", ctx.Err())
			return res
		default:
		}

		if err := p.db.HeartbeatSyncLease(p.owner); err != nil {
			p.logger.Errorf("lease heartbeat: %v", err)
		}

		switch p.processItem(ctx, userID, &items[i]) {
		case outcomeSynced:
			res.Synced++
		case outcomeFailed:
			res.Failed++
		case outcomeConflict:
			res.Conflicts++
		case outcomeRequeued:
			// stays queued for the next trigger
		}
	}

	if err := p.db.SetSyncMeta(models.SyncMetaLastSync, time.Now().UTC().Format(time.RFC3339)); err != nil {
		p.logger.Errorf("record last sync: %v", err)
	}

	p.logger.Printf("sync done: %d synced, %d failed, %d conflicts", res.Synced, res.Failed, res.Conflicts)
	return res
}

// processItem runs the conflict-check / validate / apply / bookkeep
// sequence for one item. The sequence completes (or fails) before the next
// item starts; one item's failure never aborts the run.
func (p *Processor) processItem(ctx context.Context, userID string, item *models.SyncQueueItem) itemOutcome {
	op := item.Operation

	// Conflict detection applies to mutations of rows that may already
	// exist remotely. Creates go straight to apply.
	if op != models.OpCreate {
		meta, err := p.backend.FetchMeta(ctx, item.Table, item.EntityID)
		switch {
		case err == nil:
			payloadTime, ok := models.PayloadUpdatedAt(item.Payload)
			if !ok || meta.UpdatedAt.After(payloadTime) {
				return p.resolveConflict(ctx, userID, item)
			}
		case errors.Is(err, remote.ErrNotFound):
			if op == models.OpDelete {
				// Row already gone remotely: the delete is applied.
				return p.finishItem(item)
			}
			// Updating a row that does not exist remotely: a by-id
			// update matches zero rows and reports success without
			// writing anything, so recreate the row instead.
			op = models.OpCreate
		default:
			return p.handleFailure(item, err)
		}
	}

	// Every outbound payload passes the table's shape check first; a
	// validation failure is permanent, never retried.
	if op != models.OpDelete {
		if _, err := models.DecodeRow(item.Table, item.Payload); err != nil {
			p.logger.Errorf("invalid payload for %s %s/%s: %v", op, item.Table, item.EntityID, err)
			return p.failItem(item, err)
		}
	}

	var err error
	switch op {
	case models.OpCreate:
		err = p.backend.Insert(ctx, item.Table, item.Payload)
	case models.OpUpdate:
		err = p.backend.Update(ctx, item.Table, item.EntityID, item.Payload)
	case models.OpDelete:
		err = p.backend.Delete(ctx, item.Table, item.EntityID)
	default:
		return p.failItem(item, errors.New("unknown operation "+string(op)))
	}
	if err != nil {
		return p.handleFailure(item, err)
	}
	return p.finishItem(item)
}

// finishItem marks the cache row synced and drops the queue item.
func (p *Processor) finishItem(item *models.SyncQueueItem) itemOutcome {
	if item.Operation != models.OpDelete {
		if err := p.db.SetSyncStatus(item.Table, item.EntityID, models.SyncSynced); err != nil {
			p.logger.Errorf("mark %s/%s synced: %v", item.Table, item.EntityID, err)
		}
	}
	if err := p.db.RemoveQueueItem(item.ID); err != nil {
		p.logger.Errorf("drop queue item %d: %v", item.ID, err)
	}
	return outcomeSynced
}

// failItem marks the cache row permanently failed and drops the queue item.
func (p *Processor) failItem(item *models.SyncQueueItem, cause error) itemOutcome {
	if item.Operation != models.OpDelete {
		if err := p.db.SetSyncStatus(item.Table, item.EntityID, models.SyncFailed); err != nil {
			p.logger.Errorf("mark %s/%s failed: %v", item.Table, item.EntityID, err)
		}
	}
	if err := p.db.RemoveQueueItem(item.ID); err != nil {
		p.logger.Errorf("drop queue item %d: %v", item.ID, err)
	}
	p.logger.Printf("%s %s/%s failed permanently: %v", item.Operation, item.Table, item.EntityID, cause)
	return outcomeFailed
}

// handleFailure applies the bounded retry policy to a remote failure.
func (p *Processor) handleFailure(item *models.SyncQueueItem, cause error) itemOutcome {
	if !remote.Retryable(cause) {
		return p.failItem(item, cause)
	}

	retries := item.RetryCount + 1
	if retries >= p.maxRetries {
		return p.failItem(item, cause)
	}

	if err := p.db.UpdateQueueRetry(item.ID, retries, cause.Error()); err != nil {
		p.logger.Errorf("update retry bookkeeping for item %d: %v", item.ID, err)
	}
	p.logger.Printf("%s %s/%s attempt %d/%d failed, will retry: %v",
		item.Operation, item.Table, item.EntityID, retries, p.maxRetries, cause)
	return outcomeRequeued
}

// resolveConflict applies last-write-wins in the remote's favor: fetch the
// full remote row, validate it, overwrite the local entry, drop the item.
// The discarded local payload is preserved in the activity log so the user
// can recover it.
func (p *Processor) resolveConflict(ctx context.Context, userID string, item *models.SyncQueueItem) itemOutcome {
	raw, err := p.backend.Fetch(ctx, item.Table, item.EntityID)
	if err != nil {
		// The row vanished (or the fetch failed) between the meta check
		// and now; leave the item for the next run to re-resolve.
		return p.handleFailure(item, err)
	}

	row, err := models.DecodeRow(item.Table, raw)
	if err != nil {
		p.logger.Errorf("remote row %s/%s failed validation: %v", item.Table, item.EntityID, err)
		return p.failItem(item, err)
	}

	discarded, err := json.Marshal(map[string]json.RawMessage{
		"operation": json.RawMessage(`"` + string(item.Operation) + `"`),
		"discarded": item.Payload,
	})
	if err == nil {
		if _, err := p.db.AppendActivity(userID, models.ActionConflictResolved, item.Table, item.EntityID, discarded); err != nil {
			p.logger.Errorf("record conflict activity for %s/%s: %v", item.Table, item.EntityID, err)
		}
	}

	if err := p.db.ApplyRow(row, models.SyncSynced); err != nil {
		return p.handleFailure(item, err)
	}
	if err := p.db.RemoveQueueItem(item.ID); err != nil {
		p.logger.Errorf("drop queue item %d: %v", item.ID, err)
	}
	p.logger.Printf("conflict on %s/%s resolved in remote's favor", item.Table, item.EntityID)
	return outcomeConflict
}
