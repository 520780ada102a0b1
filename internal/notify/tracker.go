// Package notify maintains per-(job, worker) notification records and an
// optional Redis-backed unread counter for the worker-facing badge.
package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/kaamsetu/kaamsetu/internal/types"
)

// Store persists notification records.
type Store interface {
	GetNotification(ctx context.Context, jobID, workerID uuid.UUID) (*types.JobNotification, error)
	UpsertNotification(ctx context.Context, rec *types.JobNotification) error
	ListWorkerNotifications(ctx context.Context, workerID uuid.UUID) ([]types.JobNotification, error)
	ListJobWorkers(ctx context.Context, jobID uuid.UUID) ([]uuid.UUID, error)
}

// Tracker records lifecycle notifications. It implements the engine's
// Notifier interface, so assignment and cancellation events flow in
// without the engine knowing about persistence or Redis.
type Tracker struct {
	store Store
	cache *redis.Client
	now   func() time.Time
}

// New creates a Tracker. cache may be nil, which disables the unread
// counter fast path and falls back to counting from the store.
func New(store Store, cache *redis.Client) *Tracker {
	return &Tracker{
		store: store,
		cache: cache,
		now:   time.Now,
	}
}

func unreadKey(workerID uuid.UUID) string {
	return "notify:unread:" + workerID.String()
}

// record loads the existing record for the pairing or starts a fresh one.
func (t *Tracker) record(ctx context.Context, jobID, workerID uuid.UUID) (*types.JobNotification, error) {
	rec, err := t.store.GetNotification(ctx, jobID, workerID)
	if err != nil {
		return nil, fmt.Errorf("load notification %s/%s: %w", jobID, workerID, err)
	}
	if rec == nil {
		rec = &types.JobNotification{JobID: jobID, WorkerID: workerID}
	}
	return rec, nil
}

func (t *Tracker) save(ctx context.Context, rec *types.JobNotification) error {
	rec.UpdatedAt = t.now()
	if err := t.store.UpsertNotification(ctx, rec); err != nil {
		return fmt.Errorf("save notification %s/%s: %w", rec.JobID, rec.WorkerID, err)
	}
	return nil
}

// bumpUnread adjusts the cached unread counter. Cache failures are logged
// and swallowed; the store remains the source of truth.
func (t *Tracker) bumpUnread(ctx context.Context, workerID uuid.UUID, delta int64) {
	if t.cache == nil {
		return
	}
	if err := t.cache.IncrBy(ctx, unreadKey(workerID), delta).Err(); err != nil {
		log.Printf("notify: unread counter update for %s failed: %v", workerID, err)
	}
}

// JobAssigned creates the notification record for a fresh assignment. The
// engine calls this after the assignment is persisted, so a failure here
// never unwinds the assignment; it is logged and dropped.
func (t *Tracker) JobAssigned(ctx context.Context, jobID, workerID uuid.UUID) {
	existing, err := t.store.GetNotification(ctx, jobID, workerID)
	if err != nil {
		log.Printf("notify: load notification %s/%s: %v", jobID, workerID, err)
		return
	}
	if existing != nil {
		// Re-assignment after an unassign keeps the existing record.
		return
	}
	rec := &types.JobNotification{JobID: jobID, WorkerID: workerID}
	if err := t.save(ctx, rec); err != nil {
		log.Printf("notify: %v", err)
		return
	}
	t.bumpUnread(ctx, workerID, 1)
}

// JobCancelled flags every assigned worker's record as cancelled. Cancelled
// records stop counting as unread.
func (t *Tracker) JobCancelled(ctx context.Context, jobID uuid.UUID) {
	workers, err := t.store.ListJobWorkers(ctx, jobID)
	if err != nil {
		log.Printf("notify: list workers for %s: %v", jobID, err)
		return
	}
	for _, workerID := range workers {
		rec, err := t.record(ctx, jobID, workerID)
		if err != nil {
			log.Printf("notify: %v", err)
			continue
		}
		if rec.Cancelled {
			continue
		}
		wasUnread := rec.Unread()
		rec.Cancelled = true
		if err := t.save(ctx, rec); err != nil {
			log.Printf("notify: %v", err)
			continue
		}
		if wasUnread {
			t.bumpUnread(ctx, workerID, -1)
		}
	}
}

// JobUpdated flags the update bit for every assigned worker, used when an
// employer edits a live posting.
func (t *Tracker) JobUpdated(ctx context.Context, jobID uuid.UUID) error {
	workers, err := t.store.ListJobWorkers(ctx, jobID)
	if err != nil {
		return fmt.Errorf("list workers for %s: %w", jobID, err)
	}
	for _, workerID := range workers {
		rec, err := t.record(ctx, jobID, workerID)
		if err != nil {
			return err
		}
		rec.UpdateSent = true
		if err := t.save(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

// SendReminders marks the reminder bit for every assigned worker that has
// not yet received one and returns how many were sent.
func (t *Tracker) SendReminders(ctx context.Context, jobID uuid.UUID) (int, error) {
	workers, err := t.store.ListJobWorkers(ctx, jobID)
	if err != nil {
		return 0, fmt.Errorf("list workers for %s: %w", jobID, err)
	}
	sent := 0
	for _, workerID := range workers {
		rec, err := t.record(ctx, jobID, workerID)
		if err != nil {
			return sent, err
		}
		if rec.ReminderSent || rec.Cancelled {
			continue
		}
		rec.ReminderSent = true
		if err := t.save(ctx, rec); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

// MarkRead sets the confirmation bit, acknowledging the worker has seen
// the assignment, and decrements the unread counter.
func (t *Tracker) MarkRead(ctx context.Context, jobID, workerID uuid.UUID) error {
	rec, err := t.record(ctx, jobID, workerID)
	if err != nil {
		return err
	}
	if rec.ConfirmationSent {
		return nil
	}
	wasUnread := rec.Unread()
	rec.ConfirmationSent = true
	if err := t.save(ctx, rec); err != nil {
		return err
	}
	if wasUnread {
		t.bumpUnread(ctx, workerID, -1)
	}
	return nil
}

// ListForWorker returns the worker's notification records, newest first.
func (t *Tracker) ListForWorker(ctx context.Context, workerID uuid.UUID) ([]types.JobNotification, error) {
	recs, err := t.store.ListWorkerNotifications(ctx, workerID)
	if err != nil {
		return nil, fmt.Errorf("list notifications for %s: %w", workerID, err)
	}
	return recs, nil
}

// UnreadCount reports the worker's unread notification count, preferring
// the Redis counter and recounting from the store on a miss.
func (t *Tracker) UnreadCount(ctx context.Context, workerID uuid.UUID) (int, error) {
	if t.cache != nil {
		n, err := t.cache.Get(ctx, unreadKey(workerID)).Int()
		if err == nil && n >= 0 {
			return n, nil
		}
		if err != nil && err != redis.Nil {
			log.Printf("notify: unread counter read for %s failed: %v", workerID, err)
		}
	}

	recs, err := t.store.ListWorkerNotifications(ctx, workerID)
	if err != nil {
		return 0, fmt.Errorf("count unread for %s: %w", workerID, err)
	}
	count := 0
	for i := range recs {
		if recs[i].Unread() {
			count++
		}
	}
	if t.cache != nil {
		if err := t.cache.Set(ctx, unreadKey(workerID), count, 24*time.Hour).Err(); err != nil {
			log.Printf("notify: unread counter backfill for %s failed: %v", workerID, err)
		}
	}
	return count, nil
}
