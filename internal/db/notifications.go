package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kaamsetu/kaamsetu/internal/types"
)

// GetNotification retrieves one (job, worker) record; absent rows return
// (nil, nil).
func (db *DB) GetNotification(ctx context.Context, jobID, workerID uuid.UUID) (*types.JobNotification, error) {
	var n types.JobNotification
	err := db.pool.QueryRow(ctx,
		`SELECT job_id, worker_id, reminder_sent, update_sent, confirmation_sent, cancelled, updated_at
		 FROM job_notifications WHERE job_id = $1 AND worker_id = $2`,
		jobID, workerID,
	).Scan(&n.JobID, &n.WorkerID, &n.ReminderSent, &n.UpdateSent,
		&n.ConfirmationSent, &n.Cancelled, &n.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return &n, nil
}

// UpsertNotification writes the record, replacing any prior flags for the
// pairing.
func (db *DB) UpsertNotification(ctx context.Context, rec *types.JobNotification) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO job_notifications
		   (job_id, worker_id, reminder_sent, update_sent, confirmation_sent, cancelled, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (job_id, worker_id) DO UPDATE
		 SET reminder_sent = $3, update_sent = $4, confirmation_sent = $5,
		     cancelled = $6, updated_at = $7`,
		rec.JobID, rec.WorkerID, rec.ReminderSent, rec.UpdateSent,
		rec.ConfirmationSent, rec.Cancelled, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert notification: %w", err)
	}
	return nil
}

// ListWorkerNotifications returns the worker's records, newest first.
func (db *DB) ListWorkerNotifications(ctx context.Context, workerID uuid.UUID) ([]types.JobNotification, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT job_id, worker_id, reminder_sent, update_sent, confirmation_sent, cancelled, updated_at
		 FROM job_notifications WHERE worker_id = $1 ORDER BY updated_at DESC`,
		workerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var records []types.JobNotification
	for rows.Next() {
		var n types.JobNotification
		err := rows.Scan(&n.JobID, &n.WorkerID, &n.ReminderSent, &n.UpdateSent,
			&n.ConfirmationSent, &n.Cancelled, &n.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		records = append(records, n)
	}
	return records, rows.Err()
}
