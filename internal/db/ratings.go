package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// WorkerRating is one stored rating row.
type WorkerRating struct {
	ID        uuid.UUID `json:"id"`
	JobID     uuid.UUID `json:"job_id"`
	WorkerID  uuid.UUID `json:"worker_id"`
	Rating    int       `json:"rating"`
	Remarks   string    `json:"remarks,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SaveRating records a rating for the (job, worker) pairing. Re-rating the
// same pairing replaces the earlier row.
func (db *DB) SaveRating(ctx context.Context, jobID, workerID uuid.UUID, rating int, remarks string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO worker_ratings (job_id, worker_id, rating, remarks)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (job_id, worker_id) DO UPDATE
		 SET rating = $3, remarks = $4, created_at = NOW()`,
		jobID, workerID, rating, remarks,
	)
	if err != nil {
		return fmt.Errorf("failed to save rating: %w", err)
	}
	return nil
}

// ListWorkerRatings returns the worker's ratings, newest first.
func (db *DB) ListWorkerRatings(ctx context.Context, workerID uuid.UUID) ([]WorkerRating, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, job_id, worker_id, rating, remarks, created_at
		 FROM worker_ratings WHERE worker_id = $1 ORDER BY created_at DESC`,
		workerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}
	defer rows.Close()

	var ratings []WorkerRating
	for rows.Next() {
		var r WorkerRating
		if err := rows.Scan(&r.ID, &r.JobID, &r.WorkerID, &r.Rating, &r.Remarks, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, r)
	}
	return ratings, rows.Err()
}
