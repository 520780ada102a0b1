package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kaamsetu/kaamsetu/internal/types"
)

const workerColumns = `id, account_id, name, mobile_number, skills, wage_min, wage_max,
	 latitude, longitude, is_available, weekly_availability,
	 reliability_score, rating, rating_count, completed_jobs, created_at, updated_at`

func scanWorker(row pgx.Row) (*types.WorkerProfile, error) {
	var w types.WorkerProfile
	var skillsJSON, weeklyJSON []byte

	err := row.Scan(&w.ID, &w.AccountID, &w.Name, &w.MobileNumber, &skillsJSON,
		&w.WageRange.Min, &w.WageRange.Max,
		&w.Coordinates.Latitude, &w.Coordinates.Longitude,
		&w.IsAvailable, &weeklyJSON,
		&w.ReliabilityScore, &w.Rating, &w.RatingCount, &w.CompletedJobs,
		&w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if skillsJSON != nil {
		_ = json.Unmarshal(skillsJSON, &w.Skills)
	}
	if weeklyJSON != nil {
		_ = json.Unmarshal(weeklyJSON, &w.Weekly)
	}
	return &w, nil
}

// CreateWorkerProfile inserts a worker and fills in the generated fields.
func (db *DB) CreateWorkerProfile(ctx context.Context, w *types.WorkerProfile) error {
	skillsJSON, err := json.Marshal(w.Skills)
	if err != nil {
		return fmt.Errorf("failed to marshal skills: %w", err)
	}
	weeklyJSON, err := json.Marshal(w.Weekly)
	if err != nil {
		return fmt.Errorf("failed to marshal availability: %w", err)
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO worker_profiles
		   (account_id, name, mobile_number, skills, wage_min, wage_max,
		    latitude, longitude, is_available, weekly_availability,
		    reliability_score, rating, rating_count, completed_jobs)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING id, created_at, updated_at`,
		w.AccountID, w.Name, w.MobileNumber, skillsJSON,
		w.WageRange.Min, w.WageRange.Max,
		w.Coordinates.Latitude, w.Coordinates.Longitude,
		w.IsAvailable, weeklyJSON,
		w.ReliabilityScore, w.Rating, w.RatingCount, w.CompletedJobs,
	).Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create worker profile: %w", err)
	}
	return nil
}

// GetWorkerProfile retrieves a worker by id; absent rows return (nil, nil).
func (db *DB) GetWorkerProfile(ctx context.Context, id uuid.UUID) (*types.WorkerProfile, error) {
	w, err := scanWorker(db.pool.QueryRow(ctx,
		`SELECT `+workerColumns+` FROM worker_profiles WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get worker profile: %w", err)
	}
	return w, nil
}

// ListWorkerProfiles returns workers, optionally only the available ones.
func (db *DB) ListWorkerProfiles(ctx context.Context, onlyAvailable bool) ([]types.WorkerProfile, error) {
	query := `SELECT ` + workerColumns + ` FROM worker_profiles`
	if onlyAvailable {
		query += ` WHERE is_available`
	}
	query += ` ORDER BY created_at`

	rows, err := db.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list worker profiles: %w", err)
	}
	defer rows.Close()

	var workers []types.WorkerProfile
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan worker profile: %w", err)
		}
		workers = append(workers, *w)
	}
	return workers, rows.Err()
}

// UpdateWorkerScores persists the outcome of a completed rating in one
// statement.
func (db *DB) UpdateWorkerScores(ctx context.Context, workerID uuid.UUID, rating float64, ratingCount int, reliability float64, completedJobs int) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE worker_profiles
		 SET rating = $1, rating_count = $2, reliability_score = $3,
		     completed_jobs = $4, updated_at = NOW()
		 WHERE id = $5`,
		rating, ratingCount, reliability, completedJobs, workerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update worker scores: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("worker %s not found", workerID)
	}
	return nil
}

// SetWorkerAvailability toggles the worker's global availability flag.
func (db *DB) SetWorkerAvailability(ctx context.Context, workerID uuid.UUID, available bool) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE worker_profiles SET is_available = $1, updated_at = NOW() WHERE id = $2`,
		available, workerID,
	)
	if err != nil {
		return fmt.Errorf("failed to set worker availability: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("worker %s not found", workerID)
	}
	return nil
}

// UpdateWorkerProfile replaces the worker's editable fields. Scores are
// untouched; only ratings move them.
func (db *DB) UpdateWorkerProfile(ctx context.Context, w *types.WorkerProfile) error {
	skillsJSON, err := json.Marshal(w.Skills)
	if err != nil {
		return fmt.Errorf("failed to marshal skills: %w", err)
	}
	weeklyJSON, err := json.Marshal(w.Weekly)
	if err != nil {
		return fmt.Errorf("failed to marshal availability: %w", err)
	}

	tag, err := db.pool.Exec(ctx,
		`UPDATE worker_profiles
		 SET name = $1, mobile_number = $2, skills = $3, wage_min = $4, wage_max = $5,
		     latitude = $6, longitude = $7, is_available = $8,
		     weekly_availability = $9, updated_at = NOW()
		 WHERE id = $10`,
		w.Name, w.MobileNumber, skillsJSON, w.WageRange.Min, w.WageRange.Max,
		w.Coordinates.Latitude, w.Coordinates.Longitude, w.IsAvailable,
		weeklyJSON, w.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update worker profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("worker %s not found", w.ID)
	}
	return nil
}

// CountWorkers returns the total number of registered workers.
func (db *DB) CountWorkers(ctx context.Context) (int, error) {
	var n int
	if err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM worker_profiles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count workers: %w", err)
	}
	return n, nil
}

// CountRepeatWorkers returns workers with more than one completed job.
func (db *DB) CountRepeatWorkers(ctx context.Context) (int, error) {
	var n int
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM worker_profiles WHERE completed_jobs > 1`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count repeat workers: %w", err)
	}
	return n, nil
}
