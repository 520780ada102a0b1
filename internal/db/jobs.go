package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kaamsetu/kaamsetu/internal/types"
)

const jobColumns = `id, employer_id, description, required_skills, wage_amount,
	 duration_days, shift_timing, worker_count, latitude, longitude,
	 assigned_workers, is_completed, is_cancelled, created_at, updated_at`

func scanJob(row pgx.Row) (*types.JobPosting, error) {
	var j types.JobPosting
	var skillsJSON, workersJSON []byte

	err := row.Scan(&j.ID, &j.EmployerID, &j.Description, &skillsJSON, &j.WageAmount,
		&j.DurationDays, &j.ShiftTiming, &j.WorkerCount,
		&j.Coordinates.Latitude, &j.Coordinates.Longitude,
		&workersJSON, &j.IsCompleted, &j.IsCancelled, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if skillsJSON != nil {
		_ = json.Unmarshal(skillsJSON, &j.RequiredSkills)
	}
	if workersJSON != nil {
		_ = json.Unmarshal(workersJSON, &j.AssignedWorkers)
	}
	return &j, nil
}

// CreateJobPosting inserts a posting and fills in the generated fields.
func (db *DB) CreateJobPosting(ctx context.Context, j *types.JobPosting) error {
	skillsJSON, err := json.Marshal(j.RequiredSkills)
	if err != nil {
		return fmt.Errorf("failed to marshal required skills: %w", err)
	}
	workersJSON, err := json.Marshal(j.AssignedWorkers)
	if err != nil {
		return fmt.Errorf("failed to marshal assigned workers: %w", err)
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO job_postings
		   (employer_id, description, required_skills, wage_amount, duration_days,
		    shift_timing, worker_count, latitude, longitude, assigned_workers)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at, updated_at`,
		j.EmployerID, j.Description, skillsJSON, j.WageAmount, j.DurationDays,
		j.ShiftTiming, j.WorkerCount, j.Coordinates.Latitude, j.Coordinates.Longitude,
		workersJSON,
	).Scan(&j.ID, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create job posting: %w", err)
	}
	return nil
}

// GetJobPosting retrieves a posting by id; absent rows return (nil, nil).
func (db *DB) GetJobPosting(ctx context.Context, id uuid.UUID) (*types.JobPosting, error) {
	j, err := scanJob(db.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM job_postings WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job posting: %w", err)
	}
	return j, nil
}

// ListJobPostings returns every posting, oldest first.
func (db *DB) ListJobPostings(ctx context.Context) ([]types.JobPosting, error) {
	return db.listJobs(ctx, `SELECT `+jobColumns+` FROM job_postings ORDER BY created_at`)
}

// ListEmployerJobPostings returns one employer's postings, oldest first.
func (db *DB) ListEmployerJobPostings(ctx context.Context, employerID uuid.UUID) ([]types.JobPosting, error) {
	return db.listJobs(ctx,
		`SELECT `+jobColumns+` FROM job_postings WHERE employer_id = $1 ORDER BY created_at`,
		employerID)
}

func (db *DB) listJobs(ctx context.Context, query string, args ...any) ([]types.JobPosting, error) {
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list job postings: %w", err)
	}
	defer rows.Close()

	var jobs []types.JobPosting
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job posting: %w", err)
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}

// SetJobAssignments replaces the posting's assigned worker list.
func (db *DB) SetJobAssignments(ctx context.Context, jobID uuid.UUID, workers []uuid.UUID) error {
	workersJSON, err := json.Marshal(workers)
	if err != nil {
		return fmt.Errorf("failed to marshal assigned workers: %w", err)
	}
	tag, err := db.pool.Exec(ctx,
		`UPDATE job_postings SET assigned_workers = $1, updated_at = NOW() WHERE id = $2`,
		workersJSON, jobID,
	)
	if err != nil {
		return fmt.Errorf("failed to set job assignments: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("job %s not found", jobID)
	}
	return nil
}

// SetJobCompleted marks the posting completed.
func (db *DB) SetJobCompleted(ctx context.Context, jobID uuid.UUID) error {
	return db.setJobFlag(ctx, jobID, "is_completed")
}

// SetJobCancelled marks the posting cancelled.
func (db *DB) SetJobCancelled(ctx context.Context, jobID uuid.UUID) error {
	return db.setJobFlag(ctx, jobID, "is_cancelled")
}

func (db *DB) setJobFlag(ctx context.Context, jobID uuid.UUID, column string) error {
	// column is one of two compile-time constants, never user input.
	tag, err := db.pool.Exec(ctx,
		`UPDATE job_postings SET `+column+` = TRUE, updated_at = NOW() WHERE id = $1`,
		jobID,
	)
	if err != nil {
		return fmt.Errorf("failed to update job %s: %w", column, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("job %s not found", jobID)
	}
	return nil
}

// ListJobWorkers returns the posting's assigned worker ids.
func (db *DB) ListJobWorkers(ctx context.Context, jobID uuid.UUID) ([]uuid.UUID, error) {
	var workersJSON []byte
	err := db.pool.QueryRow(ctx,
		`SELECT assigned_workers FROM job_postings WHERE id = $1`, jobID,
	).Scan(&workersJSON)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job workers: %w", err)
	}

	var workers []uuid.UUID
	if workersJSON != nil {
		if err := json.Unmarshal(workersJSON, &workers); err != nil {
			return nil, fmt.Errorf("failed to decode assigned workers: %w", err)
		}
	}
	return workers, nil
}
