package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kaamsetu/kaamsetu/internal/types"
)

const templateColumns = `id, employer_id, name, description, required_skills, wage_amount,
	 duration_days, shift_timing, worker_count, latitude, longitude, created_at`

func scanTemplate(row pgx.Row) (*types.JobTemplate, error) {
	var t types.JobTemplate
	var skillsJSON []byte

	err := row.Scan(&t.ID, &t.EmployerID, &t.Name, &t.Description, &skillsJSON,
		&t.WageAmount, &t.DurationDays, &t.ShiftTiming, &t.WorkerCount,
		&t.Coordinates.Latitude, &t.Coordinates.Longitude, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	if skillsJSON != nil {
		_ = json.Unmarshal(skillsJSON, &t.RequiredSkills)
	}
	return &t, nil
}

// CreateJobTemplate inserts a reusable posting template.
func (db *DB) CreateJobTemplate(ctx context.Context, t *types.JobTemplate) error {
	skillsJSON, err := json.Marshal(t.RequiredSkills)
	if err != nil {
		return fmt.Errorf("failed to marshal required skills: %w", err)
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO job_templates
		   (employer_id, name, description, required_skills, wage_amount,
		    duration_days, shift_timing, worker_count, latitude, longitude)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at`,
		t.EmployerID, t.Name, t.Description, skillsJSON, t.WageAmount,
		t.DurationDays, t.ShiftTiming, t.WorkerCount,
		t.Coordinates.Latitude, t.Coordinates.Longitude,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create job template: %w", err)
	}
	return nil
}

// GetJobTemplate retrieves a template by id; absent rows return (nil, nil).
func (db *DB) GetJobTemplate(ctx context.Context, id uuid.UUID) (*types.JobTemplate, error) {
	t, err := scanTemplate(db.pool.QueryRow(ctx,
		`SELECT `+templateColumns+` FROM job_templates WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job template: %w", err)
	}
	return t, nil
}

// ListEmployerTemplates returns one employer's templates by name.
func (db *DB) ListEmployerTemplates(ctx context.Context, employerID uuid.UUID) ([]types.JobTemplate, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+templateColumns+` FROM job_templates WHERE employer_id = $1 ORDER BY name`,
		employerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list job templates: %w", err)
	}
	defer rows.Close()

	var templates []types.JobTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job template: %w", err)
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

// DeleteJobTemplate removes a template.
func (db *DB) DeleteJobTemplate(ctx context.Context, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM job_templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("template %s not found", id)
	}
	return nil
}
