package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kaamsetu/kaamsetu/internal/types"
)

// UpsertEmployerProfile creates or replaces the employer's profile.
func (db *DB) UpsertEmployerProfile(ctx context.Context, e *types.EmployerProfile) error {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO employer_profiles
		   (account_id, company_name, company_type, contact_person, mobile_number, latitude, longitude)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (account_id) DO UPDATE
		 SET company_name = $2, company_type = $3, contact_person = $4,
		     mobile_number = $5, latitude = $6, longitude = $7, updated_at = NOW()
		 RETURNING created_at, updated_at`,
		e.AccountID, e.CompanyName, e.CompanyType, e.ContactPerson,
		e.MobileNumber, e.Coordinates.Latitude, e.Coordinates.Longitude,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert employer profile: %w", err)
	}
	return nil
}

// GetEmployerProfile retrieves an employer by account id; absent rows
// return (nil, nil).
func (db *DB) GetEmployerProfile(ctx context.Context, accountID uuid.UUID) (*types.EmployerProfile, error) {
	var e types.EmployerProfile
	err := db.pool.QueryRow(ctx,
		`SELECT account_id, company_name, company_type, contact_person, mobile_number,
		        latitude, longitude, created_at, updated_at
		 FROM employer_profiles WHERE account_id = $1`,
		accountID,
	).Scan(&e.AccountID, &e.CompanyName, &e.CompanyType, &e.ContactPerson,
		&e.MobileNumber, &e.Coordinates.Latitude, &e.Coordinates.Longitude,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get employer profile: %w", err)
	}
	return &e, nil
}

// CountActiveEmployers returns employers with at least one posting.
func (db *DB) CountActiveEmployers(ctx context.Context) (int, error) {
	var n int
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(DISTINCT employer_id) FROM job_postings`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count active employers: %w", err)
	}
	return n, nil
}

// CountRepeatEmployers returns employers with more than one posting.
func (db *DB) CountRepeatEmployers(ctx context.Context) (int, error) {
	var n int
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM (
		   SELECT employer_id FROM job_postings GROUP BY employer_id HAVING COUNT(*) > 1
		 ) repeat_employers`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count repeat employers: %w", err)
	}
	return n, nil
}
