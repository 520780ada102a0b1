package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kaamsetu/kaamsetu/internal/types"
)

const attendanceColumns = `id, job_id, worker_id, work_date, check_in_time, check_out_time`

func scanAttendance(row pgx.Row) (*types.AttendanceRecord, error) {
	var rec types.AttendanceRecord
	err := row.Scan(&rec.ID, &rec.JobID, &rec.WorkerID, &rec.Date,
		&rec.CheckInTime, &rec.CheckOutTime)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// CreateAttendance inserts an attendance record and fills in its id.
func (db *DB) CreateAttendance(ctx context.Context, rec *types.AttendanceRecord) error {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO attendance_records (job_id, worker_id, work_date, check_in_time, check_out_time)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		rec.JobID, rec.WorkerID, rec.Date, rec.CheckInTime, rec.CheckOutTime,
	).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("failed to create attendance record: %w", err)
	}
	return nil
}

// CloseAttendance stamps the record's check-out time.
func (db *DB) CloseAttendance(ctx context.Context, recordID uuid.UUID, checkOut time.Time) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE attendance_records SET check_out_time = $1 WHERE id = $2`,
		checkOut, recordID,
	)
	if err != nil {
		return fmt.Errorf("failed to close attendance record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("attendance record %s not found", recordID)
	}
	return nil
}

// ListJobWorkerAttendance returns one worker's records for one job, oldest
// first.
func (db *DB) ListJobWorkerAttendance(ctx context.Context, jobID, workerID uuid.UUID) ([]types.AttendanceRecord, error) {
	return db.listAttendance(ctx,
		`SELECT `+attendanceColumns+` FROM attendance_records
		 WHERE job_id = $1 AND worker_id = $2 ORDER BY work_date`,
		jobID, workerID)
}

// ListJobAttendance returns every record for one job, oldest first.
func (db *DB) ListJobAttendance(ctx context.Context, jobID uuid.UUID) ([]types.AttendanceRecord, error) {
	return db.listAttendance(ctx,
		`SELECT `+attendanceColumns+` FROM attendance_records
		 WHERE job_id = $1 ORDER BY work_date`,
		jobID)
}

func (db *DB) listAttendance(ctx context.Context, query string, args ...any) ([]types.AttendanceRecord, error) {
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	var records []types.AttendanceRecord
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}
