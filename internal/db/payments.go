package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kaamsetu/kaamsetu/internal/types"
)

// AppendPayment inserts a payment record and fills in the generated id and
// date.
func (db *DB) AppendPayment(ctx context.Context, rec *types.PaymentRecord) error {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO payment_records
		   (job_id, worker_id, amount, payment_method, payment_status, running_balance)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, payment_date`,
		rec.JobID, rec.WorkerID, rec.Amount, rec.Method, rec.Status, rec.RunningBalance,
	).Scan(&rec.ID, &rec.PaymentDate)
	if err != nil {
		return fmt.Errorf("failed to append payment: %w", err)
	}
	return nil
}

// LastRunningBalance returns the worker's latest running balance, zero when
// they have no payment history.
func (db *DB) LastRunningBalance(ctx context.Context, workerID uuid.UUID) (float64, error) {
	var balance float64
	err := db.pool.QueryRow(ctx,
		`SELECT running_balance FROM payment_records
		 WHERE worker_id = $1 ORDER BY payment_date DESC, id DESC LIMIT 1`,
		workerID,
	).Scan(&balance)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get running balance: %w", err)
	}
	return balance, nil
}

// ListWorkerPayments returns the worker's payment history, newest first.
func (db *DB) ListWorkerPayments(ctx context.Context, workerID uuid.UUID) ([]types.PaymentRecord, error) {
	return db.listPayments(ctx,
		`SELECT id, job_id, worker_id, amount, payment_date, payment_method, payment_status, running_balance
		 FROM payment_records WHERE worker_id = $1 ORDER BY payment_date DESC, id DESC`,
		workerID)
}

// ListJobPayments returns every payment for one job, newest first.
func (db *DB) ListJobPayments(ctx context.Context, jobID uuid.UUID) ([]types.PaymentRecord, error) {
	return db.listPayments(ctx,
		`SELECT id, job_id, worker_id, amount, payment_date, payment_method, payment_status, running_balance
		 FROM payment_records WHERE job_id = $1 ORDER BY payment_date DESC, id DESC`,
		jobID)
}

func (db *DB) listPayments(ctx context.Context, query string, args ...any) ([]types.PaymentRecord, error) {
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var records []types.PaymentRecord
	for rows.Next() {
		var rec types.PaymentRecord
		err := rows.Scan(&rec.ID, &rec.JobID, &rec.WorkerID, &rec.Amount,
			&rec.PaymentDate, &rec.Method, &rec.Status, &rec.RunningBalance)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// SetPaymentStatus moves a payment to completed or failed.
func (db *DB) SetPaymentStatus(ctx context.Context, paymentID uuid.UUID, status types.PaymentStatus) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE payment_records SET payment_status = $1 WHERE id = $2`,
		status, paymentID,
	)
	if err != nil {
		return fmt.Errorf("failed to set payment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("payment %s not found", paymentID)
	}
	return nil
}
