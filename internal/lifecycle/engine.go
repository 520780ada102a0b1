package lifecycle

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/kaamsetu/kaamsetu/internal/types"
)

// Store is the persistence surface the engine drives. Absent rows are
// returned as (nil, nil), matching the db package convention.
type Store interface {
	GetJobPosting(ctx context.Context, id uuid.UUID) (*types.JobPosting, error)
	SetJobAssignments(ctx context.Context, jobID uuid.UUID, workers []uuid.UUID) error
	SetJobCompleted(ctx context.Context, jobID uuid.UUID) error
	SetJobCancelled(ctx context.Context, jobID uuid.UUID) error

	GetWorkerProfile(ctx context.Context, id uuid.UUID) (*types.WorkerProfile, error)
	UpdateWorkerScores(ctx context.Context, workerID uuid.UUID, rating float64, ratingCount int, reliability float64, completedJobs int) error

	ListJobWorkerAttendance(ctx context.Context, jobID, workerID uuid.UUID) ([]types.AttendanceRecord, error)
	CreateAttendance(ctx context.Context, rec *types.AttendanceRecord) error
	CloseAttendance(ctx context.Context, recordID uuid.UUID, checkOut time.Time) error

	SaveRating(ctx context.Context, jobID, workerID uuid.UUID, rating int, remarks string) error

	LastRunningBalance(ctx context.Context, workerID uuid.UUID) (float64, error)
	AppendPayment(ctx context.Context, rec *types.PaymentRecord) error
}

// Notifier receives lifecycle events. Implementations must be safe for
// concurrent use; a nil Notifier disables notifications.
type Notifier interface {
	JobAssigned(ctx context.Context, jobID, workerID uuid.UUID)
	JobCancelled(ctx context.Context, jobID uuid.UUID)
}

// Config carries the engine's tunable coefficients.
type Config struct {
	// ReliabilityStep is the delta applied to a worker's reliability score
	// when a new rating lands above (+) or below (-) their prior average.
	ReliabilityStep float64
}

// DefaultConfig returns the production coefficients.
func DefaultConfig() Config {
	return Config{ReliabilityStep: 0.1}
}

// Engine guards every job and attendance transition. Each call validates
// its preconditions under the relevant per-key lock and either applies the
// whole transition or leaves state untouched.
type Engine struct {
	store    Store
	notifier Notifier
	cfg      Config

	jobLocks    *keyedMutex
	workerLocks *keyedMutex

	now func() time.Time
}

// New creates an engine over the given store. notifier may be nil.
func New(store Store, notifier Notifier, cfg Config) *Engine {
	if cfg.ReliabilityStep <= 0 {
		cfg.ReliabilityStep = DefaultConfig().ReliabilityStep
	}
	return &Engine{
		store:       store,
		notifier:    notifier,
		cfg:         cfg,
		jobLocks:    newKeyedMutex(),
		workerLocks: newKeyedMutex(),
		now:         time.Now,
	}
}

// loadJob fetches a posting or returns the typed not-found error.
func (e *Engine) loadJob(ctx context.Context, jobID uuid.UUID) (*types.JobPosting, error) {
	job, err := e.store.GetJobPosting(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("load job %s: %w", jobID, err)
	}
	if job == nil {
		return nil, &ErrJobNotFound{JobID: jobID}
	}
	return job, nil
}

// AssignWorker adds the worker to the posting. The capacity check and the
// append run under the job's lock, so two concurrent requests for the last
// slot cannot both succeed.
func (e *Engine) AssignWorker(ctx context.Context, jobID, workerID uuid.UUID) error {
	unlock := e.jobLocks.lock(jobID)
	defer unlock()

	job, err := e.loadJob(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Closed() {
		return &ErrJobClosed{JobID: jobID, State: string(job.State(false))}
	}
	if job.HasWorker(workerID) {
		return &ErrAlreadyAssigned{JobID: jobID, WorkerID: workerID}
	}
	if len(job.AssignedWorkers) >= job.WorkerCount {
		return &ErrCapacityExceeded{JobID: jobID, WorkerCount: job.WorkerCount}
	}

	worker, err := e.store.GetWorkerProfile(ctx, workerID)
	if err != nil {
		return fmt.Errorf("load worker %s: %w", workerID, err)
	}
	if worker == nil {
		return &ErrWorkerNotFound{WorkerID: workerID}
	}

	assigned := append(append([]uuid.UUID{}, job.AssignedWorkers...), workerID)
	if err := e.store.SetJobAssignments(ctx, jobID, assigned); err != nil {
		return fmt.Errorf("assign worker %s to job %s: %w", workerID, jobID, err)
	}

	if e.notifier != nil {
		e.notifier.JobAssigned(ctx, jobID, workerID)
	}
	return nil
}

// CheckIn opens today's attendance record for the worker.
func (e *Engine) CheckIn(ctx context.Context, jobID, workerID uuid.UUID) error {
	unlock := e.jobLocks.lock(jobID)
	defer unlock()

	job, err := e.loadJob(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Closed() {
		return &ErrJobClosed{JobID: jobID, State: string(job.State(false))}
	}
	if !job.HasWorker(workerID) {
		return &ErrNotAssigned{JobID: jobID, WorkerID: workerID}
	}

	now := e.now()
	records, err := e.store.ListJobWorkerAttendance(ctx, jobID, workerID)
	if err != nil {
		return fmt.Errorf("list attendance for job %s worker %s: %w", jobID, workerID, err)
	}
	for i := range records {
		if records[i].Open() && records[i].SameDay(now) {
			return &ErrAlreadyCheckedIn{JobID: jobID, WorkerID: workerID}
		}
	}

	rec := &types.AttendanceRecord{
		ID:          uuid.New(),
		JobID:       jobID,
		WorkerID:    workerID,
		Date:        now,
		CheckInTime: &now,
	}
	if err := e.store.CreateAttendance(ctx, rec); err != nil {
		return fmt.Errorf("create attendance: %w", err)
	}
	return nil
}

// CheckOut closes the worker's most recent open attendance record for
// today. Without a matching check-in nothing is created or modified.
func (e *Engine) CheckOut(ctx context.Context, jobID, workerID uuid.UUID) error {
	unlock := e.jobLocks.lock(jobID)
	defer unlock()

	if _, err := e.loadJob(ctx, jobID); err != nil {
		return err
	}

	now := e.now()
	records, err := e.store.ListJobWorkerAttendance(ctx, jobID, workerID)
	if err != nil {
		return fmt.Errorf("list attendance for job %s worker %s: %w", jobID, workerID, err)
	}

	var open *types.AttendanceRecord
	for i := range records {
		rec := &records[i]
		if !rec.Open() || !rec.SameDay(now) {
			continue
		}
		if open == nil || rec.CheckInTime.After(*open.CheckInTime) {
			open = rec
		}
	}
	if open == nil {
		return &ErrNoOpenCheckIn{JobID: jobID, WorkerID: workerID}
	}

	if err := e.store.CloseAttendance(ctx, open.ID, now); err != nil {
		return fmt.Errorf("close attendance %s: %w", open.ID, err)
	}
	return nil
}

// RateWorker records a 1-5 rating for a worker on a job. Eligibility
// requires at least one completed (checked-out) attendance record for the
// pairing. The worker's rating becomes the arithmetic mean over all
// ratings received; reliability is nudged by ReliabilityStep toward the
// direction of the new rating relative to the prior average, clamped to
// [0,5]; completedJobs is incremented.
func (e *Engine) RateWorker(ctx context.Context, jobID, workerID uuid.UUID, rating int, remarks string) error {
	if rating < 1 || rating > 5 {
		return &ErrInvalidRating{Rating: rating}
	}

	unlock := e.workerLocks.lock(workerID)
	defer unlock()

	if _, err := e.loadJob(ctx, jobID); err != nil {
		return err
	}
	worker, err := e.store.GetWorkerProfile(ctx, workerID)
	if err != nil {
		return fmt.Errorf("load worker %s: %w", workerID, err)
	}
	if worker == nil {
		return &ErrWorkerNotFound{WorkerID: workerID}
	}

	records, err := e.store.ListJobWorkerAttendance(ctx, jobID, workerID)
	if err != nil {
		return fmt.Errorf("list attendance for job %s worker %s: %w", jobID, workerID, err)
	}
	eligible := false
	for i := range records {
		if records[i].Complete() {
			eligible = true
			break
		}
	}
	if !eligible {
		return &ErrNotEligible{JobID: jobID, WorkerID: workerID}
	}

	priorAverage := worker.Rating
	newCount := worker.RatingCount + 1
	newRating := (worker.Rating*float64(worker.RatingCount) + float64(rating)) / float64(newCount)

	reliability := worker.ReliabilityScore
	switch {
	case float64(rating) > priorAverage:
		reliability += e.cfg.ReliabilityStep
	case float64(rating) < priorAverage:
		reliability -= e.cfg.ReliabilityStep
	}
	reliability = clamp(reliability, 0, 5)

	if err := e.store.SaveRating(ctx, jobID, workerID, rating, remarks); err != nil {
		return fmt.Errorf("save rating: %w", err)
	}
	if err := e.store.UpdateWorkerScores(ctx, workerID, newRating, newCount, reliability, worker.CompletedJobs+1); err != nil {
		return fmt.Errorf("update worker scores: %w", err)
	}
	return nil
}

// RecordPayment appends a pending ledger entry for the worker. The running
// balance derives from the worker's previous entry under the worker's
// lock, keeping it monotone under concurrent recording.
func (e *Engine) RecordPayment(ctx context.Context, jobID, workerID uuid.UUID, amount float64, method types.PaymentMethod) (*types.PaymentRecord, error) {
	if amount <= 0 {
		return nil, &ErrInvalidAmount{Amount: amount}
	}
	if !method.Valid() {
		return nil, fmt.Errorf("unknown payment method: %q", method)
	}

	unlock := e.workerLocks.lock(workerID)
	defer unlock()

	if _, err := e.loadJob(ctx, jobID); err != nil {
		return nil, err
	}
	worker, err := e.store.GetWorkerProfile(ctx, workerID)
	if err != nil {
		return nil, fmt.Errorf("load worker %s: %w", workerID, err)
	}
	if worker == nil {
		return nil, &ErrWorkerNotFound{WorkerID: workerID}
	}

	balance, err := e.store.LastRunningBalance(ctx, workerID)
	if err != nil {
		return nil, fmt.Errorf("load running balance for worker %s: %w", workerID, err)
	}

	rec := &types.PaymentRecord{
		ID:             uuid.New(),
		JobID:          jobID,
		WorkerID:       workerID,
		Amount:         amount,
		PaymentDate:    e.now(),
		Method:         method,
		Status:         types.PaymentPending,
		RunningBalance: balance + amount,
	}
	if err := e.store.AppendPayment(ctx, rec); err != nil {
		return nil, fmt.Errorf("append payment: %w", err)
	}
	return rec, nil
}

// CancelJob moves the posting to the cancelled terminal state. Completed
// jobs cannot be cancelled. Cancelling an already-cancelled job is a
// no-op.
func (e *Engine) CancelJob(ctx context.Context, jobID uuid.UUID) error {
	unlock := e.jobLocks.lock(jobID)
	defer unlock()

	job, err := e.loadJob(ctx, jobID)
	if err != nil {
		return err
	}
	if job.IsCompleted {
		return &ErrJobClosed{JobID: jobID, State: string(types.JobCompleted)}
	}
	if job.IsCancelled {
		return nil
	}

	if err := e.store.SetJobCancelled(ctx, jobID); err != nil {
		return fmt.Errorf("cancel job %s: %w", jobID, err)
	}
	if e.notifier != nil {
		e.notifier.JobCancelled(ctx, jobID)
	}
	return nil
}

// CompleteJob marks the posting completed. Cancelled jobs cannot be
// completed; completing twice is a no-op.
func (e *Engine) CompleteJob(ctx context.Context, jobID uuid.UUID) error {
	unlock := e.jobLocks.lock(jobID)
	defer unlock()

	job, err := e.loadJob(ctx, jobID)
	if err != nil {
		return err
	}
	if job.IsCancelled {
		return &ErrJobClosed{JobID: jobID, State: string(types.JobCancelled)}
	}
	if job.IsCompleted {
		return nil
	}

	if err := e.store.SetJobCompleted(ctx, jobID); err != nil {
		return fmt.Errorf("complete job %s: %w", jobID, err)
	}
	return nil
}

// JobState reports the derived job-level state.
func (e *Engine) JobState(ctx context.Context, jobID uuid.UUID) (types.JobState, error) {
	job, err := e.loadJob(ctx, jobID)
	if err != nil {
		return "", err
	}

	hasCheckIns := false
	for _, workerID := range job.AssignedWorkers {
		records, err := e.store.ListJobWorkerAttendance(ctx, jobID, workerID)
		if err != nil {
			log.Printf("attendance lookup failed for job %s worker %s: %v", jobID, workerID, err)
			continue
		}
		if len(records) > 0 {
			hasCheckIns = true
			break
		}
	}
	return job.State(hasCheckIns), nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
