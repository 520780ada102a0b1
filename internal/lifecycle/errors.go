// Package lifecycle implements the job and attendance state machine for
// the marketplace: assignment, check-in/out, rating and payment recording.
package lifecycle

import (
	"fmt"

	"github.com/google/uuid"
)

// ErrJobNotFound indicates the job posting does not exist.
type ErrJobNotFound struct {
	JobID uuid.UUID
}

func (e *ErrJobNotFound) Error() string {
	return fmt.Sprintf("job not found: %s", e.JobID)
}

// ErrWorkerNotFound indicates the worker profile does not exist.
type ErrWorkerNotFound struct {
	WorkerID uuid.UUID
}

func (e *ErrWorkerNotFound) Error() string {
	return fmt.Sprintf("worker not found: %s", e.WorkerID)
}

// ErrCapacityExceeded indicates the posting already has its requested
// number of workers.
type ErrCapacityExceeded struct {
	JobID       uuid.UUID
	WorkerCount int
}

func (e *ErrCapacityExceeded) Error() string {
	return fmt.Sprintf("job %s already has all %d workers assigned", e.JobID, e.WorkerCount)
}

// ErrAlreadyAssigned indicates the worker is already on the posting.
type ErrAlreadyAssigned struct {
	JobID    uuid.UUID
	WorkerID uuid.UUID
}

func (e *ErrAlreadyAssigned) Error() string {
	return fmt.Sprintf("worker %s is already assigned to job %s", e.WorkerID, e.JobID)
}

// ErrJobClosed indicates the posting is completed or cancelled and accepts
// no further transitions.
type ErrJobClosed struct {
	JobID uuid.UUID
	State string
}

func (e *ErrJobClosed) Error() string {
	return fmt.Sprintf("job %s is %s", e.JobID, e.State)
}

// ErrNotAssigned indicates an attendance action for a worker who is not on
// the posting.
type ErrNotAssigned struct {
	JobID    uuid.UUID
	WorkerID uuid.UUID
}

func (e *ErrNotAssigned) Error() string {
	return fmt.Sprintf("worker %s is not assigned to job %s", e.WorkerID, e.JobID)
}

// ErrAlreadyCheckedIn indicates an open attendance record already exists
// for the worker today.
type ErrAlreadyCheckedIn struct {
	JobID    uuid.UUID
	WorkerID uuid.UUID
}

func (e *ErrAlreadyCheckedIn) Error() string {
	return fmt.Sprintf("worker %s already has an open check-in on job %s", e.WorkerID, e.JobID)
}

// ErrNoOpenCheckIn indicates a check-out with no unmatched check-in today.
type ErrNoOpenCheckIn struct {
	JobID    uuid.UUID
	WorkerID uuid.UUID
}

func (e *ErrNoOpenCheckIn) Error() string {
	return fmt.Sprintf("worker %s has no open check-in on job %s", e.WorkerID, e.JobID)
}

// ErrNotEligible indicates a rating attempt before any completed
// attendance exists for the pairing.
type ErrNotEligible struct {
	JobID    uuid.UUID
	WorkerID uuid.UUID
}

func (e *ErrNotEligible) Error() string {
	return fmt.Sprintf("worker %s has no completed attendance on job %s to rate", e.WorkerID, e.JobID)
}

// ErrInvalidRating indicates a rating outside [1,5].
type ErrInvalidRating struct {
	Rating int
}

func (e *ErrInvalidRating) Error() string {
	return fmt.Sprintf("rating must be between 1 and 5, got %d", e.Rating)
}

// ErrInvalidAmount indicates a non-positive payment amount.
type ErrInvalidAmount struct {
	Amount float64
}

func (e *ErrInvalidAmount) Error() string {
	return fmt.Sprintf("payment amount must be positive, got %v", e.Amount)
}
