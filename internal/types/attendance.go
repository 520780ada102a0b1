package types

import (
	"time"

	"github.com/google/uuid"
)

// AttendanceState is the per-worker sub-state within a job.
type AttendanceState string

const (
	AttendanceAssigned   AttendanceState = "assigned"
	AttendanceCheckedIn  AttendanceState = "checked_in"
	AttendanceCheckedOut AttendanceState = "checked_out"
	AttendanceRated      AttendanceState = "rated"
)

// AttendanceRecord is one (worker, job, date) attendance row. Check-in
// creates it; check-out closes it. Both timestamps are pointers: absence
// means "not yet", never a zero-value sentinel.
type AttendanceRecord struct {
	ID           uuid.UUID  `json:"id"`
	JobID        uuid.UUID  `json:"job_id"`
	WorkerID     uuid.UUID  `json:"worker_id"`
	Date         time.Time  `json:"date"`
	CheckInTime  *time.Time `json:"check_in_time,omitempty"`
	CheckOutTime *time.Time `json:"check_out_time,omitempty"`
}

// Open reports whether the record has a check-in without a matching
// check-out.
func (r *AttendanceRecord) Open() bool {
	return r.CheckInTime != nil && r.CheckOutTime == nil
}

// Complete reports whether both timestamps are set. Complete records are
// immutable; multi-day jobs append new records instead.
func (r *AttendanceRecord) Complete() bool {
	return r.CheckInTime != nil && r.CheckOutTime != nil
}

// SameDay reports whether the record belongs to the given calendar day.
func (r *AttendanceRecord) SameDay(t time.Time) bool {
	y1, m1, d1 := r.Date.Date()
	y2, m2, d2 := t.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
