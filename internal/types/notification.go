package types

import (
	"time"

	"github.com/google/uuid"
)

// JobNotification tracks which lifecycle notifications have fired for one
// (job, worker) pairing. The four flags are independent; records persist
// for the life of the job with no expiry.
type JobNotification struct {
	JobID            uuid.UUID `json:"job_id"`
	WorkerID         uuid.UUID `json:"worker_id"`
	ReminderSent     bool      `json:"reminder_sent"`
	UpdateSent       bool      `json:"update_sent"`
	ConfirmationSent bool      `json:"confirmation_sent"`
	Cancelled        bool      `json:"cancelled"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Unread reports whether the record counts toward the worker's unread
// badge: not yet confirmed and not for a cancelled job.
func (n *JobNotification) Unread() bool {
	return !n.ConfirmationSent && !n.Cancelled
}

// Kind summarizes the record for display, mirroring how the worker-facing
// UI buckets notifications.
func (n *JobNotification) Kind() string {
	switch {
	case n.Cancelled:
		return "job_cancelled"
	case n.ConfirmationSent:
		return "job_confirmed"
	case n.ReminderSent:
		return "job_reminder"
	default:
		return "job_assignment"
	}
}
