package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// JobState is the job-level position in the lifecycle. It is derived from
// the stored posting plus its attendance, never stored directly.
type JobState string

const (
	JobOpen            JobState = "open"
	JobPartiallyFilled JobState = "partially_filled"
	JobFilled          JobState = "filled"
	JobInProgress      JobState = "in_progress"
	JobCompleted       JobState = "completed"
	JobCancelled       JobState = "cancelled"
)

// JobPosting is an employer's short-term labor requirement.
type JobPosting struct {
	ID              uuid.UUID     `json:"id"`
	EmployerID      uuid.UUID     `json:"employer_id"`
	Description     string        `json:"description"`
	RequiredSkills  []SkillRecord `json:"required_skills"`
	WageAmount      float64       `json:"wage_amount"`
	DurationDays    float64       `json:"duration_days"`
	ShiftTiming     string        `json:"shift_timing"`
	WorkerCount     int           `json:"worker_count"`
	Coordinates     Coordinates   `json:"coordinates"`
	AssignedWorkers []uuid.UUID   `json:"assigned_workers"`
	IsCompleted     bool          `json:"is_completed"`
	IsCancelled     bool          `json:"is_cancelled"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// State derives the job-level lifecycle state. hasCheckIns reports whether
// any attendance record exists for the posting.
func (j *JobPosting) State(hasCheckIns bool) JobState {
	switch {
	case j.IsCancelled:
		return JobCancelled
	case j.IsCompleted:
		return JobCompleted
	case hasCheckIns:
		return JobInProgress
	case len(j.AssignedWorkers) == 0:
		return JobOpen
	case len(j.AssignedWorkers) < j.WorkerCount:
		return JobPartiallyFilled
	default:
		return JobFilled
	}
}

// Closed reports whether the posting accepts no further assignment or
// attendance activity.
func (j *JobPosting) Closed() bool {
	return j.IsCompleted || j.IsCancelled
}

// HasWorker reports whether the worker is already assigned.
func (j *JobPosting) HasWorker(workerID uuid.UUID) bool {
	for _, id := range j.AssignedWorkers {
		if id == workerID {
			return true
		}
	}
	return false
}

// Validate checks posting invariants.
func (j *JobPosting) Validate() error {
	if j.Description == "" {
		return fmt.Errorf("job description is required")
	}
	if j.WageAmount <= 0 {
		return fmt.Errorf("wage amount must be positive, got %v", j.WageAmount)
	}
	if j.DurationDays <= 0 {
		return fmt.Errorf("duration must be positive, got %v", j.DurationDays)
	}
	if j.WorkerCount < 1 {
		return fmt.Errorf("worker count must be at least 1, got %d", j.WorkerCount)
	}
	if len(j.AssignedWorkers) > j.WorkerCount {
		return fmt.Errorf("assigned workers %d exceed worker count %d", len(j.AssignedWorkers), j.WorkerCount)
	}
	for i, rec := range j.RequiredSkills {
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("required skill %d: %w", i, err)
		}
	}
	return nil
}

// JobTemplate is a saved, reusable posting shape owned by one employer.
// It carries no live posting id or timestamps.
type JobTemplate struct {
	ID             uuid.UUID     `json:"id"`
	EmployerID     uuid.UUID     `json:"employer_id"`
	Name           string        `json:"name"`
	Description    string        `json:"description"`
	RequiredSkills []SkillRecord `json:"required_skills"`
	WageAmount     float64       `json:"wage_amount"`
	DurationDays   float64       `json:"duration_days"`
	ShiftTiming    string        `json:"shift_timing"`
	WorkerCount    int           `json:"worker_count"`
	Coordinates    Coordinates   `json:"coordinates"`
	CreatedAt      time.Time     `json:"created_at"`
}

// NewPosting instantiates a fresh posting from the template.
func (t *JobTemplate) NewPosting() *JobPosting {
	skills := make([]SkillRecord, len(t.RequiredSkills))
	copy(skills, t.RequiredSkills)
	return &JobPosting{
		EmployerID:     t.EmployerID,
		Description:    t.Description,
		RequiredSkills: skills,
		WageAmount:     t.WageAmount,
		DurationDays:   t.DurationDays,
		ShiftTiming:    t.ShiftTiming,
		WorkerCount:    t.WorkerCount,
		Coordinates:    t.Coordinates,
	}
}

// EmployerProfile is the hiring side of the marketplace.
type EmployerProfile struct {
	AccountID     uuid.UUID   `json:"account_id"`
	CompanyName   string      `json:"company_name"`
	CompanyType   string      `json:"company_type"`
	ContactPerson string      `json:"contact_person"`
	MobileNumber  string      `json:"mobile_number"`
	Coordinates   Coordinates `json:"coordinates"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}
