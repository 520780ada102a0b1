package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Coordinates is a geographic point in degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// IsZero reports whether the point is the (0,0) null island marker, which
// the marketplace treats as "location missing".
func (c Coordinates) IsZero() bool {
	return c.Latitude == 0 && c.Longitude == 0
}

// WageRange is a worker's acceptable daily wage band.
type WageRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Validate checks the band ordering.
func (w WageRange) Validate() error {
	if w.Min < 0 {
		return fmt.Errorf("wage range min must be non-negative, got %v", w.Min)
	}
	if w.Min > w.Max {
		return fmt.Errorf("wage range min %v exceeds max %v", w.Min, w.Max)
	}
	return nil
}

// TimeRange is a start/end pair within a day, "15:04" format.
type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DayAvailability describes one weekday of a worker's recurring pattern.
// TimeRange is nil when the worker is available all day or not at all.
type DayAvailability struct {
	Available bool       `json:"available"`
	TimeRange *TimeRange `json:"time_range,omitempty"`
}

// WeeklyAvailability holds one entry per weekday, Sunday first.
type WeeklyAvailability [7]DayAvailability

// WorkerProfile is the persistent record for a laborer. Profiles are never
// deleted, only amended; reliability, rating and the counters are running
// values maintained by the lifecycle engine.
type WorkerProfile struct {
	ID               uuid.UUID          `json:"id"`
	AccountID        uuid.UUID          `json:"account_id"`
	Name             string             `json:"name"`
	MobileNumber     string             `json:"mobile_number"`
	Skills           []SkillRecord      `json:"skills"`
	WageRange        WageRange          `json:"wage_range"`
	Coordinates      Coordinates        `json:"coordinates"`
	IsAvailable      bool               `json:"is_available"`
	Weekly           WeeklyAvailability `json:"weekly_availability"`
	ReliabilityScore float64            `json:"reliability_score"`
	Rating           float64            `json:"rating"`
	RatingCount      int                `json:"rating_count"`
	CompletedJobs    int                `json:"completed_jobs"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// Validate checks profile invariants: scores within [0,5], ordered wage
// band, recognized skills.
func (p *WorkerProfile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("worker name is required")
	}
	if p.ReliabilityScore < 0 || p.ReliabilityScore > 5 {
		return fmt.Errorf("reliability score %v out of range [0,5]", p.ReliabilityScore)
	}
	if p.Rating < 0 || p.Rating > 5 {
		return fmt.Errorf("rating %v out of range [0,5]", p.Rating)
	}
	if err := p.WageRange.Validate(); err != nil {
		return err
	}
	for i, rec := range p.Skills {
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("skill %d: %w", i, err)
		}
	}
	return nil
}

// SkillFor returns the worker's record for the given skill, if any.
func (p *WorkerProfile) SkillFor(skill Skill) (SkillRecord, bool) {
	for _, rec := range p.Skills {
		if rec.Skill == skill {
			return rec, true
		}
	}
	return SkillRecord{}, false
}
