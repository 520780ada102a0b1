package types

import "github.com/google/uuid"

// CandidateMatch is a derived view of one worker's fit for one job. It is
// recomputed on demand and never persisted.
type CandidateMatch struct {
	WorkerID              uuid.UUID `json:"worker_id"`
	WorkerName            string    `json:"worker_name,omitempty"`
	DistanceKm            float64   `json:"distance_km"`
	SkillsMatchPercentage float64   `json:"skills_match_percentage"`
	ReliabilityScore      float64   `json:"reliability_score"`
	MatchScore            float64   `json:"match_score"`
	// CertifiedForExpert gates expert-tier jobs: certification is a binary
	// eligibility flag, never a score multiplier.
	CertifiedForExpert bool    `json:"certified_for_expert"`
	MatchedSkills      []Skill `json:"matched_skills,omitempty"`
}

// SystemMetrics is the marketplace-wide health snapshot.
type SystemMetrics struct {
	TotalJobsPosted        int     `json:"total_jobs_posted"`
	TotalWorkersRegistered int     `json:"total_workers_registered"`
	ActiveEmployersCount   int     `json:"active_employers_count"`
	JobFillRate            float64 `json:"job_fill_rate"`
	AverageTimeToFillHours float64 `json:"average_time_to_fill_hours"`
	WorkerRetentionRate    float64 `json:"worker_retention_rate"`
	EmployerRetentionRate  float64 `json:"employer_retention_rate"`
}
