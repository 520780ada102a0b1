// Package matching provides the skill compatibility scorer and the
// candidate ranking engine for job postings.
package matching

import (
	"github.com/kaamsetu/kaamsetu/internal/types"
)

// SkillMatch is the scorer's verdict for a single required skill.
type SkillMatch struct {
	Skill        types.Skill `json:"skill"`
	Met          bool        `json:"met"`
	Contribution float64     `json:"contribution"` // 0.0 to 1.0
}

// computeSkillContribution scores one required skill against the worker's
// record for it. A present skill contributes 1.0 scaled by how the worker's
// years compare to the requirement, capped at 1.0. Certification never
// changes the contribution; it only feeds the expert-tier eligibility flag
// (avoids double-penalizing uncertified workers).
func computeSkillContribution(required types.SkillRecord, worker *types.WorkerProfile) (float64, bool) {
	rec, ok := worker.SkillFor(required.Skill)
	if !ok {
		return 0.0, false
	}

	requiredYears := required.YearsOfExperience
	if requiredYears < 1 {
		requiredYears = 1
	}

	contribution := rec.YearsOfExperience / requiredYears
	if contribution > 1.0 {
		contribution = 1.0
	}
	return contribution, true
}

// SkillsMatchPercentage compares a job's required skill set against a
// worker's skills and returns the percentage match (0-100) plus the
// per-skill breakdown.
//
// Edge cases: a job with no required skills has no skill gate and scores
// 100 for every worker; a worker with no skills scores 0 against any
// non-empty requirement.
func SkillsMatchPercentage(required []types.SkillRecord, worker *types.WorkerProfile) (float64, []SkillMatch) {
	if len(required) == 0 {
		return 100.0, nil
	}

	breakdown := make([]SkillMatch, 0, len(required))
	total := 0.0
	for _, req := range required {
		contribution, met := computeSkillContribution(req, worker)
		total += contribution
		breakdown = append(breakdown, SkillMatch{
			Skill:        req.Skill,
			Met:          met,
			Contribution: contribution,
		})
	}

	denominator := float64(len(required))
	if denominator < 1 {
		denominator = 1
	}

	pct := 100.0 * total / denominator
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return pct, breakdown
}

// certifiedForExpert reports whether the worker holds a certification for
// every required skill that demands expert experience. Jobs with no
// expert-level requirements leave every worker eligible.
func certifiedForExpert(required []types.SkillRecord, worker *types.WorkerProfile) bool {
	for _, req := range required {
		if req.ExperienceLevel != types.LevelExpert {
			continue
		}
		rec, ok := worker.SkillFor(req.Skill)
		if !ok || !rec.Certified() {
			return false
		}
	}
	return true
}
