// Package ingest implements bulk job submission with partial-failure
// semantics: every row is validated independently and one bad row never
// discards the rest of the batch.
package ingest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/kaamsetu/kaamsetu/internal/types"
)

// JobRow is one raw tabular job submission.
type JobRow struct {
	Description  string  `json:"description"`
	Skills       string  `json:"skills"`
	WageAmount   float64 `json:"wage_amount"`
	DurationDays float64 `json:"duration_days"`
	ShiftTiming  string  `json:"shift_timing"`
	WorkerCount  int     `json:"worker_count"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
}

// Result is the batch outcome. InvalidEntries holds one diagnostic string
// per rejected row, in input order.
type Result struct {
	ValidJobs               []types.JobPosting `json:"valid_jobs"`
	SuccessfullyCreatedJobs []uuid.UUID        `json:"successfully_created_jobs"`
	InvalidEntries          []string           `json:"invalid_entries"`
}

// validateRow returns the row's failure reasons; an empty slice means the
// row is acceptable.
func validateRow(row JobRow) []string {
	var reasons []string
	if strings.TrimSpace(row.Description) == "" {
		reasons = append(reasons, "missing description")
	}
	if strings.TrimSpace(row.Skills) == "" {
		reasons = append(reasons, "missing skills")
	}
	if row.WageAmount <= 0 {
		reasons = append(reasons, "invalid wage amount")
	}
	if row.DurationDays <= 0 {
		reasons = append(reasons, "invalid duration")
	}
	if row.WorkerCount <= 0 {
		reasons = append(reasons, "invalid worker count")
	}
	// (0,0) is open ocean, not a populated service area: treat as missing.
	if row.Latitude == 0 || row.Longitude == 0 {
		reasons = append(reasons, "invalid coordinates")
	}
	return reasons
}

// ParseSkills converts a free-form skills column into skill requirements.
// Tokens are separated by ',', ';' or '|' and may carry minimum years as
// "skill:years". Unrecognized skill names map to general labor rather than
// failing the row; duplicate skills keep the first occurrence.
func ParseSkills(skillsStr string) []types.SkillRecord {
	tokens := strings.FieldsFunc(skillsStr, func(r rune) bool {
		return r == ',' || r == ';' || r == '|'
	})

	seen := make(map[types.Skill]bool)
	records := make([]types.SkillRecord, 0, len(tokens))
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		years := 0.0
		if name, yearsStr, found := strings.Cut(token, ":"); found {
			token = name
			if parsed, err := strconv.ParseFloat(strings.TrimSpace(yearsStr), 64); err == nil && parsed > 0 {
				years = parsed
			}
		}

		skill := types.ParseSkill(token)
		if seen[skill] {
			continue
		}
		seen[skill] = true
		records = append(records, types.SkillRecord{
			Skill:             skill,
			YearsOfExperience: years,
		})
	}
	return records
}

// toPosting converts an already-validated row into a posting for the
// employer.
func toPosting(employerID uuid.UUID, row JobRow) types.JobPosting {
	return types.JobPosting{
		EmployerID:     employerID,
		Description:    strings.TrimSpace(row.Description),
		RequiredSkills: ParseSkills(row.Skills),
		WageAmount:     row.WageAmount,
		DurationDays:   row.DurationDays,
		ShiftTiming:    strings.TrimSpace(row.ShiftTiming),
		WorkerCount:    row.WorkerCount,
		Coordinates: types.Coordinates{
			Latitude:  row.Latitude,
			Longitude: row.Longitude,
		},
	}
}

// rowLabel identifies a row in diagnostics, preferring its description.
func rowLabel(index int, row JobRow) string {
	desc := strings.TrimSpace(row.Description)
	if desc == "" {
		return fmt.Sprintf("row %d", index+1)
	}
	if len(desc) > 60 {
		desc = desc[:57] + "..."
	}
	return fmt.Sprintf("row %d (%s)", index+1, desc)
}
