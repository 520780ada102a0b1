// Package types provides type definitions for structured data used throughout the kaamsetu engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Skill is a closed set of trades the marketplace recognizes.
// Keeping this a fixed enum (rather than open strings) keeps the
// compatibility scorer exhaustive and statically checkable.
type Skill string

const (
	SkillMasonry      Skill = "masonry"
	SkillCarpentry    Skill = "carpentry"
	SkillPlumbing     Skill = "plumbing"
	SkillElectrician  Skill = "electrician"
	SkillPainting     Skill = "painting"
	SkillWelding      Skill = "welding"
	SkillTiling       Skill = "tiling"
	SkillRoofing      Skill = "roofing"
	SkillFlooring     Skill = "flooring"
	SkillGeneralLabor Skill = "generalLabor"
)

// AllSkills lists every recognized skill in a stable order.
func AllSkills() []Skill {
	return []Skill{
		SkillMasonry, SkillCarpentry, SkillPlumbing, SkillElectrician,
		SkillPainting, SkillWelding, SkillTiling, SkillRoofing,
		SkillFlooring, SkillGeneralLabor,
	}
}

// skillLabels is a total mapping from skill to display label.
var skillLabels = map[Skill]string{
	SkillMasonry:      "Masonry",
	SkillCarpentry:    "Carpentry",
	SkillPlumbing:     "Plumbing",
	SkillElectrician:  "Electrician",
	SkillPainting:     "Painting",
	SkillWelding:      "Welding",
	SkillTiling:       "Tiling",
	SkillRoofing:      "Roofing",
	SkillFlooring:     "Flooring",
	SkillGeneralLabor: "General Labor",
}

// Label returns the human-readable label for the skill.
func (s Skill) Label() string {
	if label, ok := skillLabels[s]; ok {
		return label
	}
	return string(s)
}

// Valid reports whether the skill is one of the recognized values.
func (s Skill) Valid() bool {
	_, ok := skillLabels[s]
	return ok
}

// ParseSkill maps a free-form token to a recognized skill. Unrecognized
// tokens fall back to general labor; bulk upload rows must not fail on a
// typo in one skill column (deliberate leniency policy).
func ParseSkill(token string) Skill {
	normalized := strings.ToLower(strings.TrimSpace(token))
	switch normalized {
	case "masonry", "mason":
		return SkillMasonry
	case "carpentry", "carpenter":
		return SkillCarpentry
	case "plumbing", "plumber":
		return SkillPlumbing
	case "electrician", "electrical":
		return SkillElectrician
	case "painting", "painter":
		return SkillPainting
	case "welding", "welder":
		return SkillWelding
	case "tiling", "tiler":
		return SkillTiling
	case "roofing", "roofer":
		return SkillRoofing
	case "flooring":
		return SkillFlooring
	default:
		return SkillGeneralLabor
	}
}

// ExperienceLevel represents a worker's tier for a skill.
type ExperienceLevel string

const (
	LevelNovice       ExperienceLevel = "novice"
	LevelIntermediate ExperienceLevel = "intermediate"
	LevelExpert       ExperienceLevel = "expert"
)

// Valid reports whether the level is one of the recognized values.
func (e ExperienceLevel) Valid() bool {
	switch e {
	case LevelNovice, LevelIntermediate, LevelExpert:
		return true
	}
	return false
}

// SkillRecord pairs a skill with the experience behind it. On a job posting
// YearsOfExperience is the minimum required and Certifications is unused.
type SkillRecord struct {
	Skill             Skill           `json:"skill"`
	ExperienceLevel   ExperienceLevel `json:"experience_level"`
	YearsOfExperience float64         `json:"years_of_experience"`
	Certifications    []string        `json:"certifications,omitempty"`
}

// Certified reports whether the record carries at least one certification.
func (r SkillRecord) Certified() bool {
	return len(r.Certifications) > 0
}

// Validate checks the record's fields.
func (r SkillRecord) Validate() error {
	if !r.Skill.Valid() {
		return fmt.Errorf("unknown skill: %q", r.Skill)
	}
	if r.ExperienceLevel != "" && !r.ExperienceLevel.Valid() {
		return fmt.Errorf("unknown experience level: %q", r.ExperienceLevel)
	}
	if r.YearsOfExperience < 0 {
		return fmt.Errorf("years of experience must be non-negative, got %v", r.YearsOfExperience)
	}
	return nil
}

// UnmarshalJSON accepts both the enum value ("generalLabor") and loose
// labels ("General Labor"), mapping unknown tokens to general labor.
func (s *Skill) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if candidate := Skill(raw); candidate.Valid() {
		*s = candidate
		return nil
	}
	*s = ParseSkill(raw)
	return nil
}
