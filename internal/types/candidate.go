// Package types provides type definitions for structured data used throughout the smartHR system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Candidate is one record from the candidate corpus, normalized at load time.
// Candidates are immutable for the duration of a ranking run; scoring
// structures reference them by ID rather than copying or embedding them.
type Candidate struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Position        string       `json:"position"`
	LongDescription string       `json:"long_description"`
	SkillHints      []string     `json:"skill_hints"`
	LookingFor      string       `json:"looking_for"`
	ExperienceYears float64      `json:"experience_years"`
	EnglishLevel    EnglishLevel `json:"english_level"`
}

// RequirementProfile is the structured form of a job description, derived once
// per ranking run and read-only afterward.
type RequirementProfile struct {
	RoleTitle          string       `json:"role_title"`
	RoleKeywords       []string     `json:"role_keywords"`
	RequiredSkills     []string     `json:"required_skills"`
	MinExperienceYears float64      `json:"min_experience_years"`
	EnglishLevel       EnglishLevel `json:"english_level,omitempty"` // empty means no constraint
	Traits             []string     `json:"traits,omitempty"`
	Preferred          []string     `json:"preferred,omitempty"`
}

// EmptyRequirementProfile returns the degraded profile used when requirement
// parsing fails: no skills, no experience floor, no English constraint.
// Stage-1 scoring still runs against it.
func EmptyRequirementProfile() *RequirementProfile {
	return &RequirementProfile{
		RoleKeywords:   []string{},
		RequiredSkills: []string{},
	}
}
