// Package model holds the résumé shapes exchanged with the AI service and the client.
package model

// Importance of a skill the job asks for.
const (
	ImportanceRequired  = "required"
	ImportancePreferred = "preferred"
)

// ResumeAnalysis is the general feedback on a résumé.
type ResumeAnalysis struct {
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
}

// MissingSkill is a job skill the résumé does not show.
type MissingSkill struct {
	Name       string `json:"name"`
	Importance string `json:"importance"`
}

// JobAnalysis compares a résumé against a job description.
type JobAnalysis struct {
	MissingSkills    []MissingSkill `json:"missingSkills"`
	MatchingSkills   []string       `json:"matchingSkills"`
	IrrelevantSkills []string       `json:"irrelevantSkills"`
}

// Experience is one position held.
type Experience struct {
	Company      string   `json:"company"`
	Position     string   `json:"position"`
	Duration     string   `json:"duration"`
	Achievements []string `json:"achievements"`
}

// Education is one degree or course of study.
type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Year        string `json:"year"`
}

// Contact details. Absent values are empty strings.
type Contact struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
}

// ResumeData is a rewritten résumé.
type ResumeData struct {
	FullName   string       `json:"fullName"`
	Title      string       `json:"title"`
	Summary    string       `json:"summary"`
	Experience []Experience `json:"experience"`
	Education  []Education  `json:"education"`
	Skills     []string     `json:"skills"`
	Contact    Contact      `json:"contact"`
}
