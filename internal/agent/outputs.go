package agent

import "strings"

// Structured agent outputs. Each type mirrors the seeded output schema
// the gateway validates model payloads against.

// ExtractedSkill is one skill the model found in a document.
type ExtractedSkill struct {
	Name      string `json:"name"`
	Rating    int    `json:"rating"`
	Reasoning string `json:"reasoning"`
}

// SkillVector is the output of the resume skill-extraction agent.
type SkillVector struct {
	Skills []ExtractedSkill `json:"skills"`
}

// CertVerification is the output of the certificate verification agent.
type CertVerification struct {
	Valid       bool             `json:"valid"`
	Institution string           `json:"institution,omitempty"`
	Skills      []ExtractedSkill `json:"skills"`
}

// Feedback is shared by the attendance and opportunity feedback agents.
type Feedback struct {
	Summary     string   `json:"summary"`
	Suggestions []string `json:"suggestions"`
}

// ProjectSuggestion is one item of the allocation-suggestion output.
type ProjectSuggestion struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	RequiredSkills []string `json:"required_skills,omitempty"`
	FitReason      string   `json:"fit_reason,omitempty"`
}

type ProjectSuggestions struct {
	Suggestions []ProjectSuggestion `json:"suggestions"`
}

// Evolution is the output of the resume-evolution comparison agent.
type Evolution struct {
	Summary     string   `json:"summary"`
	Improved    []string `json:"improved"`
	New         []string `json:"new"`
	Dropped     []string `json:"dropped"`
	TrendRating int      `json:"trend_rating"`
}

// stripFences removes a wrapping markdown code fence from model output.
func stripFences(s string) string {
	clean := strings.TrimSpace(s)
	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimLeft(clean, "\r\n")
	clean = strings.TrimSuffix(clean, "```")

	return strings.TrimSpace(clean)
}

// extractJSON returns the substring from the first '{' to the last '}' in the input.
// This is a pragmatic approach to handle model outputs that wrap JSON in text or markdown.
func extractJSON(s string) string {
	s = stripFences(s)
	first := strings.Index(s, "{")
	last := strings.LastIndex(s, "}")
	if first == -1 || last == -1 || last < first {
		return ""
	}
	return s[first : last+1]
}
