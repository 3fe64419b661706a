package models

// Domain models matching the database schema in db/migrations/0001_init.sql

type Department string

const (
	DeptTechnology Department = "Technology"
	DeptHealthcare Department = "Healthcare"
	DeptFinance    Department = "Finance"
	DeptRetail     Department = "Retail"
)

func (d Department) Valid() bool {
	switch d {
	case DeptTechnology, DeptHealthcare, DeptFinance, DeptRetail:
		return true
	}
	return false
}

type ConsultantStatus string

const (
	StatusOnBench   ConsultantStatus = "On Bench"
	StatusOnProject ConsultantStatus = "On Project"
)

type ResumeStatus string

const (
	ResumePending ResumeStatus = "Pending"
	ResumeUpdated ResumeStatus = "Updated"
)

type TrainingStatus string

const (
	TrainingNotStarted TrainingStatus = "Not Started"
	TrainingInProgress TrainingStatus = "In Progress"
	TrainingCompleted  TrainingStatus = "Completed"
)

type Role string

const (
	RoleConsultant Role = "consultant"
	RoleAdmin      Role = "admin"
)

// WorkflowFlags is the four-item checklist shown on a consultant's
// dashboard. The flags are always derived from underlying state and
// persisted as a convenience copy; they are never set directly.
type WorkflowFlags struct {
	ResumeUpdated           bool `json:"resume_updated" db:"wf_resume_updated"`
	AttendanceReported      bool `json:"attendance_reported" db:"wf_attendance_reported"`
	OpportunitiesDocumented bool `json:"opportunities_documented" db:"wf_opportunities_documented"`
	TrainingCompleted       bool `json:"training_completed" db:"wf_training_completed"`
}

type Consultant struct {
	ID            int64            `json:"id" db:"id"`
	Name          string           `json:"name" db:"name" validate:"required"`
	Email         string           `json:"email" db:"email" validate:"required,email"`
	PasswordHash  string           `json:"-" db:"password_hash"`
	Role          Role             `json:"role" db:"role"`
	Department    Department       `json:"department" db:"department"`
	Status        ConsultantStatus `json:"status" db:"status"`
	ResumeStatus  ResumeStatus     `json:"resume_status" db:"resume_status"`
	Opportunities int64            `json:"opportunities" db:"opportunities"`
	Training      TrainingStatus   `json:"training" db:"training"`
	SelectedOpps  []int64          `json:"selected_opportunities" db:"selected_opps"`
	Workflow      WorkflowFlags    `json:"workflow"`
	Updated       int64            `json:"updated" db:"updated"`
}

type SkillSource string

const (
	SourceResume      SkillSource = "resume"
	SourceCertificate SkillSource = "certificate"
	SourceManual      SkillSource = "manual"
)

// Skill is a rated skill owned by a consultant. Unrated skill names
// (e.g. the requirement list of a JobOpportunity) are plain strings;
// the two are distinct types on purpose, resolved at the data-access
// boundary and never re-inspected downstream.
type Skill struct {
	ID           int64       `json:"id" db:"id"`
	ConsultantID int64       `json:"consultant_id" db:"consultant_id"`
	Name         string      `json:"name" db:"name"`
	Rating       int         `json:"rating" db:"rating"`
	Reasoning    string      `json:"reasoning,omitempty" db:"reasoning"`
	Source       SkillSource `json:"source" db:"source"`
	Updated      int64       `json:"updated" db:"updated"`
}

type AttendanceStatus string

const (
	Present AttendanceStatus = "Present"
	Absent  AttendanceStatus = "Absent"
)

// AttendanceRecord holds one calendar day per consultant. The day is
// stored as YYYY-MM-DD; at most one row exists per (consultant, day).
type AttendanceRecord struct {
	ID           int64            `json:"id" db:"id"`
	ConsultantID int64            `json:"consultant_id" db:"consultant_id"`
	Day          string           `json:"day" db:"day"`
	Status       AttendanceStatus `json:"status" db:"status"`
	Updated      int64            `json:"updated" db:"updated"`
}

// JobOpportunity is a row of the static reference catalog seeded at
// migration time.
type JobOpportunity struct {
	ID               int64    `json:"id" db:"id"`
	Title            string   `json:"title" db:"title"`
	RequiredSkills   []string `json:"required_skills" db:"required_skills"`
	MinYears         int      `json:"min_years" db:"min_years"`
	Responsibilities string   `json:"responsibilities" db:"responsibilities"`
}

type OpportunityAction string

const (
	ActionAccepted   OpportunityAction = "accepted"
	ActionRejected   OpportunityAction = "rejected"
	ActionNoResponse OpportunityAction = "no_response"
)

// OpportunityActionRecord is a persisted accept/reject/no-response
// decision on a catalog opportunity.
type OpportunityActionRecord struct {
	ID            int64             `json:"id" db:"id"`
	ConsultantID  int64             `json:"consultant_id" db:"consultant_id"`
	OpportunityID int64             `json:"opportunity_id" db:"opportunity_id"`
	Action        OpportunityAction `json:"action" db:"action"`
	Created       int64             `json:"created" db:"created"`
}

// SkillSnapshot is a point-in-time copy of a consultant's skill list,
// recorded after each resume analysis. The latest snapshot is the
// baseline for evolution tracking.
type SkillSnapshot struct {
	ID           int64  `json:"id" db:"id"`
	ConsultantID int64  `json:"consultant_id" db:"consultant_id"`
	SkillsJSON   string `json:"skills_json" db:"skills_json"`
	AverageScore int    `json:"average_score" db:"average_score"`
	Created      int64  `json:"created" db:"created"`
}

type ChatRole string

const (
	ChatUser      ChatRole = "user"
	ChatAssistant ChatRole = "assistant"
)

type ChatMessage struct {
	ID           int64    `json:"id" db:"id"`
	SessionID    string   `json:"session_id" db:"session_id"`
	ConsultantID *int64   `json:"consultant_id,omitempty" db:"consultant_id"`
	Role         ChatRole `json:"role" db:"role"`
	Content      string   `json:"content" db:"content"`
	Created      int64    `json:"created" db:"created"`
}

type AgentSchema struct {
	ID          int64  `json:"id" db:"id"`
	Version     string `json:"version" db:"version"`
	Description string `json:"description,omitempty" db:"description"`
	SchemaJSON  string `json:"schema_json" db:"schema_json"`
	Created     int64  `json:"created" db:"created"`
	Updated     int64  `json:"updated" db:"updated"`
}

type AgentTemplate struct {
	ID          int64   `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Version     string  `json:"version" db:"version"`
	TemplateTxt string  `json:"template_text" db:"template_text"`
	SchemaVer   *string `json:"schema_version,omitempty" db:"schema_version"`
	Metadata    *string `json:"metadata,omitempty" db:"metadata"`
	Created     int64   `json:"created" db:"created"`
	Updated     int64   `json:"updated" db:"updated"`
}
