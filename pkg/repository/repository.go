package repository

import (
	"context"

	"github.com/garnizeh/benchwise/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.

type ConsultantRepo interface {
	CreateConsultant(ctx context.Context, c *models.Consultant) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Consultant, error)
	GetByEmail(ctx context.Context, email string) (*models.Consultant, error)
	ListConsultants(ctx context.Context, limit, offset int) ([]models.Consultant, error)
	CountConsultants(ctx context.Context) (int64, error)
	UpdateConsultant(ctx context.Context, c *models.Consultant) error
	DeleteConsultant(ctx context.Context, id int64) error
}

type SkillRepo interface {
	ReplaceSkills(ctx context.Context, consultantID int64, skills []models.Skill) error
	ListSkillsByConsultant(ctx context.Context, consultantID int64) ([]models.Skill, error)
}

type AttendanceRepo interface {
	// UpsertAttendance inserts or overwrites the record keyed by
	// (consultant, day) and returns the row id.
	UpsertAttendance(ctx context.Context, rec *models.AttendanceRecord) (int64, error)
	ListAttendanceByConsultant(ctx context.Context, consultantID int64) ([]models.AttendanceRecord, error)
	CountAttendanceByConsultant(ctx context.Context, consultantID int64) (int64, error)
}

type OpportunityRepo interface {
	ListOpportunities(ctx context.Context) ([]models.JobOpportunity, error)
	GetOpportunity(ctx context.Context, id int64) (*models.JobOpportunity, error)
	CreateOpportunityAction(ctx context.Context, a *models.OpportunityActionRecord) (int64, error)
	ListActionsByConsultant(ctx context.Context, consultantID int64) ([]models.OpportunityActionRecord, error)
}

type SnapshotRepo interface {
	CreateSnapshot(ctx context.Context, s *models.SkillSnapshot) (int64, error)
	LatestSnapshot(ctx context.Context, consultantID int64) (*models.SkillSnapshot, error)
}

type ChatRepo interface {
	CreateChatMessage(ctx context.Context, m *models.ChatMessage) (int64, error)
	ListChatMessages(ctx context.Context, sessionID string, limit int) ([]models.ChatMessage, error)
}

type SchemaRepo interface {
	CreateSchema(ctx context.Context, version, description, schemaJSON string) (int64, error)
	GetSchemaByVersion(ctx context.Context, version string) (*models.AgentSchema, error)
	ListSchemas(ctx context.Context) ([]models.AgentSchema, error)
	DeleteSchema(ctx context.Context, version string) error
}

type TemplateRepo interface {
	CreateTemplate(ctx context.Context, name, version, templateText string, schemaVer *string, metadata *string) (int64, error)
	GetTemplate(ctx context.Context, name, version string) (*models.AgentTemplate, error)
	ListTemplates(ctx context.Context) ([]models.AgentTemplate, error)
	DeleteTemplate(ctx context.Context, name, version string) error
}

// Repository bundles every repo contract for consumers that need the
// whole set (the orchestration service, mainly).
type Repository struct {
	Consultant  ConsultantRepo
	Skill       SkillRepo
	Attendance  AttendanceRepo
	Opportunity OpportunityRepo
	Snapshot    SnapshotRepo
	Chat        ChatRepo
	Schema      SchemaRepo
	Template    TemplateRepo
}
