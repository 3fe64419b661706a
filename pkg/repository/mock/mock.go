package mock

import (
	"context"
	"sort"
	"sync"

	"github.com/garnizeh/benchwise/pkg/models"
	"github.com/garnizeh/benchwise/pkg/repository"
)

// Test helpers and mocks
type Mocks struct {
	Consultants   *ConsultantRepo
	Skills        *SkillRepo
	Attendance    *AttendanceRepo
	Opportunities *OpportunityRepo
	Snapshots     *SnapshotRepo
	Chat          *ChatRepo
	Schemas       *SchemaRepo
	Templates     *TemplateRepo
}

func NewMocks() *Mocks {
	return &Mocks{
		Consultants:   &ConsultantRepo{},
		Skills:        &SkillRepo{},
		Attendance:    &AttendanceRepo{},
		Opportunities: &OpportunityRepo{},
		Snapshots:     &SnapshotRepo{},
		Chat:          &ChatRepo{},
		Schemas:       &SchemaRepo{},
		Templates:     &TemplateRepo{},
	}
}

// Repo bundles the mocks into the aggregate the service consumes.
func (m *Mocks) Repo() *repository.Repository {
	return &repository.Repository{
		Consultant:  m.Consultants,
		Skill:       m.Skills,
		Attendance:  m.Attendance,
		Opportunity: m.Opportunities,
		Snapshot:    m.Snapshots,
		Chat:        m.Chat,
		Schema:      m.Schemas,
		Template:    m.Templates,
	}
}

type ConsultantRepo struct {
	Stored    map[int64]*models.Consultant
	NextID    int64
	CreateErr error
	UpdateErr error
	Updates   int
}

func (m *ConsultantRepo) put(c *models.Consultant) {
	if m.Stored == nil {
		m.Stored = make(map[int64]*models.Consultant)
	}
	cp := *c
	m.Stored[c.ID] = &cp
}

// Add seeds a consultant, assigning an id when missing.
func (m *ConsultantRepo) Add(c models.Consultant) *models.Consultant {
	if c.ID == 0 {
		m.NextID++
		c.ID = m.NextID
	} else if c.ID > m.NextID {
		m.NextID = c.ID
	}
	m.put(&c)
	return m.Stored[c.ID]
}

func (m *ConsultantRepo) CreateConsultant(ctx context.Context, c *models.Consultant) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	m.NextID++
	c.ID = m.NextID
	m.put(c)
	return c.ID, nil
}

func (m *ConsultantRepo) GetByID(ctx context.Context, id int64) (*models.Consultant, error) {
	if c, ok := m.Stored[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (m *ConsultantRepo) GetByEmail(ctx context.Context, email string) (*models.Consultant, error) {
	for _, c := range m.Stored {
		if c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *ConsultantRepo) ListConsultants(ctx context.Context, limit, offset int) ([]models.Consultant, error) {
	ids := make([]int64, 0, len(m.Stored))
	for id := range m.Stored {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out []models.Consultant
	for i, id := range ids {
		if i < offset {
			continue
		}
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, *m.Stored[id])
	}
	return out, nil
}

func (m *ConsultantRepo) CountConsultants(ctx context.Context) (int64, error) {
	return int64(len(m.Stored)), nil
}

func (m *ConsultantRepo) UpdateConsultant(ctx context.Context, c *models.Consultant) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.Updates++
	m.put(c)
	return nil
}

func (m *ConsultantRepo) DeleteConsultant(ctx context.Context, id int64) error {
	delete(m.Stored, id)
	return nil
}

type SkillRepo struct {
	Stored     map[int64][]models.Skill
	ReplaceErr error
	ListErr    error
}

func (m *SkillRepo) ReplaceSkills(ctx context.Context, consultantID int64, skills []models.Skill) error {
	if m.ReplaceErr != nil {
		return m.ReplaceErr
	}
	if m.Stored == nil {
		m.Stored = make(map[int64][]models.Skill)
	}
	m.Stored[consultantID] = append([]models.Skill(nil), skills...)
	return nil
}

func (m *SkillRepo) ListSkillsByConsultant(ctx context.Context, consultantID int64) ([]models.Skill, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return append([]models.Skill(nil), m.Stored[consultantID]...), nil
}

type AttendanceRepo struct {
	Stored map[int64][]models.AttendanceRecord
	nextID int64
}

func (m *AttendanceRepo) UpsertAttendance(ctx context.Context, rec *models.AttendanceRecord) (int64, error) {
	if m.Stored == nil {
		m.Stored = make(map[int64][]models.AttendanceRecord)
	}
	list := m.Stored[rec.ConsultantID]
	for i, r := range list {
		if r.Day == rec.Day {
			rec.ID = r.ID
			list[i] = *rec
			return r.ID, nil
		}
	}
	m.nextID++
	rec.ID = m.nextID
	m.Stored[rec.ConsultantID] = append(list, *rec)
	return rec.ID, nil
}

func (m *AttendanceRepo) ListAttendanceByConsultant(ctx context.Context, consultantID int64) ([]models.AttendanceRecord, error) {
	return append([]models.AttendanceRecord(nil), m.Stored[consultantID]...), nil
}

func (m *AttendanceRepo) CountAttendanceByConsultant(ctx context.Context, consultantID int64) (int64, error) {
	return int64(len(m.Stored[consultantID])), nil
}

type OpportunityRepo struct {
	Catalog []models.JobOpportunity
	Actions map[int64][]models.OpportunityActionRecord
	nextID  int64
}

func (m *OpportunityRepo) ListOpportunities(ctx context.Context) ([]models.JobOpportunity, error) {
	return append([]models.JobOpportunity(nil), m.Catalog...), nil
}

func (m *OpportunityRepo) GetOpportunity(ctx context.Context, id int64) (*models.JobOpportunity, error) {
	for _, o := range m.Catalog {
		if o.ID == id {
			cp := o
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *OpportunityRepo) CreateOpportunityAction(ctx context.Context, a *models.OpportunityActionRecord) (int64, error) {
	if m.Actions == nil {
		m.Actions = make(map[int64][]models.OpportunityActionRecord)
	}
	m.nextID++
	a.ID = m.nextID
	m.Actions[a.ConsultantID] = append(m.Actions[a.ConsultantID], *a)
	return a.ID, nil
}

func (m *OpportunityRepo) ListActionsByConsultant(ctx context.Context, consultantID int64) ([]models.OpportunityActionRecord, error) {
	return append([]models.OpportunityActionRecord(nil), m.Actions[consultantID]...), nil
}

// SnapshotRepo is safe for concurrent use; snapshot jobs write from
// worker goroutines while tests poll.
type SnapshotRepo struct {
	mu     sync.Mutex
	Stored map[int64][]models.SkillSnapshot
	nextID int64
}

func (m *SnapshotRepo) CreateSnapshot(ctx context.Context, s *models.SkillSnapshot) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Stored == nil {
		m.Stored = make(map[int64][]models.SkillSnapshot)
	}
	m.nextID++
	s.ID = m.nextID
	m.Stored[s.ConsultantID] = append(m.Stored[s.ConsultantID], *s)
	return s.ID, nil
}

func (m *SnapshotRepo) LatestSnapshot(ctx context.Context, consultantID int64) (*models.SkillSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.Stored[consultantID]
	if len(list) == 0 {
		return nil, nil
	}
	cp := list[len(list)-1]
	return &cp, nil
}

type ChatRepo struct {
	Stored []models.ChatMessage
	nextID int64
}

func (m *ChatRepo) CreateChatMessage(ctx context.Context, msg *models.ChatMessage) (int64, error) {
	m.nextID++
	msg.ID = m.nextID
	m.Stored = append(m.Stored, *msg)
	return msg.ID, nil
}

func (m *ChatRepo) ListChatMessages(ctx context.Context, sessionID string, limit int) ([]models.ChatMessage, error) {
	var out []models.ChatMessage
	for _, msg := range m.Stored {
		if msg.SessionID == sessionID {
			out = append(out, msg)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

type SchemaRepo struct {
	Stored map[string]*models.AgentSchema
}

func (m *SchemaRepo) CreateSchema(ctx context.Context, version, description, schemaJSON string) (int64, error) {
	if m.Stored == nil {
		m.Stored = make(map[string]*models.AgentSchema)
	}
	id := int64(len(m.Stored) + 1)
	m.Stored[version] = &models.AgentSchema{ID: id, Version: version, Description: description, SchemaJSON: schemaJSON}
	return id, nil
}

func (m *SchemaRepo) GetSchemaByVersion(ctx context.Context, version string) (*models.AgentSchema, error) {
	if s, ok := m.Stored[version]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (m *SchemaRepo) ListSchemas(ctx context.Context) ([]models.AgentSchema, error) {
	var out []models.AgentSchema
	for _, s := range m.Stored {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

func (m *SchemaRepo) DeleteSchema(ctx context.Context, version string) error {
	delete(m.Stored, version)
	return nil
}

type TemplateRepo struct {
	Stored map[string]*models.AgentTemplate
}

func templateKey(name, version string) string { return name + "@" + version }

func (m *TemplateRepo) CreateTemplate(ctx context.Context, name, version, templateText string, schemaVer *string, metadata *string) (int64, error) {
	if m.Stored == nil {
		m.Stored = make(map[string]*models.AgentTemplate)
	}
	id := int64(len(m.Stored) + 1)
	m.Stored[templateKey(name, version)] = &models.AgentTemplate{
		ID: id, Name: name, Version: version, TemplateTxt: templateText,
		SchemaVer: schemaVer, Metadata: metadata,
	}
	return id, nil
}

func (m *TemplateRepo) GetTemplate(ctx context.Context, name, version string) (*models.AgentTemplate, error) {
	if t, ok := m.Stored[templateKey(name, version)]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, nil
}

func (m *TemplateRepo) ListTemplates(ctx context.Context) ([]models.AgentTemplate, error) {
	var out []models.AgentTemplate
	for _, t := range m.Stored {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		return templateKey(out[i].Name, out[i].Version) < templateKey(out[j].Name, out[j].Version)
	})
	return out, nil
}

func (m *TemplateRepo) DeleteTemplate(ctx context.Context, name, version string) error {
	delete(m.Stored, templateKey(name, version))
	return nil
}
