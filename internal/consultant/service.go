package consultant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/garnizeh/benchwise/internal/agent"
	"github.com/garnizeh/benchwise/internal/document"
	"github.com/garnizeh/benchwise/pkg/models"
	"github.com/garnizeh/benchwise/pkg/repository"
	"github.com/google/uuid"
)

// ErrNotFound reports a consultant id with no row behind it.
var ErrNotFound = errors.New("consultant not found")

// ValidationError reports malformed or missing user input, caught
// before any gateway or persistence call.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationErr(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// Gateway is the slice of the agent gateway the service needs.
type Gateway interface {
	ExtractSkills(ctx context.Context, resumeText string) (*agent.SkillVector, error)
	VerifyCertificate(ctx context.Context, certificateText string) (*agent.CertVerification, error)
	AttendanceFeedback(ctx context.Context, presentDays, totalDays, percentage int) (*agent.Feedback, error)
	OpportunityFeedback(ctx context.Context, accepted, rejected, noResponse int) (*agent.Feedback, error)
	SuggestProjects(ctx context.Context, department string, skills []models.Skill) (*agent.ProjectSuggestions, error)
	TrackEvolution(ctx context.Context, baseline, current []models.Skill) (*agent.Evolution, error)
	Chat(ctx context.Context, agentName string, data map[string]any, history []models.ChatMessage, message string) (string, error)
}

// Enqueuer is the slice of the job queue the service needs.
type Enqueuer interface {
	Enqueue(ctx context.Context, typ string, payload any, priority int, maxAttempts int) (int64, error)
}

var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger installs a logger for the consultant package. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// Service orchestrates every consultant-facing operation: validate,
// optionally call an agent, merge/reduce, persist, return. Merge and
// reduction happen before any write, so a failed operation leaves prior
// persisted state untouched.
type Service struct {
	repo    *repository.Repository
	gateway Gateway
	queue   Enqueuer
	policy  MergePolicy
}

func NewService(repo *repository.Repository, gw Gateway, queue Enqueuer, policy MergePolicy) *Service {
	if policy == "" {
		policy = ReplaceAll
	}
	return &Service{repo: repo, gateway: gw, queue: queue, policy: policy}
}

func (s *Service) getConsultant(ctx context.Context, id int64) (*models.Consultant, error) {
	if id <= 0 {
		return nil, validationErr("invalid consultant id %d", id)
	}
	c, err := s.repo.Consultant.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get consultant: %w", err)
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

// refreshWorkflow rederives the checklist from current state and
// persists the consultant row when the flags changed.
func (s *Service) refreshWorkflow(ctx context.Context, c *models.Consultant) error {
	skills, err := s.repo.Skill.ListSkillsByConsultant(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("list skills: %w", err)
	}
	count, err := s.repo.Attendance.CountAttendanceByConsultant(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("count attendance: %w", err)
	}

	c.Workflow = DeriveWorkflow(c, skills, count)
	if err := s.repo.Consultant.UpdateConsultant(ctx, c); err != nil {
		return fmt.Errorf("persist consultant: %w", err)
	}
	return nil
}

// ResumeAnalysis is the result of AnalyzeResume.
type ResumeAnalysis struct {
	Skills       []models.Skill `json:"skills"`
	Changes      []SkillChange  `json:"changes"`
	AverageScore int            `json:"average_score"`
}

// AnalyzeResume extracts a skill vector from an uploaded resume, merges
// it against the stored skill list under the service's policy, and
// flips the resume workflow step. A snapshot job is enqueued so the
// evolution agent has a baseline to compare future analyses against.
func (s *Service) AnalyzeResume(ctx context.Context, id int64, filename string, data []byte) (*ResumeAnalysis, error) {
	c, err := s.getConsultant(ctx, id)
	if err != nil {
		return nil, err
	}

	text, err := document.ExtractText(filename, data)
	if err != nil {
		return nil, validationErr("unreadable resume: %v", err)
	}

	vector, err := s.gateway.ExtractSkills(ctx, text)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.Skill.ListSkillsByConsultant(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}

	extracted := skillsFromExtraction(id, vector.Skills, models.SourceResume)
	merged, changes := Merge(existing, extracted, s.policy)

	if err := s.repo.Skill.ReplaceSkills(ctx, id, merged); err != nil {
		return nil, fmt.Errorf("replace skills: %w", err)
	}

	c.ResumeStatus = models.ResumeUpdated
	if err := s.refreshWorkflow(ctx, c); err != nil {
		return nil, err
	}

	if s.queue != nil {
		if _, err := s.queue.Enqueue(ctx, "skills.snapshot", map[string]any{"consultant_id": id}, 100, 3); err != nil {
			// the analysis itself succeeded; a missing snapshot only delays evolution tracking
			logger.Warn("enqueue snapshot failed", "consultant_id", id, "err", err)
		}
	}

	logger.Info("resume analyzed", "consultant_id", id, "skills", len(merged), "changes", len(changes))
	return &ResumeAnalysis{Skills: merged, Changes: changes, AverageScore: AverageScore(merged)}, nil
}

// CertificateResult is the result of VerifyCertificate.
type CertificateResult struct {
	Valid       bool           `json:"valid"`
	Institution string         `json:"institution,omitempty"`
	Skills      []models.Skill `json:"skills"`
	Changes     []SkillChange  `json:"changes"`
}

// VerifyCertificate runs the verification agent over an uploaded
// certificate. Skills from a valid certificate are merged additively:
// a certificate attests new skills, it says nothing about the absence
// of others, so the union policy applies regardless of configuration.
func (s *Service) VerifyCertificate(ctx context.Context, id int64, filename string, data []byte) (*CertificateResult, error) {
	c, err := s.getConsultant(ctx, id)
	if err != nil {
		return nil, err
	}

	text, err := document.ExtractText(filename, data)
	if err != nil {
		return nil, validationErr("unreadable certificate: %v", err)
	}

	verification, err := s.gateway.VerifyCertificate(ctx, text)
	if err != nil {
		return nil, err
	}

	result := &CertificateResult{Valid: verification.Valid, Institution: verification.Institution}
	if !verification.Valid {
		logger.Info("certificate rejected", "consultant_id", id)
		return result, nil
	}

	existing, err := s.repo.Skill.ListSkillsByConsultant(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}

	extracted := skillsFromExtraction(id, verification.Skills, models.SourceCertificate)
	merged, changes := Merge(existing, extracted, UnionPreserveUnseen)

	if err := s.repo.Skill.ReplaceSkills(ctx, id, merged); err != nil {
		return nil, fmt.Errorf("replace skills: %w", err)
	}

	c.Training = models.TrainingCompleted
	if err := s.refreshWorkflow(ctx, c); err != nil {
		return nil, err
	}

	result.Skills = merged
	result.Changes = changes
	return result, nil
}

// MarkAttendance upserts the record for (consultant, day): marking the
// same day twice keeps one row with the latest status.
func (s *Service) MarkAttendance(ctx context.Context, id int64, day string, status models.AttendanceStatus) (*models.AttendanceRecord, error) {
	c, err := s.getConsultant(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := time.Parse("2006-01-02", day); err != nil {
		return nil, validationErr("invalid day %q, want YYYY-MM-DD", day)
	}
	if status != models.Present && status != models.Absent {
		return nil, validationErr("invalid attendance status %q", status)
	}

	rec := &models.AttendanceRecord{ConsultantID: id, Day: day, Status: status}
	recID, err := s.repo.Attendance.UpsertAttendance(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("upsert attendance: %w", err)
	}
	rec.ID = recID

	if err := s.refreshWorkflow(ctx, c); err != nil {
		return nil, err
	}
	return rec, nil
}

// RecordOpportunityAction persists an engagement decision and keeps the
// consultant's documented-opportunity count derived from the action log.
func (s *Service) RecordOpportunityAction(ctx context.Context, id, opportunityID int64, action models.OpportunityAction) error {
	c, err := s.getConsultant(ctx, id)
	if err != nil {
		return err
	}
	switch action {
	case models.ActionAccepted, models.ActionRejected, models.ActionNoResponse:
	default:
		return validationErr("invalid opportunity action %q", action)
	}

	opp, err := s.repo.Opportunity.GetOpportunity(ctx, opportunityID)
	if err != nil {
		return fmt.Errorf("get opportunity: %w", err)
	}
	if opp == nil {
		return validationErr("unknown opportunity %d", opportunityID)
	}

	rec := &models.OpportunityActionRecord{
		ConsultantID:  id,
		OpportunityID: opportunityID,
		Action:        action,
		Created:       time.Now().UTC().UnixMilli(),
	}
	if _, err := s.repo.Opportunity.CreateOpportunityAction(ctx, rec); err != nil {
		return fmt.Errorf("create opportunity action: %w", err)
	}

	actions, err := s.repo.Opportunity.ListActionsByConsultant(ctx, id)
	if err != nil {
		return fmt.Errorf("list actions: %w", err)
	}
	c.Opportunities = int64(len(actions))
	if action == models.ActionAccepted && !containsID(c.SelectedOpps, opportunityID) {
		c.SelectedOpps = append(c.SelectedOpps, opportunityID)
	}

	return s.refreshWorkflow(ctx, c)
}

// AttendanceFeedback summarizes persisted attendance and asks the
// feedback agent for coaching text.
func (s *Service) AttendanceFeedback(ctx context.Context, id int64) (*agent.Feedback, AttendanceSummary, error) {
	if _, err := s.getConsultant(ctx, id); err != nil {
		return nil, AttendanceSummary{}, err
	}
	records, err := s.repo.Attendance.ListAttendanceByConsultant(ctx, id)
	if err != nil {
		return nil, AttendanceSummary{}, fmt.Errorf("list attendance: %w", err)
	}
	sum := SummarizeAttendance(records)
	fb, err := s.gateway.AttendanceFeedback(ctx, sum.PresentDays, sum.TotalDays, sum.Percentage)
	if err != nil {
		return nil, sum, err
	}
	return fb, sum, nil
}

// OpportunityFeedback summarizes persisted engagement actions and asks
// the feedback agent for coaching text.
func (s *Service) OpportunityFeedback(ctx context.Context, id int64) (*agent.Feedback, OpportunitySummary, error) {
	if _, err := s.getConsultant(ctx, id); err != nil {
		return nil, OpportunitySummary{}, err
	}
	actions, err := s.repo.Opportunity.ListActionsByConsultant(ctx, id)
	if err != nil {
		return nil, OpportunitySummary{}, fmt.Errorf("list actions: %w", err)
	}
	sum := SummarizeOpportunities(actions)
	fb, err := s.gateway.OpportunityFeedback(ctx, sum.Accepted, sum.Rejected, sum.NoResponse)
	if err != nil {
		return nil, sum, err
	}
	return fb, sum, nil
}

// SuggestProjects asks the allocation agent for 3-5 suggestions fitting
// the consultant's department and skills.
func (s *Service) SuggestProjects(ctx context.Context, id int64) (*agent.ProjectSuggestions, error) {
	c, err := s.getConsultant(ctx, id)
	if err != nil {
		return nil, err
	}
	skills, err := s.repo.Skill.ListSkillsByConsultant(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	return s.gateway.SuggestProjects(ctx, string(c.Department), skills)
}

// TrackEvolution compares the latest recorded snapshot against the
// current skill list. Without a non-empty baseline the agent reports a
// precondition failure.
func (s *Service) TrackEvolution(ctx context.Context, id int64) (*agent.Evolution, error) {
	if _, err := s.getConsultant(ctx, id); err != nil {
		return nil, err
	}

	var baseline []models.Skill
	snap, err := s.repo.Snapshot.LatestSnapshot(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("latest snapshot: %w", err)
	}
	if snap != nil {
		baseline, err = decodeSnapshotSkills(snap.SkillsJSON)
		if err != nil {
			return nil, fmt.Errorf("decode snapshot: %w", err)
		}
	}

	current, err := s.repo.Skill.ListSkillsByConsultant(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}

	return s.gateway.TrackEvolution(ctx, baseline, current)
}

// ChatReply is the result of a chat turn.
type ChatReply struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

// Chat runs one turn against a chat agent. With a consultant id the
// consultant-specific agent answers over their profile; otherwise the
// general application agent is used. Both turns are persisted under the
// session id (a fresh uuid when the caller did not supply one).
func (s *Service) Chat(ctx context.Context, sessionID string, consultantID *int64, message string) (*ChatReply, error) {
	if strings.TrimSpace(message) == "" {
		return nil, validationErr("message is required")
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	agentName := agent.ChatGeneral
	data := map[string]any{}
	if consultantID != nil {
		c, err := s.getConsultant(ctx, *consultantID)
		if err != nil {
			return nil, err
		}
		skills, err := s.repo.Skill.ListSkillsByConsultant(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("list skills: %w", err)
		}
		records, err := s.repo.Attendance.ListAttendanceByConsultant(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("list attendance: %w", err)
		}
		att := SummarizeAttendance(records)
		agentName = agent.ChatConsultant
		data = map[string]any{
			"Name":         c.Name,
			"Department":   c.Department,
			"Status":       c.Status,
			"SkillList":    agent.FormatSkillList(skills),
			"AverageScore": AverageScore(skills),
			"Percentage":   att.Percentage,
		}
	}

	history, err := s.repo.Chat.ListChatMessages(ctx, sessionID, 20)
	if err != nil {
		return nil, fmt.Errorf("list chat history: %w", err)
	}

	reply, err := s.gateway.Chat(ctx, agentName, data, history, message)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().UnixMilli()
	userMsg := &models.ChatMessage{SessionID: sessionID, ConsultantID: consultantID, Role: models.ChatUser, Content: message, Created: now}
	if _, err := s.repo.Chat.CreateChatMessage(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("persist user message: %w", err)
	}
	botMsg := &models.ChatMessage{SessionID: sessionID, ConsultantID: consultantID, Role: models.ChatAssistant, Content: reply, Created: now}
	if _, err := s.repo.Chat.CreateChatMessage(ctx, botMsg); err != nil {
		return nil, fmt.Errorf("persist assistant message: %w", err)
	}

	return &ChatReply{SessionID: sessionID, Reply: reply}, nil
}

// ChatHistory returns the persisted turns of one session in
// chronological order.
func (s *Service) ChatHistory(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	if sessionID == "" {
		return nil, validationErr("session id is required")
	}
	msgs, err := s.repo.Chat.ListChatMessages(ctx, sessionID, 0)
	if err != nil {
		return nil, fmt.Errorf("list chat history: %w", err)
	}
	return msgs, nil
}

// Dashboard is the consultant's aggregate view.
type Dashboard struct {
	Consultant   *models.Consultant `json:"consultant"`
	Skills       []models.Skill     `json:"skills"`
	AverageScore int                `json:"average_score"`
	Attendance   AttendanceSummary  `json:"attendance"`
	Engagement   OpportunitySummary `json:"engagement"`
}

// Dashboard assembles the consultant view. Workflow flags are
// recomputed here rather than trusted from the stored copy.
func (s *Service) Dashboard(ctx context.Context, id int64) (*Dashboard, error) {
	c, err := s.getConsultant(ctx, id)
	if err != nil {
		return nil, err
	}
	skills, err := s.repo.Skill.ListSkillsByConsultant(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	records, err := s.repo.Attendance.ListAttendanceByConsultant(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	actions, err := s.repo.Opportunity.ListActionsByConsultant(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}

	c.Workflow = DeriveWorkflow(c, skills, int64(len(records)))
	return &Dashboard{
		Consultant:   c,
		Skills:       skills,
		AverageScore: AverageScore(skills),
		Attendance:   SummarizeAttendance(records),
		Engagement:   SummarizeOpportunities(actions),
	}, nil
}

func skillsFromExtraction(consultantID int64, in []agent.ExtractedSkill, source models.SkillSource) []models.Skill {
	out := make([]models.Skill, 0, len(in))
	for _, e := range in {
		out = append(out, models.Skill{
			ConsultantID: consultantID,
			Name:         e.Name,
			Rating:       e.Rating,
			Reasoning:    e.Reasoning,
			Source:       source,
		})
	}
	return out
}

func decodeSnapshotSkills(raw string) ([]models.Skill, error) {
	if raw == "" {
		return nil, nil
	}
	var skills []models.Skill
	if err := json.Unmarshal([]byte(raw), &skills); err != nil {
		return nil, err
	}
	return skills, nil
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
