package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/garnizeh/benchwise/internal/config"
	"github.com/garnizeh/benchwise/pkg/models"
	"github.com/garnizeh/benchwise/pkg/ollama"
	"github.com/garnizeh/benchwise/pkg/repository"
)

// Agent names. Each binds a prompt template and, for structured agents,
// an output schema version.
const (
	ResumeExtract        = "resume.extract"
	CertificateVerify    = "certificate.verify"
	FeedbackAttendance   = "feedback.attendance"
	FeedbackOpportunity  = "feedback.opportunities"
	ProjectsSuggest      = "projects.suggest"
	ResumeEvolution      = "resume.evolution"
	ChatGeneral          = "chat.general"
	ChatConsultant       = "chat.consultant"
	templateVersion      = "v1"
)

type agentSpec struct {
	schemaVersion string // empty for free-text chat agents
	chat          bool
}

var registry = map[string]agentSpec{
	ResumeExtract:       {schemaVersion: "resume_extract_v1"},
	CertificateVerify:   {schemaVersion: "certificate_verify_v1"},
	FeedbackAttendance:  {schemaVersion: "feedback_attendance_v1"},
	FeedbackOpportunity: {schemaVersion: "feedback_opportunities_v1"},
	ProjectsSuggest:     {schemaVersion: "projects_suggest_v1"},
	ResumeEvolution:     {schemaVersion: "resume_evolution_v1"},
	ChatGeneral:         {chat: true},
	ChatConsultant:      {chat: true},
}

// Generator is the slice of the ollama client the gateway needs.
type Generator interface {
	Generate(ctx context.Context, model string, prompt string) (ollama.GenerateResult, error)
	Chat(ctx context.Context, model string, messages []ollama.Message) (ollama.GenerateResult, error)
}

var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger installs a logger for the agent package. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// Gateway wraps the model client with per-agent prompt templates and
// output-schema validation. It performs no persistence; callers own the
// results.
type Gateway struct {
	client    Generator
	cfg       config.EngineConfig
	loader    *Loader
	templates map[string]models.AgentTemplate
}

// New creates a gateway, loading every registered agent's template and
// compiling all output schemas. A missing template or schema is a
// startup error, not a request-time surprise.
func New(ctx context.Context, client Generator, cfg config.EngineConfig, sr repository.SchemaRepo, tr repository.TemplateRepo) (*Gateway, error) {
	if client == nil {
		return nil, fmt.Errorf("model client is required")
	}
	if sr == nil {
		return nil, fmt.Errorf("schema repo is required")
	}
	if tr == nil {
		return nil, fmt.Errorf("template repo is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = cfg.Model
	}

	loader, err := NewLoader(ctx, sr)
	if err != nil {
		return nil, fmt.Errorf("create loader: %w", err)
	}

	g := &Gateway{client: client, cfg: cfg, loader: loader, templates: make(map[string]models.AgentTemplate)}
	for name, spec := range registry {
		tpl, terr := tr.GetTemplate(ctx, name, templateVersion)
		if terr != nil {
			return nil, fmt.Errorf("load template %s: %w", name, terr)
		}
		if tpl == nil || tpl.TemplateTxt == "" {
			return nil, fmt.Errorf("template %s:%s not found", name, templateVersion)
		}
		if !spec.chat {
			ver := spec.schemaVersion
			if tpl.SchemaVer != nil && *tpl.SchemaVer != "" {
				ver = *tpl.SchemaVer
			}
			if _, ok := loader.GetSchema(ver); !ok {
				return nil, fmt.Errorf("no schema %s for agent %s", ver, name)
			}
		}
		g.templates[name] = *tpl
	}

	return g, nil
}

// ReloadSchemas recompiles output schemas from the repository.
func (g *Gateway) ReloadSchemas(ctx context.Context) error {
	return g.loader.Reload(ctx)
}

// Invoke renders the agent's prompt with data, sends it to the model,
// and validates the returned JSON against the agent's output schema.
// The returned bytes are guaranteed schema-valid.
func (g *Gateway) Invoke(ctx context.Context, agentName string, data map[string]any) (json.RawMessage, error) {
	spec, ok := registry[agentName]
	if !ok {
		return nil, newError(KindBadInput, agentName, fmt.Errorf("unknown agent"))
	}
	if spec.chat {
		return nil, newError(KindBadInput, agentName, fmt.Errorf("chat agent has no structured output; use Chat"))
	}

	tpl := g.templates[agentName]
	prompt, err := ollama.RenderTemplate(tpl.TemplateTxt, data)
	if err != nil {
		return nil, newError(KindBadInput, agentName, fmt.Errorf("render template: %w", err))
	}

	ctxReq, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	out, err := g.client.Generate(ctxReq, g.cfg.Model, prompt)
	if err != nil {
		return nil, newError(KindUnavailable, agentName, err)
	}

	j := extractJSON(out.Text)
	if j == "" {
		logger.Warn("agent returned no JSON object", slog.String("agent", agentName), slog.String("raw", truncate(out.Text, 400)))
		return nil, newError(KindSchemaViolation, agentName, fmt.Errorf("no JSON object found in response"))
	}

	ver := spec.schemaVersion
	if tpl.SchemaVer != nil && *tpl.SchemaVer != "" {
		ver = *tpl.SchemaVer
	}
	schema, ok := g.loader.GetSchema(ver)
	if !ok || schema == nil {
		return nil, newError(KindSchemaViolation, agentName, fmt.Errorf("no schema found for version %s", ver))
	}

	verrs, err := schema.ValidateBytes(ctxReq, []byte(j))
	if err != nil {
		return nil, newError(KindSchemaViolation, agentName, fmt.Errorf("schema validate: %w", err))
	}
	if len(verrs) > 0 {
		var sb strings.Builder
		for _, v := range verrs {
			sb.WriteString(v.Message)
			sb.WriteString("; ")
		}
		logger.Warn("agent response failed schema validation", slog.String("agent", agentName), slog.String("violations", sb.String()))
		return nil, newError(KindSchemaViolation, agentName, fmt.Errorf("response does not match schema: %s", sb.String()))
	}

	return json.RawMessage(j), nil
}

// ExtractSkills runs the resume skill-extraction agent over resume text.
func (g *Gateway) ExtractSkills(ctx context.Context, resumeText string) (*SkillVector, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, newError(KindBadInput, ResumeExtract, fmt.Errorf("empty resume text"))
	}
	raw, err := g.Invoke(ctx, ResumeExtract, map[string]any{"ResumeText": resumeText})
	if err != nil {
		return nil, err
	}
	var v SkillVector
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, newError(KindSchemaViolation, ResumeExtract, err)
	}
	return &v, nil
}

// VerifyCertificate runs the certificate verification agent.
func (g *Gateway) VerifyCertificate(ctx context.Context, certificateText string) (*CertVerification, error) {
	if strings.TrimSpace(certificateText) == "" {
		return nil, newError(KindBadInput, CertificateVerify, fmt.Errorf("empty certificate text"))
	}
	raw, err := g.Invoke(ctx, CertificateVerify, map[string]any{"CertificateText": certificateText})
	if err != nil {
		return nil, err
	}
	var v CertVerification
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, newError(KindSchemaViolation, CertificateVerify, err)
	}
	return &v, nil
}

// AttendanceFeedback generates coaching feedback from an attendance summary.
func (g *Gateway) AttendanceFeedback(ctx context.Context, presentDays, totalDays, percentage int) (*Feedback, error) {
	raw, err := g.Invoke(ctx, FeedbackAttendance, map[string]any{
		"PresentDays": presentDays,
		"TotalDays":   totalDays,
		"Percentage":  percentage,
	})
	if err != nil {
		return nil, err
	}
	var f Feedback
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, newError(KindSchemaViolation, FeedbackAttendance, err)
	}
	return &f, nil
}

// OpportunityFeedback generates coaching feedback from engagement counts.
func (g *Gateway) OpportunityFeedback(ctx context.Context, accepted, rejected, noResponse int) (*Feedback, error) {
	raw, err := g.Invoke(ctx, FeedbackOpportunity, map[string]any{
		"Accepted":   accepted,
		"Rejected":   rejected,
		"NoResponse": noResponse,
	})
	if err != nil {
		return nil, err
	}
	var f Feedback
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, newError(KindSchemaViolation, FeedbackOpportunity, err)
	}
	return &f, nil
}

// SuggestProjects asks for 3-5 allocation suggestions; the count bounds
// are enforced by the output schema.
func (g *Gateway) SuggestProjects(ctx context.Context, department string, skills []models.Skill) (*ProjectSuggestions, error) {
	raw, err := g.Invoke(ctx, ProjectsSuggest, map[string]any{
		"Department": department,
		"SkillList":  FormatSkillList(skills),
	})
	if err != nil {
		return nil, err
	}
	var s ProjectSuggestions
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, newError(KindSchemaViolation, ProjectsSuggest, err)
	}
	return &s, nil
}

// TrackEvolution compares a prior skill baseline against current skills.
// A missing or empty baseline is a precondition failure: there is
// nothing to compare against.
func (g *Gateway) TrackEvolution(ctx context.Context, baseline, current []models.Skill) (*Evolution, error) {
	if len(baseline) == 0 {
		return nil, newError(KindPreconditionFailed, ResumeEvolution, fmt.Errorf("no prior skill baseline"))
	}
	raw, err := g.Invoke(ctx, ResumeEvolution, map[string]any{
		"BaselineSkills": FormatSkillList(baseline),
		"CurrentSkills":  FormatSkillList(current),
	})
	if err != nil {
		return nil, err
	}
	var e Evolution
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, newError(KindSchemaViolation, ResumeEvolution, err)
	}
	return &e, nil
}

// Chat runs one of the two free-text chat agents: the rendered template
// becomes the system prompt, followed by prior turns and the new message.
// No output schema applies.
func (g *Gateway) Chat(ctx context.Context, agentName string, data map[string]any, history []models.ChatMessage, message string) (string, error) {
	spec, ok := registry[agentName]
	if !ok || !spec.chat {
		return "", newError(KindBadInput, agentName, fmt.Errorf("not a chat agent"))
	}
	if strings.TrimSpace(message) == "" {
		return "", newError(KindBadInput, agentName, fmt.Errorf("empty message"))
	}

	tpl := g.templates[agentName]
	system, err := ollama.RenderTemplate(tpl.TemplateTxt, data)
	if err != nil {
		return "", newError(KindBadInput, agentName, fmt.Errorf("render template: %w", err))
	}

	msgs := make([]ollama.Message, 0, len(history)+2)
	msgs = append(msgs, ollama.Message{Role: "system", Content: system})
	for _, h := range history {
		msgs = append(msgs, ollama.Message{Role: string(h.Role), Content: h.Content})
	}
	msgs = append(msgs, ollama.Message{Role: "user", Content: message})

	ctxReq, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	out, err := g.client.Chat(ctxReq, g.cfg.ChatModel, msgs)
	if err != nil {
		return "", newError(KindUnavailable, agentName, err)
	}

	return strings.TrimSpace(out.Text), nil
}

// FormatSkillList renders skills as "Name (7/10): reasoning" lines for
// prompt interpolation.
func FormatSkillList(skills []models.Skill) string {
	if len(skills) == 0 {
		return "(none)"
	}
	var sb strings.Builder
	for _, s := range skills {
		fmt.Fprintf(&sb, "- %s (%d/10)", s.Name, s.Rating)
		if s.Reasoning != "" {
			sb.WriteString(": ")
			sb.WriteString(s.Reasoning)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
