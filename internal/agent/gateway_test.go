package agent_test

import (
	"context"
	"fmt"
	"io/fs"
	"strings"
	"testing"
	"time"

	dbfs "github.com/garnizeh/benchwise/db"
	"github.com/garnizeh/benchwise/internal/agent"
	"github.com/garnizeh/benchwise/internal/config"
	"github.com/garnizeh/benchwise/pkg/models"
	"github.com/garnizeh/benchwise/pkg/ollama"
)

// seedSchemaRepo serves the embedded seed schemas so gateway tests
// exercise the same schema set a deployed instance runs with.
type seedSchemaRepo struct{}

func (seedSchemaRepo) CreateSchema(ctx context.Context, version, description, schemaJSON string) (int64, error) {
	return 0, fmt.Errorf("read-only")
}

func (seedSchemaRepo) GetSchemaByVersion(ctx context.Context, version string) (*models.AgentSchema, error) {
	b, err := fs.ReadFile(dbfs.SeedFiles, "seed/schemas/"+version+".json")
	if err != nil {
		return nil, nil
	}
	return &models.AgentSchema{Version: version, SchemaJSON: string(b)}, nil
}

func (seedSchemaRepo) ListSchemas(ctx context.Context) ([]models.AgentSchema, error) {
	entries, err := fs.ReadDir(dbfs.SeedFiles, "seed/schemas")
	if err != nil {
		return nil, err
	}
	var out []models.AgentSchema
	for _, e := range entries {
		b, err := fs.ReadFile(dbfs.SeedFiles, "seed/schemas/"+e.Name())
		if err != nil {
			return nil, err
		}
		out = append(out, models.AgentSchema{
			Version:    strings.TrimSuffix(e.Name(), ".json"),
			SchemaJSON: string(b),
		})
	}
	return out, nil
}

func (seedSchemaRepo) DeleteSchema(ctx context.Context, version string) error {
	return fmt.Errorf("read-only")
}

type seedTemplateRepo struct{}

func (seedTemplateRepo) CreateTemplate(ctx context.Context, name, version, templateText string, schemaVer, metadata *string) (int64, error) {
	return 0, fmt.Errorf("read-only")
}

func (seedTemplateRepo) GetTemplate(ctx context.Context, name, version string) (*models.AgentTemplate, error) {
	fname := "seed/templates/" + strings.ReplaceAll(name, ".", "-") + ".txt"
	b, err := fs.ReadFile(dbfs.SeedFiles, fname)
	if err != nil {
		return nil, nil
	}
	return &models.AgentTemplate{Name: name, Version: version, TemplateTxt: string(b)}, nil
}

func (seedTemplateRepo) ListTemplates(ctx context.Context) ([]models.AgentTemplate, error) {
	return nil, nil
}

func (seedTemplateRepo) DeleteTemplate(ctx context.Context, name, version string) error {
	return fmt.Errorf("read-only")
}

// fakeClient returns canned output and records what it was asked.
type fakeClient struct {
	generateOut string
	generateErr error
	chatOut     string
	chatErr     error

	lastPrompt   string
	lastMessages []ollama.Message
	calls        int
}

func (f *fakeClient) Generate(ctx context.Context, model, prompt string) (ollama.GenerateResult, error) {
	f.calls++
	f.lastPrompt = prompt
	if f.generateErr != nil {
		return ollama.GenerateResult{}, f.generateErr
	}
	return ollama.GenerateResult{Text: f.generateOut}, nil
}

func (f *fakeClient) Chat(ctx context.Context, model string, messages []ollama.Message) (ollama.GenerateResult, error) {
	f.calls++
	f.lastMessages = messages
	if f.chatErr != nil {
		return ollama.GenerateResult{}, f.chatErr
	}
	return ollama.GenerateResult{Text: f.chatOut}, nil
}

func newGateway(t *testing.T, client *fakeClient) *agent.Gateway {
	t.Helper()
	cfg := config.EngineConfig{Model: "test-model", Timeout: 2 * time.Second}
	g, err := agent.New(context.Background(), client, cfg, seedSchemaRepo{}, seedTemplateRepo{})
	if err != nil {
		t.Fatalf("agent.New: %v", err)
	}
	return g
}

func TestExtractSkills_FencedJSON(t *testing.T) {
	client := &fakeClient{generateOut: "Here you go:\n```json\n{\"skills\":[{\"name\":\"Go\",\"rating\":8,\"reasoning\":\"five years of services\"}]}\n```"}
	g := newGateway(t, client)

	v, err := g.ExtractSkills(context.Background(), "resume text")
	if err != nil {
		t.Fatalf("ExtractSkills: %v", err)
	}
	if len(v.Skills) != 1 || v.Skills[0].Name != "Go" || v.Skills[0].Rating != 8 {
		t.Fatalf("unexpected skills: %#v", v.Skills)
	}
	if !strings.Contains(client.lastPrompt, "resume text") {
		t.Fatalf("prompt does not interpolate resume text: %q", client.lastPrompt)
	}
}

func TestExtractSkills_MissingRequiredField_SchemaViolation(t *testing.T) {
	// rating is required by the output schema
	client := &fakeClient{generateOut: `{"skills":[{"name":"Go","reasoning":"mentioned"}]}`}
	g := newGateway(t, client)

	v, err := g.ExtractSkills(context.Background(), "resume text")
	if err == nil {
		t.Fatalf("expected schema violation, got result %#v", v)
	}
	if agent.KindOf(err) != agent.KindSchemaViolation {
		t.Fatalf("expected KindSchemaViolation, got %v (%v)", agent.KindOf(err), err)
	}
	if v != nil {
		t.Fatalf("expected nil result on schema violation, got %#v", v)
	}
}

func TestExtractSkills_RatingOutOfRange_SchemaViolation(t *testing.T) {
	client := &fakeClient{generateOut: `{"skills":[{"name":"Go","rating":11,"reasoning":"x"}]}`}
	g := newGateway(t, client)

	if _, err := g.ExtractSkills(context.Background(), "resume text"); agent.KindOf(err) != agent.KindSchemaViolation {
		t.Fatalf("expected KindSchemaViolation, got %v", err)
	}
}

func TestExtractSkills_EmptyInput(t *testing.T) {
	g := newGateway(t, &fakeClient{})
	if _, err := g.ExtractSkills(context.Background(), "   "); agent.KindOf(err) != agent.KindBadInput {
		t.Fatalf("expected KindBadInput, got %v", err)
	}
}

func TestExtractSkills_ModelFailure_Unavailable(t *testing.T) {
	client := &fakeClient{generateErr: fmt.Errorf("connection refused")}
	g := newGateway(t, client)

	if _, err := g.ExtractSkills(context.Background(), "resume text"); agent.KindOf(err) != agent.KindUnavailable {
		t.Fatalf("expected KindUnavailable, got %v", err)
	}
}

func TestSuggestProjects_CountBounds(t *testing.T) {
	tooFew := `{"suggestions":[{"title":"A","description":"a"},{"title":"B","description":"b"}]}`
	ok := `{"suggestions":[{"title":"A","description":"a"},{"title":"B","description":"b"},{"title":"C","description":"c"},{"title":"D","description":"d"}]}`

	g := newGateway(t, &fakeClient{generateOut: tooFew})
	if _, err := g.SuggestProjects(context.Background(), "Technology", nil); agent.KindOf(err) != agent.KindSchemaViolation {
		t.Fatalf("expected schema violation for 2 suggestions, got %v", err)
	}

	g = newGateway(t, &fakeClient{generateOut: ok})
	s, err := g.SuggestProjects(context.Background(), "Technology", nil)
	if err != nil {
		t.Fatalf("SuggestProjects: %v", err)
	}
	if len(s.Suggestions) != 4 {
		t.Fatalf("expected 4 suggestions, got %d", len(s.Suggestions))
	}
}

func TestTrackEvolution_NoBaseline_PreconditionFailed(t *testing.T) {
	client := &fakeClient{}
	g := newGateway(t, client)

	_, err := g.TrackEvolution(context.Background(), nil, []models.Skill{{Name: "Go", Rating: 7}})
	if agent.KindOf(err) != agent.KindPreconditionFailed {
		t.Fatalf("expected KindPreconditionFailed, got %v", err)
	}
	if client.calls != 0 {
		t.Fatalf("model must not be called without a baseline")
	}
}

func TestTrackEvolution_WithBaseline(t *testing.T) {
	client := &fakeClient{generateOut: `{"summary":"growth","improved":["Go"],"new":["Rust"],"dropped":[],"trend_rating":8}`}
	g := newGateway(t, client)

	baseline := []models.Skill{{Name: "Go", Rating: 5}}
	current := []models.Skill{{Name: "Go", Rating: 8}, {Name: "Rust", Rating: 6}}
	e, err := g.TrackEvolution(context.Background(), baseline, current)
	if err != nil {
		t.Fatalf("TrackEvolution: %v", err)
	}
	if e.TrendRating != 8 || len(e.New) != 1 {
		t.Fatalf("unexpected evolution: %#v", e)
	}
}

func TestChat_SystemPromptAndHistory(t *testing.T) {
	client := &fakeClient{chatOut: "You have 3 skills on file."}
	g := newGateway(t, client)

	history := []models.ChatMessage{
		{Role: models.ChatUser, Content: "hi"},
		{Role: models.ChatAssistant, Content: "hello"},
	}
	data := map[string]any{
		"Name": "Alice", "Department": "Technology", "Status": "On Bench",
		"SkillList": "- Go (8/10)", "AverageScore": 8, "Percentage": 90,
	}
	out, err := g.Chat(context.Background(), agent.ChatConsultant, data, history, "how many skills do I have?")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if out != "You have 3 skills on file." {
		t.Fatalf("unexpected reply: %q", out)
	}

	if len(client.lastMessages) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(client.lastMessages))
	}
	if client.lastMessages[0].Role != "system" || !strings.Contains(client.lastMessages[0].Content, "Alice") {
		t.Fatalf("system prompt missing profile data: %#v", client.lastMessages[0])
	}
	if client.lastMessages[3].Content != "how many skills do I have?" {
		t.Fatalf("last message must be the new user turn")
	}
}

func TestChat_StructuredAgentRejected(t *testing.T) {
	g := newGateway(t, &fakeClient{})
	if _, err := g.Chat(context.Background(), agent.ResumeExtract, nil, nil, "hi"); agent.KindOf(err) != agent.KindBadInput {
		t.Fatalf("expected KindBadInput, got %v", err)
	}
}

func TestInvoke_UnknownAgent(t *testing.T) {
	g := newGateway(t, &fakeClient{})
	if _, err := g.Invoke(context.Background(), "does.not.exist", nil); agent.KindOf(err) != agent.KindBadInput {
		t.Fatalf("expected KindBadInput, got %v", err)
	}
}
