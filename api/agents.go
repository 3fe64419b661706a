package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/garnizeh/benchwise/internal/agent"
	"github.com/garnizeh/benchwise/internal/consultant"
	"github.com/garnizeh/benchwise/pkg/repository"
	"github.com/qri-io/jsonschema"
)

// maxUploadBytes bounds resume and certificate uploads.
const maxUploadBytes = 10 << 20

type AgentsHandler struct {
	service *consultant.Service
}

func NewAgentsHandler(svc *consultant.Service) *AgentsHandler {
	return &AgentsHandler{service: svc}
}

// readUpload pulls the "file" part out of a multipart request.
func readUpload(r *http.Request) (string, []byte, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return "", nil, fmt.Errorf("parse multipart form: %w", err)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, fmt.Errorf("missing file field: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		return "", nil, fmt.Errorf("read upload: %w", err)
	}
	return header.Filename, data, nil
}

func (h *AgentsHandler) AnalyzeResume(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if !canAccess(r, id) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	filename, data, err := readUpload(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := h.service.AnalyzeResume(r.Context(), id, filename, data)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, res, http.StatusOK)
}

func (h *AgentsHandler) VerifyCertificate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if !canAccess(r, id) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	filename, data, err := readUpload(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := h.service.VerifyCertificate(r.Context(), id, filename, data)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, res, http.StatusOK)
}

type feedbackResponse struct {
	Feedback any `json:"feedback"`
	Summary  any `json:"summary"`
}

func (h *AgentsHandler) AttendanceFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if !canAccess(r, id) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	fb, sum, err := h.service.AttendanceFeedback(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, feedbackResponse{Feedback: fb, Summary: sum}, http.StatusOK)
}

func (h *AgentsHandler) OpportunityFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if !canAccess(r, id) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	fb, sum, err := h.service.OpportunityFeedback(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, feedbackResponse{Feedback: fb, Summary: sum}, http.StatusOK)
}

func (h *AgentsHandler) SuggestProjects(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if !canAccess(r, id) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	res, err := h.service.SuggestProjects(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, res, http.StatusOK)
}

func (h *AgentsHandler) TrackEvolution(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if !canAccess(r, id) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	res, err := h.service.TrackEvolution(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, res, http.StatusOK)
}

// AgentAdminHandler manages the schema and template store behind the
// gateway. Admin-only.
type AgentAdminHandler struct {
	gateway      *agent.Gateway
	schemaRepo   repository.SchemaRepo
	templateRepo repository.TemplateRepo
}

func NewAgentAdminHandler(gw *agent.Gateway, sr repository.SchemaRepo, tr repository.TemplateRepo) *AgentAdminHandler {
	return &AgentAdminHandler{gateway: gw, schemaRepo: sr, templateRepo: tr}
}

func (h *AgentAdminHandler) ReloadHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.gateway.ReloadSchemas(r.Context()); err != nil {
		http.Error(w, fmt.Sprintf("reload schemas: %v", err), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AgentAdminHandler) ListSchemasHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := h.schemaRepo.ListSchemas(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("list schemas: %v", err), http.StatusInternalServerError)
		return
	}

	writeJSON(w, rows, http.StatusOK)
}

type schemaPayload struct {
	Version     string          `json:"version"`
	Description string          `json:"description,omitempty"`
	SchemaJSON  json.RawMessage `json:"schema_json"`
}

// CreateOrUpdateSchemaHandler validates and stores a schema.
func (h *AgentAdminHandler) CreateOrUpdateSchemaHandler(w http.ResponseWriter, r *http.Request) {
	var p schemaPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	if p.Version == "" {
		http.Error(w, "version required", http.StatusBadRequest)
		return
	}

	// basic compile check using qri-io/jsonschema
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal(p.SchemaJSON, rs); err != nil {
		http.Error(w, fmt.Sprintf("invalid schema json: %v", err), http.StatusBadRequest)
		return
	}

	if _, err := h.schemaRepo.CreateSchema(r.Context(), p.Version, p.Description, string(p.SchemaJSON)); err != nil {
		http.Error(w, fmt.Sprintf("store schema: %v", err), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AgentAdminHandler) ListTemplatesHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := h.templateRepo.ListTemplates(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("list templates: %v", err), http.StatusInternalServerError)
		return
	}

	writeJSON(w, rows, http.StatusOK)
}

type templatePayload struct {
	Name          string  `json:"name"`
	Version       string  `json:"version"`
	TemplateText  string  `json:"template_text"`
	SchemaVersion *string `json:"schema_version,omitempty"`
	Metadata      *string `json:"metadata,omitempty"`
}

func (h *AgentAdminHandler) CreateOrUpdateTemplateHandler(w http.ResponseWriter, r *http.Request) {
	var p templatePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if p.Name == "" || p.Version == "" || p.TemplateText == "" {
		http.Error(w, "name, version and template_text required", http.StatusBadRequest)
		return
	}

	if _, err := h.templateRepo.CreateTemplate(r.Context(), p.Name, p.Version, p.TemplateText, p.SchemaVersion, p.Metadata); err != nil {
		http.Error(w, fmt.Sprintf("store template: %v", err), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
