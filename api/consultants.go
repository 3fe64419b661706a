package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/garnizeh/benchwise/internal/consultant"
	"github.com/garnizeh/benchwise/pkg/models"
	"github.com/garnizeh/benchwise/pkg/repository"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
)

type ConsultantsHandler struct {
	consultantRepo repository.ConsultantRepo
	skillRepo      repository.SkillRepo
	service        *consultant.Service
}

func NewConsultantsHandler(cr repository.ConsultantRepo, sr repository.SkillRepo, svc *consultant.Service) *ConsultantsHandler {
	return &ConsultantsHandler{consultantRepo: cr, skillRepo: sr, service: svc}
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

// canAccess allows admins everywhere and consultants on their own id.
func canAccess(r *http.Request, id int64) bool {
	if role, _ := r.Context().Value(CtxRole).(string); role == string(models.RoleAdmin) {
		return true
	}
	self, ok := consultantIDFromContext(r)
	return ok && self == id
}

type consultantListResponse struct {
	Consultants []models.Consultant `json:"consultants"`
	Total       int64               `json:"total"`
}

func (h *ConsultantsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	ctx := r.Context()
	list, err := h.consultantRepo.ListConsultants(ctx, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	total, err := h.consultantRepo.CountConsultants(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	if list == nil {
		list = []models.Consultant{}
	}

	writeJSON(w, consultantListResponse{Consultants: list, Total: total}, http.StatusOK)
}

func (h *ConsultantsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if !canAccess(r, id) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	c, err := h.consultantRepo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if c == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	writeJSON(w, c, http.StatusOK)
}

type createConsultantRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

func (h *ConsultantsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createConsultantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		http.Error(w, "name, email and password required", http.StatusBadRequest)
		return
	}

	role := models.RoleConsultant
	if req.Role == string(models.RoleAdmin) {
		role = models.RoleAdmin
	}
	department := models.Department(req.Department)
	if req.Department == "" {
		department = models.DeptTechnology
	}
	if !department.Valid() {
		http.Error(w, "unknown department", http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, err)
		return
	}

	c := models.Consultant{
		Name:         req.Name,
		Email:        strings.ToLower(req.Email),
		PasswordHash: string(hash),
		Role:         role,
		Department:   department,
		Status:       models.StatusOnBench,
		ResumeStatus: models.ResumePending,
		Training:     models.TrainingNotStarted,
	}
	id, err := h.consultantRepo.CreateConsultant(r.Context(), &c)
	if err != nil {
		writeError(w, err)
		return
	}
	c.ID = id

	writeJSON(w, c, http.StatusCreated)
}

// updateConsultantRequest deliberately has no workflow or counter
// fields: the checklist is derived from underlying state and cannot be
// set through the API.
type updateConsultantRequest struct {
	Name       *string `json:"name"`
	Department *string `json:"department"`
	Status     *string `json:"status"`
}

func (h *ConsultantsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateConsultantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	c, err := h.consultantRepo.GetByID(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	if c == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Department != nil {
		d := models.Department(*req.Department)
		if !d.Valid() {
			http.Error(w, "unknown department", http.StatusBadRequest)
			return
		}
		c.Department = d
	}
	if req.Status != nil {
		s := models.ConsultantStatus(*req.Status)
		if s != models.StatusOnBench && s != models.StatusOnProject {
			http.Error(w, "unknown status", http.StatusBadRequest)
			return
		}
		c.Status = s
	}

	if err := h.consultantRepo.UpdateConsultant(ctx, c); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, c, http.StatusOK)
}

func (h *ConsultantsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.consultantRepo.DeleteConsultant(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ConsultantsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if !canAccess(r, id) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	d, err := h.service.Dashboard(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, d, http.StatusOK)
}

func (h *ConsultantsHandler) Skills(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if !canAccess(r, id) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	skills, err := h.skillRepo.ListSkillsByConsultant(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if skills == nil {
		skills = []models.Skill{}
	}

	writeJSON(w, skills, http.StatusOK)
}
