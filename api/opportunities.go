package api

import (
	"encoding/json"
	"net/http"

	"github.com/garnizeh/benchwise/internal/consultant"
	"github.com/garnizeh/benchwise/pkg/models"
	"github.com/garnizeh/benchwise/pkg/repository"
)

type OpportunitiesHandler struct {
	opportunityRepo repository.OpportunityRepo
	service         *consultant.Service
}

func NewOpportunitiesHandler(or repository.OpportunityRepo, svc *consultant.Service) *OpportunitiesHandler {
	return &OpportunitiesHandler{opportunityRepo: or, service: svc}
}

func (h *OpportunitiesHandler) List(w http.ResponseWriter, r *http.Request) {
	opps, err := h.opportunityRepo.ListOpportunities(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if opps == nil {
		opps = []models.JobOpportunity{}
	}

	writeJSON(w, opps, http.StatusOK)
}

type opportunityActionRequest struct {
	OpportunityID int64  `json:"opportunity_id"`
	Action        string `json:"action"`
}

func (h *OpportunitiesHandler) RecordAction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if !canAccess(r, id) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var req opportunityActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	if err := h.service.RecordOpportunityAction(r.Context(), id, req.OpportunityID, models.OpportunityAction(req.Action)); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *OpportunitiesHandler) ListActions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if !canAccess(r, id) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	actions, err := h.opportunityRepo.ListActionsByConsultant(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if actions == nil {
		actions = []models.OpportunityActionRecord{}
	}

	writeJSON(w, actions, http.StatusOK)
}
