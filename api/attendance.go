package api

import (
	"encoding/json"
	"net/http"

	"github.com/garnizeh/benchwise/internal/consultant"
	"github.com/garnizeh/benchwise/pkg/models"
	"github.com/garnizeh/benchwise/pkg/repository"
)

type AttendanceHandler struct {
	attendanceRepo repository.AttendanceRepo
	service        *consultant.Service
}

func NewAttendanceHandler(ar repository.AttendanceRepo, svc *consultant.Service) *AttendanceHandler {
	return &AttendanceHandler{attendanceRepo: ar, service: svc}
}

type markAttendanceRequest struct {
	Day    string `json:"day"`
	Status string `json:"status"`
}

func (h *AttendanceHandler) Mark(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if !canAccess(r, id) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var req markAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	rec, err := h.service.MarkAttendance(r.Context(), id, req.Day, models.AttendanceStatus(req.Status))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, rec, http.StatusOK)
}

func (h *AttendanceHandler) List(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if !canAccess(r, id) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	records, err := h.attendanceRepo.ListAttendanceByConsultant(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if records == nil {
		records = []models.AttendanceRecord{}
	}

	writeJSON(w, records, http.StatusOK)
}
