package api

import (
	"encoding/json"
	"net/http"

	"github.com/garnizeh/benchwise/internal/consultant"
	"github.com/garnizeh/benchwise/pkg/models"
)

type ChatHandler struct {
	service *consultant.Service
}

func NewChatHandler(svc *consultant.Service) *ChatHandler {
	return &ChatHandler{service: svc}
}

type chatRequest struct {
	SessionID    string `json:"session_id,omitempty"`
	ConsultantID *int64 `json:"consultant_id,omitempty"`
	Message      string `json:"message"`
}

// Chat runs one turn. With a consultant_id the profile-aware agent
// answers; only admins may ask about other consultants.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	if req.ConsultantID != nil && !canAccess(r, *req.ConsultantID) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	reply, err := h.service.Chat(r.Context(), req.SessionID, req.ConsultantID, req.Message)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, reply, http.StatusOK)
}

// History returns the persisted turns of one session.
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		http.Error(w, "session_id required", http.StatusBadRequest)
		return
	}

	msgs, err := h.service.ChatHistory(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	if msgs == nil {
		msgs = []models.ChatMessage{}
	}

	writeJSON(w, msgs, http.StatusOK)
}
