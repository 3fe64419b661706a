package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/garnizeh/benchwise/internal/agent"
	"github.com/garnizeh/benchwise/internal/consultant"
	"log/slog"
)

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", slog.Any("err", err))
	}
}

// writeError maps a service error onto an HTTP status. Model failures
// deliberately surface as a generic upstream error: raw model output
// and schema details stay in the logs.
func writeError(w http.ResponseWriter, err error) {
	var ve *consultant.ValidationError
	switch {
	case errors.As(err, &ve):
		http.Error(w, ve.Msg, http.StatusBadRequest)
	case errors.Is(err, consultant.ErrNotFound):
		http.Error(w, "consultant not found", http.StatusNotFound)
	default:
		switch agent.KindOf(err) {
		case agent.KindBadInput:
			http.Error(w, err.Error(), http.StatusBadRequest)
		case agent.KindPreconditionFailed:
			http.Error(w, err.Error(), http.StatusConflict)
		case agent.KindSchemaViolation, agent.KindUnavailable:
			logger.Error("agent failure", slog.Any("err", err))
			http.Error(w, "agent unavailable", http.StatusBadGateway)
		default:
			logger.Error("internal error", slog.Any("err", err))
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
	}
}
