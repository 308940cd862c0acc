package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/starford/sowilo/internal/apperr"
)

// errResponse is the body of every non-2xx JSON response.
type errResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("api: encode response", slog.String("error", err.Error()))
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errResponse{Error: msg})
}

// writeError maps service errors to responses. Only unexpected errors are
// logged.
func writeError(w http.ResponseWriter, op string, err error, attrs ...any) {
	if errors.Is(err, apperr.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, "not found")
		return
	}
	slog.Error("api: "+op+" failed", append(attrs, slog.String("error", err.Error()))...)
	writeMessage(w, http.StatusInternalServerError, "internal error")
}
