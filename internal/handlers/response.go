package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorResponse is the error wire format. It mirrors the {error, kind}
// shape the back office speaks, so a client parses one error taxonomy
// whether the rejection is local or upstream.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes an error response without a taxonomy kind.
func WriteError(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	WriteErrorKind(w, status, message, "", logger)
}

// WriteErrorKind writes an error response tagged with a taxonomy kind.
func WriteErrorKind(w http.ResponseWriter, status int, message, kind string, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: message, Kind: kind}); err != nil {
		logger.Error("failed to encode error response", "error", err)
	}
}
