package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"docvault/internal/docstore"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeStoreError maps docstore failures onto HTTP statuses: a missing
// record is the caller's problem, an unreachable backend is ours.
func writeStoreError(w http.ResponseWriter, err error, notFoundMessage string) {
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		writeError(w, http.StatusNotFound, notFoundMessage)
	case errors.Is(err, docstore.ErrUnavailable):
		slog.Error("docstore unavailable", "error", err)
		writeError(w, http.StatusBadGateway, "storage backend unavailable")
	default:
		slog.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
