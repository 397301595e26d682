package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"docvault/internal/docstore"
	"docvault/internal/document"
	"docvault/internal/models"
	"docvault/internal/progress"
	"docvault/internal/summary"
)

type SummaryHandler struct {
	docs      *document.Service
	summaries *summary.Service
	progress  *progress.Store
}

func NewSummaryHandler(docs *document.Service, summaries *summary.Service, prog *progress.Store) *SummaryHandler {
	return &SummaryHandler{docs: docs, summaries: summaries, progress: prog}
}

// Get returns the stored summary when one exists. Without one, an active
// generation marker answers 202, a failed marker answers 502 exactly once,
// and otherwise the summary is generated synchronously.
func (h *SummaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "id")

	sum, err := h.summaries.Get(r.Context(), documentID)
	if err == nil {
		writeJSON(w, http.StatusOK, sum)
		return
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		writeStoreError(w, err, "summary not found")
		return
	}

	if done := observeProgress(r.Context(), w, h.progress, documentID); done {
		return
	}

	doc, text, ok := resolveText(r.Context(), w, h.docs, documentID)
	if !ok {
		return
	}

	summaryText := h.summaries.GetOrGenerate(r.Context(), documentID, text, doc.OriginalFilename)
	if summaryText == "" {
		writeError(w, http.StatusUnprocessableEntity, "document has no summarizable text")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"document_id":  documentID,
		"summary_text": summaryText,
	})
}

type upsertSummaryRequest struct {
	SummaryText string `json:"summary_text"`
}

func (r upsertSummaryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.SummaryText, validation.Required),
	)
}

func (h *SummaryHandler) Create(w http.ResponseWriter, r *http.Request) {
	h.upsert(w, r, http.StatusCreated)
}

func (h *SummaryHandler) Update(w http.ResponseWriter, r *http.Request) {
	h.upsert(w, r, http.StatusOK)
}

func (h *SummaryHandler) upsert(w http.ResponseWriter, r *http.Request, status int) {
	documentID := chi.URLParam(r, "id")

	var req upsertSummaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sum, err := h.summaries.Set(r.Context(), documentID, req.SummaryText)
	if err != nil {
		writeStoreError(w, err, "summary not found")
		return
	}
	writeJSON(w, status, sum)
}

func (h *SummaryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "id")
	if err := h.summaries.Delete(r.Context(), documentID); err != nil {
		writeStoreError(w, err, "summary not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// observeProgress checks the generation marker for a document. It writes a
// response and reports done=true when the marker answers the request: 202
// while generation runs, 502 for a failure (reported once, the marker is
// cleaned on read). A completed or absent marker leaves the response to the
// caller.
func observeProgress(ctx context.Context, w http.ResponseWriter, prog *progress.Store, documentID string) (done bool) {
	marker, err := prog.Observe(ctx, documentID)
	if err != nil {
		if !errors.Is(err, docstore.ErrNotFound) {
			slog.Warn("could not observe generation progress", "document_id", documentID, "error", err)
		}
		return false
	}

	switch marker.Status {
	case models.GenStatusGenerating:
		writeJSON(w, http.StatusAccepted, map[string]interface{}{
			"document_id": documentID,
			"status":      marker.Status,
			"started_at":  marker.StartedAt,
		})
		return true
	case models.GenStatusFailed:
		writeError(w, http.StatusBadGateway, fmt.Sprintf("generation failed: %s", marker.Error))
		return true
	default:
		// Completed with a missing artifact; regenerate below.
		return false
	}
}

// resolveText loads the document and extracts its text for synchronous
// generation. On any miss it writes the response and reports ok=false.
func resolveText(ctx context.Context, w http.ResponseWriter, docs *document.Service, documentID string) (*models.Document, string, bool) {
	doc, err := docs.Get(ctx, documentID)
	if err != nil {
		writeStoreError(w, err, "document not found")
		return nil, "", false
	}

	text, ok, err := docs.Text(ctx, doc)
	if err != nil {
		slog.Error("text extraction failed", "document_id", documentID, "error", err)
		writeError(w, http.StatusBadGateway, "could not read document content")
		return nil, "", false
	}
	if !ok || text == "" {
		writeError(w, http.StatusUnprocessableEntity, "document has no extractable text")
		return nil, "", false
	}
	return doc, text, true
}
