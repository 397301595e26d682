package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"docvault/internal/docstore"
	"docvault/internal/document"
	"docvault/internal/insights"
	"docvault/internal/models"
	"docvault/internal/progress"
	"docvault/internal/summary"
)

type InsightsHandler struct {
	docs      *document.Service
	summaries *summary.Service
	insights  *insights.Service
	progress  *progress.Store
}

func NewInsightsHandler(docs *document.Service, summaries *summary.Service, ins *insights.Service, prog *progress.Store) *InsightsHandler {
	return &InsightsHandler{docs: docs, summaries: summaries, insights: ins, progress: prog}
}

// Get returns the stored insights when present, otherwise follows the same
// marker protocol as summaries and falls back to synchronous generation.
// Insights derive from the summary, so the summary is resolved first.
func (h *InsightsHandler) Get(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "id")

	ins, err := h.insights.Get(r.Context(), documentID)
	if err == nil {
		writeJSON(w, http.StatusOK, ins)
		return
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		writeStoreError(w, err, "insights not found")
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
	data := h.insights.GetOrGenerate(r.Context(), documentID, summaryText, doc.OriginalFilename)

	now := time.Now().UTC()
	writeJSON(w, http.StatusOK, models.Insights{
		DocumentID: documentID,
		Data:       data,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

type upsertInsightsRequest struct {
	Data models.InsightsData `json:"insights_data"`
}

func (r upsertInsightsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Data, validation.Required, validation.By(func(interface{}) error {
			if r.Data.ConfidenceScore < 0 || r.Data.ConfidenceScore > 1 {
				return errors.New("confidence_score must be between 0 and 1")
			}
			return nil
		})),
	)
}

func (h *InsightsHandler) Create(w http.ResponseWriter, r *http.Request) {
	h.upsert(w, r, http.StatusCreated)
}

func (h *InsightsHandler) Update(w http.ResponseWriter, r *http.Request) {
	h.upsert(w, r, http.StatusOK)
}

func (h *InsightsHandler) upsert(w http.ResponseWriter, r *http.Request, status int) {
	documentID := chi.URLParam(r, "id")

	var req upsertInsightsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ins, err := h.insights.Set(r.Context(), documentID, req.Data)
	if err != nil {
		writeStoreError(w, err, "insights not found")
		return
	}
	writeJSON(w, status, ins)
}

func (h *InsightsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "id")
	if err := h.insights.Delete(r.Context(), documentID); err != nil {
		writeStoreError(w, err, "insights not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
