// Package insights is the derived-artifact store and get-or-generate flow
// for structured document insights. Reads never surface a malformed
// payload: anything unparseable is repaired to the safe default.
package insights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"docvault/internal/docstore"
	"docvault/internal/generate"
	"docvault/internal/models"
)

// InsightExtractor derives structured insights from a document summary. It
// never fails; facility problems degrade inside the implementation.
type InsightExtractor interface {
	ExtractInsights(ctx context.Context, summaryText, filename string) models.InsightsData
}

type Service struct {
	store docstore.Store
	gen   InsightExtractor
}

func NewService(store docstore.Store, gen InsightExtractor) *Service {
	return &Service{store: store, gen: gen}
}

// stored mirrors models.Insights with the payload kept raw so a damaged
// payload can be repaired instead of failing the whole read.
type stored struct {
	DocumentID string          `json:"document_id"`
	Data       json.RawMessage `json:"insights_data"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Get returns the stored insights for a document. docstore.ErrNotFound
// means no insights exist; backend failure is surfaced as-is. A stored
// payload that does not parse as the expected shape is replaced by the safe
// default rather than raised.
func (s *Service) Get(ctx context.Context, documentID string) (*models.Insights, error) {
	var rec stored
	if err := s.store.Get(ctx, docstore.CollectionInsights, documentID, &rec); err != nil {
		return nil, err
	}

	ins := &models.Insights{
		DocumentID: documentID,
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	}
	ins.Data = decodePayload(documentID, rec.Data)
	return ins, nil
}

func decodePayload(documentID string, raw json.RawMessage) models.InsightsData {
	var data models.InsightsData
	if err := json.Unmarshal(raw, &data); err == nil {
		data.Normalize()
		return data
	}

	// Older records stored the payload as a JSON-encoded string.
	var nested string
	if err := json.Unmarshal(raw, &nested); err == nil {
		if data, perr := generate.ParseInsights(nested); perr == nil {
			return data
		}
	}

	slog.Warn("stored insights payload unparseable, repairing", "document_id", documentID)
	return models.DefaultInsightsData("stored insights payload could not be parsed; reset to a safe default")
}

// Set upserts the insights for a document, preserving created_at when a
// record already exists. The payload is normalized before storing.
func (s *Service) Set(ctx context.Context, documentID string, data models.InsightsData) (*models.Insights, error) {
	data.Normalize()

	now := time.Now().UTC()
	ins := models.Insights{
		DocumentID: documentID,
		Data:       data,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	var existing stored
	err := s.store.Get(ctx, docstore.CollectionInsights, documentID, &existing)
	switch {
	case err == nil:
		ins.CreatedAt = existing.CreatedAt
	case errors.Is(err, docstore.ErrNotFound):
	default:
		return nil, fmt.Errorf("check existing insights: %w", err)
	}

	if err := s.store.Create(ctx, docstore.CollectionInsights, documentID, ins); err != nil {
		return nil, fmt.Errorf("store insights: %w", err)
	}
	return &ins, nil
}

func (s *Service) Delete(ctx context.Context, documentID string) error {
	if err := s.store.Delete(ctx, docstore.CollectionInsights, documentID); err != nil {
		return fmt.Errorf("delete insights: %w", err)
	}
	return nil
}

// GetOrGenerate returns the stored insights when present; otherwise it
// extracts them from the summary text, persists them best-effort, and
// returns the fresh record.
func (s *Service) GetOrGenerate(ctx context.Context, documentID, summaryText, filename string) models.InsightsData {
	ins, err := s.Get(ctx, documentID)
	if err == nil {
		return ins.Data
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		slog.Warn("insights lookup failed, generating fresh", "document_id", documentID, "error", err)
	}

	data := s.gen.ExtractInsights(ctx, summaryText, filename)
	if _, err := s.Set(ctx, documentID, data); err != nil {
		slog.Warn("failed to persist generated insights", "document_id", documentID, "error", err)
	}
	return data
}
