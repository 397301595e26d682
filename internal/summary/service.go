// Package summary is the derived-artifact store and get-or-generate flow
// for document summaries.
package summary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"docvault/internal/docstore"
	"docvault/internal/models"
)

// TextSummarizer produces a summary for raw document text. It never fails;
// facility problems degrade inside the implementation.
type TextSummarizer interface {
	Summarize(ctx context.Context, text, filename string) string
}

type Service struct {
	store docstore.Store
	gen   TextSummarizer
}

func NewService(store docstore.Store, gen TextSummarizer) *Service {
	return &Service{store: store, gen: gen}
}

// Get returns the stored summary for a document. docstore.ErrNotFound means
// no summary exists, which is distinct from backend failure.
func (s *Service) Get(ctx context.Context, documentID string) (*models.Summary, error) {
	var sum models.Summary
	if err := s.store.Get(ctx, docstore.CollectionSummaries, documentID, &sum); err != nil {
		return nil, err
	}
	return &sum, nil
}

// Set upserts the summary for a document: created_at is preserved when a
// summary already exists, updated_at always refreshes.
func (s *Service) Set(ctx context.Context, documentID, summaryText string) (*models.Summary, error) {
	now := time.Now().UTC()
	sum := models.Summary{
		DocumentID:  documentID,
		SummaryText: summaryText,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	existing, err := s.Get(ctx, documentID)
	switch {
	case err == nil:
		sum.CreatedAt = existing.CreatedAt
	case errors.Is(err, docstore.ErrNotFound):
	default:
		return nil, fmt.Errorf("check existing summary: %w", err)
	}

	if err := s.store.Create(ctx, docstore.CollectionSummaries, documentID, sum); err != nil {
		return nil, fmt.Errorf("store summary: %w", err)
	}
	return &sum, nil
}

func (s *Service) Delete(ctx context.Context, documentID string) error {
	if err := s.store.Delete(ctx, docstore.CollectionSummaries, documentID); err != nil {
		return fmt.Errorf("delete summary: %w", err)
	}
	return nil
}

// GetOrGenerate returns the stored summary when one exists; otherwise it
// generates one from the extracted text, persists it best-effort, and
// returns the fresh result. Persistence failure is logged, not fatal; the
// caller still gets a summary.
func (s *Service) GetOrGenerate(ctx context.Context, documentID, text, filename string) string {
	stored, err := s.Get(ctx, documentID)
	if err == nil {
		return stored.SummaryText
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		slog.Warn("summary lookup failed, generating fresh", "document_id", documentID, "error", err)
	}

	summaryText := s.gen.Summarize(ctx, text, filename)
	if summaryText == "" {
		return ""
	}

	if _, err := s.Set(ctx, documentID, summaryText); err != nil {
		slog.Warn("failed to persist generated summary", "document_id", documentID, "error", err)
	}
	return summaryText
}
