// Package progress tracks background generation state per document. The
// marker lives in the docstore, not in memory, so it survives process
// restarts; the in-flight task handle is never the record of truth.
package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"docvault/internal/docstore"
	"docvault/internal/models"
)

type Store struct {
	db docstore.Store
}

func NewStore(db docstore.Store) *Store {
	return &Store{db: db}
}

// Start records that generation for a document has begun.
func (s *Store) Start(ctx context.Context, documentID string) error {
	marker := models.GenerationProgress{
		DocumentID: documentID,
		Status:     models.GenStatusGenerating,
		StartedAt:  time.Now().UTC(),
	}
	if err := s.db.Create(ctx, docstore.CollectionProgress, documentID, marker); err != nil {
		return fmt.Errorf("start progress marker: %w", err)
	}
	return nil
}

// Complete transitions the marker to completed. Callers invoke this only
// after the artifact writes have been attempted, so a reader observing
// completed can rely on the artifact being readable.
func (s *Store) Complete(ctx context.Context, documentID string) error {
	return s.finish(ctx, documentID, models.GenStatusCompleted, "")
}

// Fail transitions the marker to failed with a message for the next reader.
func (s *Store) Fail(ctx context.Context, documentID, message string) error {
	return s.finish(ctx, documentID, models.GenStatusFailed, message)
}

func (s *Store) finish(ctx context.Context, documentID, status, message string) error {
	var marker models.GenerationProgress
	err := s.db.Get(ctx, docstore.CollectionProgress, documentID, &marker)
	if err != nil {
		if !errors.Is(err, docstore.ErrNotFound) {
			return fmt.Errorf("load progress marker: %w", err)
		}
		marker = models.GenerationProgress{DocumentID: documentID, StartedAt: time.Now().UTC()}
	}

	now := time.Now().UTC()
	marker.Status = status
	marker.Error = message
	marker.CompletedAt = &now

	if err := s.db.Create(ctx, docstore.CollectionProgress, documentID, marker); err != nil {
		return fmt.Errorf("update progress marker: %w", err)
	}
	return nil
}

// Observe returns the current marker for a document. A failed marker is
// removed on read so the failure is reported exactly once; afterwards the
// document looks like it was never started. docstore.ErrNotFound means no
// marker exists.
func (s *Store) Observe(ctx context.Context, documentID string) (*models.GenerationProgress, error) {
	var marker models.GenerationProgress
	if err := s.db.Get(ctx, docstore.CollectionProgress, documentID, &marker); err != nil {
		return nil, err
	}

	if marker.Status == models.GenStatusFailed {
		if err := s.db.Delete(ctx, docstore.CollectionProgress, documentID); err != nil {
			slog.Warn("failed to clean up progress marker", "document_id", documentID, "error", err)
		}
	}
	return &marker, nil
}
