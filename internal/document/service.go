// Package document coordinates uploads: filename normalization, the
// storage write, metadata persistence with compensating cleanup, and
// scheduling of background artifact generation.
package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"docvault/internal/docstore"
	"docvault/internal/filename"
	"docvault/internal/folder"
	"docvault/internal/models"
	"docvault/internal/storage"
	"docvault/pkg/textextract"
)

// GenerateScheduler enqueues background artifact generation for a document.
// Scheduling failure never fails an upload.
type GenerateScheduler interface {
	EnqueueDocumentGenerate(documentID string) error
}

type Service struct {
	store   docstore.Store
	storage storage.Storage
	folders *folder.Service
	sched   GenerateScheduler
	bucket  string
	signTTL time.Duration
}

// NewService wires the upload orchestrator. sched may be nil when no
// background generation is configured.
func NewService(store docstore.Store, st storage.Storage, folders *folder.Service, sched GenerateScheduler, bucket string, signTTL time.Duration) *Service {
	return &Service{
		store:   store,
		storage: st,
		folders: folders,
		sched:   sched,
		bucket:  bucket,
		signTTL: signTTL,
	}
}

type UploadRequest struct {
	Data        io.Reader
	ContentType string
	Filename    string
	FolderName  string
	FolderID    *string
}

// Create runs the upload sequence: resolve placement, normalize the name,
// write bytes, obtain a locator, persist metadata, optionally schedule
// generation. A metadata failure after a successful storage write deletes
// the written object (best effort) before surfacing the error, so no
// orphaned storage objects accumulate.
func (s *Service) Create(ctx context.Context, req UploadRequest) (*models.Document, error) {
	folderID := req.FolderID
	if folderID == nil || *folderID == "" {
		// A supplied folder id is used as-is, even when it references
		// nothing; the hierarchy treats such documents as loose. Absent
		// placement falls back to the implicit Root folder.
		rootID, err := s.folders.EnsureRoot(ctx)
		if err != nil {
			return nil, fmt.Errorf("ensure root folder: %w", err)
		}
		folderID = &rootID
	}

	cleaned, meta, err := filename.Normalize(req.Filename, req.FolderName)
	if err != nil {
		return nil, err
	}
	storedName := filename.UniqueName(filename.Sanitize(cleaned))

	data, err := io.ReadAll(req.Data)
	if err != nil {
		return nil, fmt.Errorf("read upload data: %w", err)
	}

	slog.Info("uploading document",
		"original_filename", req.Filename,
		"stored_name", storedName,
		"content_type", req.ContentType,
		"size", len(data),
	)

	if err := s.storage.Upload(ctx, s.bucket, storedName, bytes.NewReader(data), req.ContentType); err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	storageURL, err := s.storage.SignURL(ctx, s.bucket, storedName, s.signTTL)
	if err != nil {
		slog.Warn("could not sign storage url, using public url", "path", storedName, "error", err)
		storageURL = s.storage.GetPublicURL(s.bucket, storedName)
	}

	_, ext := filename.Parts(cleaned)
	doc := models.Document{
		ID:               uuid.New().String(),
		Filename:         storedName,
		OriginalFilename: meta.OriginalFilename,
		ContentType:      req.ContentType,
		FileSize:         int64(len(data)),
		FileType:         ext,
		StoragePath:      storageURL,
		FolderID:         folderID,
		FolderName:       meta.FolderName,
		IsActive:         true,
		CreatedAt:        time.Now().UTC(),
	}

	if err := s.store.Create(ctx, docstore.CollectionDocuments, doc.ID, doc); err != nil {
		// The stored object must not outlive a failed metadata write.
		if derr := s.storage.Delete(ctx, s.bucket, storedName); derr != nil {
			slog.Error("compensating storage delete failed", "path", storedName, "error", derr)
		}
		return nil, fmt.Errorf("persist document metadata: %w", err)
	}

	if s.sched != nil {
		if err := s.sched.EnqueueDocumentGenerate(doc.ID); err != nil {
			slog.Warn("failed to schedule generation", "document_id", doc.ID, "error", err)
		}
	}

	slog.Info("document created", "document_id", doc.ID, "folder_id", *folderID)
	return &doc, nil
}

// Get returns a document record by id.
func (s *Service) Get(ctx context.Context, id string) (*models.Document, error) {
	var doc models.Document
	if err := s.store.Get(ctx, docstore.CollectionDocuments, id, &doc); err != nil {
		return nil, err
	}
	doc.ID = id
	return &doc, nil
}

// Text downloads the stored bytes and extracts plain text. Unsupported
// file types yield ok=false without an error.
func (s *Service) Text(ctx context.Context, doc *models.Document) (text string, ok bool, err error) {
	rc, err := s.storage.Download(ctx, s.bucket, doc.Filename)
	if err != nil {
		return "", false, fmt.Errorf("download document: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", false, fmt.Errorf("read document: %w", err)
	}

	fileType := doc.FileType
	if fileType == "" {
		fileType = doc.ContentType
	}

	result, err := textextract.Extract(bytes.NewReader(data), int64(len(data)), fileType)
	if errors.Is(err, textextract.ErrUnsupported) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("extract text: %w", err)
	}
	return result.Content, true, nil
}
