// Package folder manages the folder hierarchy: folder creation, the
// implicit Root folder for placement-less uploads, and assembly of the
// nested hierarchy view from the flat folder and document collections.
package folder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"docvault/internal/docstore"
	"docvault/internal/models"
)

// RootFolderName is the implicit folder used when an upload supplies no
// placement.
const RootFolderName = "Root"

type Service struct {
	store docstore.Store
}

func NewService(store docstore.Store) *Service {
	return &Service{store: store}
}

// Create persists a new folder. parentID nil places it at root level. The
// parent reference is not validated for existence or cycles here; the
// hierarchy assembler defends against bad references at read time.
func (s *Service) Create(ctx context.Context, name string, parentID *string) (*models.Folder, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("folder name must not be empty")
	}

	f := models.Folder{
		ID:        uuid.New().String(),
		Name:      name,
		ParentID:  parentID,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.Create(ctx, docstore.CollectionFolders, f.ID, f); err != nil {
		return nil, fmt.Errorf("create folder: %w", err)
	}
	return &f, nil
}

// Get returns a folder by id.
func (s *Service) Get(ctx context.Context, id string) (*models.Folder, error) {
	var f models.Folder
	if err := s.store.Get(ctx, docstore.CollectionFolders, id, &f); err != nil {
		return nil, err
	}
	f.ID = id
	return &f, nil
}

// EnsureRoot returns the id of the implicit Root folder, creating it when
// none exists yet.
func (s *Service) EnsureRoot(ctx context.Context) (string, error) {
	records, err := s.store.Scan(ctx, docstore.CollectionFolders, docstore.ActiveOnly)
	if err != nil {
		return "", fmt.Errorf("scan folders: %w", err)
	}

	for _, rec := range records {
		var f models.Folder
		if rec.Decode(&f) != nil {
			continue
		}
		if f.Name == RootFolderName && f.ParentID == nil {
			return rec.ID, nil
		}
	}

	f, err := s.Create(ctx, RootFolderName, nil)
	if err != nil {
		return "", err
	}
	return f.ID, nil
}
