package folder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"docvault/internal/docstore"
	"docvault/internal/models"
)

// BuildHierarchy assembles the nested folder/file view from the flat active
// folder and document collections. The view is built fresh on every call.
//
// Ordering: root folders come before loose root-level files; within a
// folder, files come before nested sub-folders; siblings keep the order of
// the underlying scan. An empty vault yields an empty (non-nil) slice.
func (s *Service) BuildHierarchy(ctx context.Context) ([]models.TreeNode, error) {
	folderRecs, err := s.store.Scan(ctx, docstore.CollectionFolders, docstore.ActiveOnly)
	if err != nil {
		return nil, fmt.Errorf("scan folders: %w", err)
	}
	docRecs, err := s.store.Scan(ctx, docstore.CollectionDocuments, docstore.ActiveOnly)
	if err != nil {
		return nil, fmt.Errorf("scan documents: %w", err)
	}

	byID := make(map[string]models.Folder, len(folderRecs))
	childFolders := make(map[string][]models.Folder)
	var roots []models.Folder
	for _, rec := range folderRecs {
		var f models.Folder
		if err := rec.Decode(&f); err != nil {
			slog.Warn("skipping undecodable folder record", "id", rec.ID, "error", err)
			continue
		}
		f.ID = rec.ID
		byID[f.ID] = f
		if f.ParentID == nil {
			roots = append(roots, f)
		} else {
			childFolders[*f.ParentID] = append(childFolders[*f.ParentID], f)
		}
	}

	docsByFolder := make(map[string][]models.Document)
	var loose []models.Document
	for _, rec := range docRecs {
		var d models.Document
		if err := rec.Decode(&d); err != nil {
			slog.Warn("skipping undecodable document record", "id", rec.ID, "error", err)
			continue
		}
		d.ID = rec.ID
		// Documents pointing at no folder, or at a folder id the scan does
		// not know, surface as loose root-level files.
		if d.FolderID == nil {
			loose = append(loose, d)
			continue
		}
		if _, known := byID[*d.FolderID]; !known {
			loose = append(loose, d)
			continue
		}
		docsByFolder[*d.FolderID] = append(docsByFolder[*d.FolderID], d)
	}

	b := &treeBuilder{childFolders: childFolders, docsByFolder: docsByFolder}

	result := []models.TreeNode{}
	for _, f := range roots {
		result = append(result, b.folderNode(f, map[string]bool{}))
	}
	for _, d := range loose {
		result = append(result, fileNode(d))
	}
	return result, nil
}

type treeBuilder struct {
	childFolders map[string][]models.Folder
	docsByFolder map[string][]models.Document
}

// folderNode expands one folder recursively. onPath carries the folder ids
// of the current recursion path: parent references are not validated at
// write time, so a cycle in the data must be cut here instead of recursing
// forever.
func (b *treeBuilder) folderNode(f models.Folder, onPath map[string]bool) models.TreeNode {
	node := models.TreeNode{
		Type:      models.NodeTypeFolder,
		ID:        f.ID,
		Name:      f.Name,
		CreatedAt: f.CreatedAt,
		Children:  []models.TreeNode{},
	}

	onPath[f.ID] = true
	defer delete(onPath, f.ID)

	for _, d := range b.docsByFolder[f.ID] {
		node.Children = append(node.Children, fileNode(d))
	}
	for _, child := range b.childFolders[f.ID] {
		if onPath[child.ID] {
			slog.Warn("folder cycle detected, not descending", "folder_id", child.ID, "parent_id", f.ID)
			continue
		}
		node.Children = append(node.Children, b.folderNode(child, onPath))
	}
	return node
}

func fileNode(d models.Document) models.TreeNode {
	return models.TreeNode{
		Type:        models.NodeTypeFile,
		ID:          d.ID,
		Name:        d.OriginalFilename,
		CreatedAt:   d.CreatedAt,
		FileType:    strings.TrimPrefix(strings.ToLower(d.FileType), "."),
		StoragePath: d.StoragePath,
	}
}
