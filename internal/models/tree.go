package models

import "time"

const (
	NodeTypeFolder = "folder"
	NodeTypeFile   = "file"
)

// TreeNode is one entry in the hierarchy listing. Type discriminates folder
// nodes (Children populated) from file nodes (FileType and StoragePath set).
// Nodes are built fresh on every listing request and never persisted.
type TreeNode struct {
	Type        string     `json:"type"`
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	CreatedAt   time.Time  `json:"created_at"`
	FileType    string     `json:"file_type,omitempty"`
	StoragePath string     `json:"storage_path,omitempty"`
	Children    []TreeNode `json:"children,omitempty"`
}
