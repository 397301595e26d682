package models

import "time"

// Document is the metadata record for an uploaded file. Filename is the
// unique generated storage key; OriginalFilename is the human name as the
// client supplied it (folder prefix stripped).
type Document struct {
	ID               string    `json:"id"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"original_filename"`
	ContentType      string    `json:"content_type"`
	FileSize         int64     `json:"file_size"`
	FileType         string    `json:"file_type"`
	StoragePath      string    `json:"storage_path"`
	FolderID         *string   `json:"folder_id"`
	FolderName       string    `json:"folder_name,omitempty"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
}
