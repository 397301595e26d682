package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"docvault/internal/document"
	"docvault/internal/filename"
	"docvault/internal/folder"
)

type DocumentHandler struct {
	docs           *document.Service
	folders        *folder.Service
	maxUploadBytes int64
}

func NewDocumentHandler(docs *document.Service, folders *folder.Service, maxUploadBytes int64) *DocumentHandler {
	return &DocumentHandler{docs: docs, folders: folders, maxUploadBytes: maxUploadBytes}
}

// Upload accepts a multipart form with a "file" part and optional
// "folder_name" / "folder_id" fields for placement.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "upload too large or malformed multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	req := document.UploadRequest{
		Data:        file,
		ContentType: header.Header.Get("Content-Type"),
		Filename:    header.Filename,
		FolderName:  r.FormValue("folder_name"),
	}
	if id := r.FormValue("folder_id"); id != "" {
		req.FolderID = &id
	}

	doc, err := h.docs.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, filename.ErrInvalidName) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("document upload failed", "filename", header.Filename, "error", err)
		writeStoreError(w, err, "document not found")
		return
	}

	writeJSON(w, http.StatusCreated, doc)
}

// Hierarchy returns the nested folder/file view of the whole vault.
func (h *DocumentHandler) Hierarchy(w http.ResponseWriter, r *http.Request) {
	tree, err := h.folders.BuildHierarchy(r.Context())
	if err != nil {
		writeStoreError(w, err, "hierarchy not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"hierarchy": tree})
}
