package handlers

import (
	"encoding/json"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"docvault/internal/folder"
)

type FolderHandler struct {
	folders *folder.Service
}

func NewFolderHandler(folders *folder.Service) *FolderHandler {
	return &FolderHandler{folders: folders}
}

type createFolderRequest struct {
	Name     string  `json:"folder_name"`
	ParentID *string `json:"parent_folder_id"`
}

func (r createFolderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
	)
}

func (h *FolderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	f, err := h.folders.Create(r.Context(), req.Name, req.ParentID)
	if err != nil {
		writeStoreError(w, err, "folder not found")
		return
	}
	writeJSON(w, http.StatusCreated, f)
}
