package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"docvault/internal/docstore"
	"docvault/internal/document"
	"docvault/internal/folder"
	"docvault/internal/models"
)

type documentFixture struct {
	router  http.Handler
	folders *folder.Service
}

func newDocumentFixture() *documentFixture {
	store := docstore.NewMemory()
	st := &memStorage{objects: make(map[string][]byte)}
	folders := folder.NewService(store)
	docs := document.NewService(store, st, folders, nil, "documents", time.Hour)

	h := NewDocumentHandler(docs, folders, 1<<20)
	fh := NewFolderHandler(folders)

	r := chi.NewRouter()
	r.Post("/api/v1/documents", h.Upload)
	r.Get("/api/v1/documents", h.Hierarchy)
	r.Post("/api/v1/folders", fh.Create)

	return &documentFixture{router: r, folders: folders}
}

func multipartUpload(t *testing.T, filename, content string, fields map[string]string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fw, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestUploadDocument(t *testing.T) {
	f := newDocumentFixture()

	body, contentType := multipartUpload(t, "report.txt", "quarterly numbers", map[string]string{
		"folder_name": "Finance",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var doc models.Document
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if doc.OriginalFilename != "report.txt" {
		t.Errorf("original filename = %q", doc.OriginalFilename)
	}
	if doc.FolderName != "Finance" {
		t.Errorf("folder name = %q", doc.FolderName)
	}
	if doc.ID == "" {
		t.Error("no document id assigned")
	}
}

func TestUploadMissingFile(t *testing.T) {
	f := newDocumentFixture()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("folder_name", "Finance"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body %s", rec.Code, rec.Body.String())
	}
}

func TestHierarchyAfterUploads(t *testing.T) {
	f := newDocumentFixture()

	// One document with a folder prefix, one loose.
	for _, name := range []string{"Insurance/policy.txt", "loose.txt"} {
		body, contentType := multipartUpload(t, name, "content", nil)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("upload %s: %d %s", name, rec.Code, rec.Body.String())
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("hierarchy status = %d, body %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Hierarchy []models.TreeNode `json:"hierarchy"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	// Both uploads landed in the implicit Root folder; the prefix names a
	// folder for display but placement used the Root fallback.
	if len(body.Hierarchy) != 1 {
		t.Fatalf("expected the Root folder at top level, got %+v", body.Hierarchy)
	}
	root := body.Hierarchy[0]
	if root.Name != folder.RootFolderName {
		t.Errorf("top node = %q", root.Name)
	}
	if len(root.Children) != 2 {
		t.Errorf("expected 2 files under Root, got %+v", root.Children)
	}
}

func TestCreateFolderValidation(t *testing.T) {
	f := newDocumentFixture()

	tests := []struct {
		body string
		want int
	}{
		{`{"folder_name": "Taxes"}`, http.StatusCreated},
		{`{"folder_name": ""}`, http.StatusBadRequest},
		{`{not json`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/folders", strings.NewReader(tt.body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)
		if rec.Code != tt.want {
			t.Errorf("POST %s = %d, want %d; body %s", tt.body, rec.Code, tt.want, rec.Body.String())
		}
	}
}
