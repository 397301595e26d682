package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"docvault/internal/docstore"
	"docvault/internal/document"
	"docvault/internal/folder"
	"docvault/internal/generate"
	"docvault/internal/progress"
	"docvault/internal/summary"
)

type memStorage struct {
	objects map[string][]byte
}

func (m *memStorage) Upload(ctx context.Context, bucket, path string, data io.Reader, contentType string) error {
	b, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	m.objects[path] = b
	return nil
}

func (m *memStorage) Download(ctx context.Context, bucket, path string) (io.ReadCloser, error) {
	b, ok := m.objects[path]
	if !ok {
		return nil, errors.New("object not found")
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (m *memStorage) Delete(ctx context.Context, bucket, path string) error {
	delete(m.objects, path)
	return nil
}

func (m *memStorage) SignURL(ctx context.Context, bucket, path string, ttl time.Duration) (string, error) {
	return "https://signed.test/" + path, nil
}

func (m *memStorage) GetPublicURL(bucket, path string) string {
	return "https://public.test/" + path
}

type summaryFixture struct {
	router    http.Handler
	docs      *document.Service
	summaries *summary.Service
	progress  *progress.Store
}

func newSummaryFixture() *summaryFixture {
	store := docstore.NewMemory()
	st := &memStorage{objects: make(map[string][]byte)}
	folders := folder.NewService(store)

	docs := document.NewService(store, st, folders, nil, "documents", time.Hour)
	summaries := summary.NewService(store, generate.NewSummarizer(nil))
	prog := progress.NewStore(store)

	h := NewSummaryHandler(docs, summaries, prog)
	r := chi.NewRouter()
	r.Get("/api/v1/documents/{id}/summary", h.Get)
	r.Post("/api/v1/documents/{id}/summary", h.Create)
	r.Put("/api/v1/documents/{id}/summary", h.Update)
	r.Delete("/api/v1/documents/{id}/summary", h.Delete)

	return &summaryFixture{router: r, docs: docs, summaries: summaries, progress: prog}
}

func (f *summaryFixture) get(t *testing.T, documentID string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+documentID+"/summary", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *summaryFixture) uploadTxt(t *testing.T, name, content string) string {
	t.Helper()
	doc, err := f.docs.Create(context.Background(), document.UploadRequest{
		Data:        strings.NewReader(content),
		ContentType: "text/plain",
		Filename:    name,
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	return doc.ID
}

func TestGetSummaryStored(t *testing.T) {
	f := newSummaryFixture()
	if _, err := f.summaries.Set(context.Background(), "doc-1", "stored summary"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	rec := f.get(t, "doc-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["summary_text"] != "stored summary" {
		t.Errorf("summary_text = %v", body["summary_text"])
	}
}

func TestGetSummaryWhileGenerating(t *testing.T) {
	f := newSummaryFixture()
	docID := f.uploadTxt(t, "note.txt", "content")

	if err := f.progress.Start(context.Background(), docID); err != nil {
		t.Fatalf("Start: %v", err)
	}

	rec := f.get(t, docID)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202; body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "generating") {
		t.Errorf("body %s does not report the status", rec.Body.String())
	}
}

func TestGetSummaryFailureReportedOnce(t *testing.T) {
	f := newSummaryFixture()
	docID := f.uploadTxt(t, "note.txt", "useful content")
	ctx := context.Background()

	if err := f.progress.Start(ctx, docID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := f.progress.Fail(ctx, docID, "worker exploded"); err != nil {
		t.Fatalf("Fail: %v", err)
	}

	rec := f.get(t, docID)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("first read status = %d, want 502; body %s", rec.Code, rec.Body.String())
	}

	// The failure was consumed; the next read generates synchronously.
	rec = f.get(t, docID)
	if rec.Code != http.StatusOK {
		t.Fatalf("second read status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Summary of note.txt") {
		t.Errorf("body %s is not the generated summary", rec.Body.String())
	}
}

func TestGetSummaryGeneratesSynchronously(t *testing.T) {
	f := newSummaryFixture()
	docID := f.uploadTxt(t, "note.txt", "body text")

	rec := f.get(t, docID)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Summary of note.txt") {
		t.Errorf("body %s", rec.Body.String())
	}

	// The generated summary was persisted for the next reader.
	if _, err := f.summaries.Get(context.Background(), docID); err != nil {
		t.Errorf("summary not persisted: %v", err)
	}
}

func TestGetSummaryMissingDocument(t *testing.T) {
	f := newSummaryFixture()

	rec := f.get(t, "no-such-doc")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404; body %s", rec.Code, rec.Body.String())
	}
}

func TestGetSummaryUnsupportedDocument(t *testing.T) {
	f := newSummaryFixture()
	doc, err := f.docs.Create(context.Background(), document.UploadRequest{
		Data:        strings.NewReader("binary"),
		ContentType: "image/png",
		Filename:    "photo.png",
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	rec := f.get(t, doc.ID)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422; body %s", rec.Code, rec.Body.String())
	}
}

func TestPutSummaryValidation(t *testing.T) {
	f := newSummaryFixture()

	req := httptest.NewRequest(http.MethodPut, "/api/v1/documents/doc-1/summary",
		strings.NewReader(`{"summary_text": ""}`))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body %s", rec.Code, rec.Body.String())
	}
}

func TestSummaryUpsertAndDelete(t *testing.T) {
	f := newSummaryFixture()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/doc-1/summary",
		strings.NewReader(`{"summary_text": "hand written"}`))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = f.get(t, "doc-1")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "hand written") {
		t.Fatalf("get after create: %d %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/documents/doc-1/summary", nil)
	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = f.get(t, "doc-1")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete = %d, want 404", rec.Code)
	}
}
