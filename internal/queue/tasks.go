package queue

// TypeDocumentGenerate asks the worker to derive the summary and insights
// artifacts for a freshly uploaded document.
const TypeDocumentGenerate = "document:generate"

type DocumentGeneratePayload struct {
	DocumentID string `json:"document_id"`
}
