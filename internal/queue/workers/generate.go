package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hibiken/asynq"

	"docvault/internal/document"
	"docvault/internal/insights"
	"docvault/internal/progress"
	"docvault/internal/queue"
	"docvault/internal/summary"
)

// GenerateWorker derives the summary and insights artifacts for a document
// in the background. The progress marker transitions strictly after the
// artifact writes have been attempted.
type GenerateWorker struct {
	docs      *document.Service
	summaries *summary.Service
	insights  *insights.Service
	progress  *progress.Store
}

func NewGenerateWorker(docs *document.Service, sums *summary.Service, ins *insights.Service, prog *progress.Store) *GenerateWorker {
	return &GenerateWorker{
		docs:      docs,
		summaries: sums,
		insights:  ins,
		progress:  prog,
	}
}

func (w *GenerateWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.DocumentGeneratePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	docID := payload.DocumentID

	slog.Info("generating artifacts", "document_id", docID)

	if err := w.progress.Start(ctx, docID); err != nil {
		return fmt.Errorf("start progress marker: %w", err)
	}

	doc, err := w.docs.Get(ctx, docID)
	if err != nil {
		return w.fail(ctx, docID, fmt.Errorf("get document: %w", err))
	}

	text, ok, err := w.docs.Text(ctx, doc)
	if err != nil {
		return w.fail(ctx, docID, fmt.Errorf("extract text: %w", err))
	}
	if !ok || strings.TrimSpace(text) == "" {
		// Nothing to generate from; a retry will not change that.
		if ferr := w.progress.Fail(ctx, docID, "document has no extractable text"); ferr != nil {
			slog.Warn("failed to record progress failure", "document_id", docID, "error", ferr)
		}
		return nil
	}

	summaryText := w.summaries.GetOrGenerate(ctx, docID, text, doc.OriginalFilename)
	w.insights.GetOrGenerate(ctx, docID, summaryText, doc.OriginalFilename)

	if err := w.progress.Complete(ctx, docID); err != nil {
		slog.Warn("failed to record progress completion", "document_id", docID, "error", err)
	}

	slog.Info("artifacts generated", "document_id", docID)
	return nil
}

// fail records the failure on the marker and returns the cause so asynq
// retries transient problems.
func (w *GenerateWorker) fail(ctx context.Context, docID string, cause error) error {
	if err := w.progress.Fail(ctx, docID, cause.Error()); err != nil {
		slog.Warn("failed to record progress failure", "document_id", docID, "error", err)
	}
	return cause
}
