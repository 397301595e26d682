// Package generate turns extracted document text into derived artifacts:
// a summary and a structured insights record. The completion facility is
// never load-bearing; every path degrades to a deterministic fallback.
package generate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"docvault/internal/llm"
)

const (
	// Input text is truncated at a fixed character budget before prompting
	// so prompt size stays bounded regardless of document size.
	maxPromptChars = 20000

	truncationMarker = "\n[TRUNCATED]"

	summarySystem = "You are an efficient summarization assistant. Produce a concise, structured summary with: " +
		"1) Title (if derivable), 2) TL;DR (1 sentence), 3) Key Points (bullet list), 4) Action Items if any. " +
		"Keep factual, do not hallucinate."
)

type Summarizer struct {
	gw llm.Gateway
}

func NewSummarizer(gw llm.Gateway) *Summarizer {
	return &Summarizer{gw: gw}
}

// Summarize produces a summary for the given document text. Facility
// failure is not an error: the result falls back to a deterministic preview
// of the content.
func (s *Summarizer) Summarize(ctx context.Context, text, filename string) string {
	cleaned := strings.TrimSpace(text)
	if cleaned == "" {
		return ""
	}

	if s.gw == nil {
		return FallbackSummary(cleaned, filename)
	}

	out, err := s.gw.Complete(ctx, llm.CompletionRequest{
		System:      summarySystem,
		Prompt:      buildSummaryPrompt(cleaned, filename),
		MaxTokens:   1024,
		Temperature: 0.3,
	})
	if err != nil {
		slog.Warn("summarization call failed, using fallback", "filename", filename, "error", err)
		return FallbackSummary(cleaned, filename)
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return FallbackSummary(cleaned, filename)
	}
	return out
}

func buildSummaryPrompt(text, filename string) string {
	prefix := ""
	if filename != "" {
		prefix = "Filename: " + filename + "\n"
	}
	return fmt.Sprintf("%sPlease summarize the following document.\n\n--- DOCUMENT START ---\n%s\n--- DOCUMENT END ---",
		prefix, Truncate(text))
}

// Truncate bounds text at the prompt character budget, appending the
// truncation marker when anything was cut.
func Truncate(text string) string {
	if len(text) <= maxPromptChars {
		return text
	}
	return text[:maxPromptChars] + truncationMarker
}
