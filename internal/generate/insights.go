package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"docvault/internal/llm"
	"docvault/internal/models"
)

const insightsSystem = "You are a document analysis assistant. You extract structured insights from document summaries. " +
	"Respond with a single JSON object only, no prose and no markdown fences."

type Extractor struct {
	gw llm.Gateway
}

func NewExtractor(gw llm.Gateway) *Extractor {
	return &Extractor{gw: gw}
}

// ExtractInsights derives the structured insights record from a document
// summary. The result is always well-formed: facility failure degrades to
// pattern-based extraction, and an unparseable response degrades to the
// safe default. ConfidenceScore is clamped to [0, 1].
func (e *Extractor) ExtractInsights(ctx context.Context, summaryText, filename string) models.InsightsData {
	cleaned := strings.TrimSpace(summaryText)
	if cleaned == "" {
		return models.DefaultInsightsData("no summary text available for insights extraction")
	}

	if e.gw == nil {
		return PatternInsights(cleaned)
	}

	out, err := e.gw.Complete(ctx, llm.CompletionRequest{
		System:      insightsSystem,
		Prompt:      buildInsightsPrompt(cleaned, filename),
		MaxTokens:   1024,
		Temperature: 0.2,
	})
	if err != nil {
		slog.Warn("insights call failed, using pattern fallback", "filename", filename, "error", err)
		return PatternInsights(cleaned)
	}

	data, err := ParseInsights(out)
	if err != nil {
		slog.Warn("insights response unparseable, using safe default", "filename", filename, "error", err)
		return models.DefaultInsightsData("insights response could not be parsed: " + err.Error())
	}
	return data
}

func buildInsightsPrompt(summaryText, filename string) string {
	prefix := ""
	if filename != "" {
		prefix = "Filename: " + filename + "\n"
	}
	return fmt.Sprintf(`%sExtract insights from the following document summary. Respond with JSON matching exactly this shape:
{
  "document_type": "<classification such as policy, invoice, claim, contract, report, or unknown>",
  "key_insights": {
    "financial_data": {"amounts": ["<currency amounts found>"], "dates": ["<important dates found>"]},
    "coverage_details": ["<coverage or scope details>"],
    "critical_information": ["<free-text critical notes>"]
  },
  "confidence_score": <number between 0.0 and 1.0>
}

--- SUMMARY START ---
%s
--- SUMMARY END ---`, prefix, Truncate(summaryText))
}

// ParseInsights parses a completion response into the insights structure,
// tolerating markdown code-fence wrapping. The parsed record is normalized
// so consumers never see nil collections or an out-of-range confidence.
func ParseInsights(raw string) (models.InsightsData, error) {
	stripped := StripCodeFences(raw)

	var data models.InsightsData
	if err := json.Unmarshal([]byte(stripped), &data); err != nil {
		return models.InsightsData{}, fmt.Errorf("parse insights JSON: %w", err)
	}

	data.Normalize()
	return data, nil
}

// StripCodeFences removes a surrounding markdown code fence, with or
// without a language tag, from a completion response.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 && !strings.ContainsAny(s[:idx], "{}") {
		// Drop a language tag like "json" on the fence line.
		s = s[idx+1:]
	}
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

