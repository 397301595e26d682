package generate

import (
	"fmt"
	"regexp"
	"strings"

	"docvault/internal/models"
)

const (
	previewChars = 500

	// Pattern-based extraction never sees the document the way a model
	// would; its confidence is fixed low.
	patternConfidence = 0.3
)

var (
	amountPattern = regexp.MustCompile(`\$\s?\d[\d,]*(?:\.\d{1,2})?`)
	datePattern   = regexp.MustCompile(`(?i)\b(?:\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|\d{4}-\d{2}-\d{2}|(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.? \d{1,2},? \d{4})\b`)
)

// FallbackSummary is the deterministic preview used when the completion
// facility is unavailable: a title line plus the leading content, nothing
// invented.
func FallbackSummary(text, filename string) string {
	title := "Document"
	if filename != "" {
		title = filename
	}

	preview := strings.TrimSpace(text)
	if len(preview) > previewChars {
		preview = preview[:previewChars] + "..."
	}
	return fmt.Sprintf("Summary of %s:\n%s", title, preview)
}

// PatternInsights extracts currency amounts and dates that literally appear
// in the text. It never invents values beyond what pattern-matches.
func PatternInsights(text string) models.InsightsData {
	return models.InsightsData{
		DocumentType: "unknown",
		KeyInsights: models.KeyInsights{
			FinancialData: models.FinancialData{
				Amounts: dedupe(amountPattern.FindAllString(text, -1)),
				Dates:   dedupe(datePattern.FindAllString(text, -1)),
			},
			CoverageDetails:     []string{},
			CriticalInformation: []string{"Insights derived by pattern matching; completion facility unavailable."},
		},
		ConfidenceScore: patternConfidence,
	}
}

func dedupe(values []string) []string {
	out := []string{}
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
