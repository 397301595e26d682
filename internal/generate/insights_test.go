package generate

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestExtractInsightsEmptySummary(t *testing.T) {
	e := NewExtractor(&stubGateway{response: "unused"})

	got := e.ExtractInsights(context.Background(), "  ", "file.pdf")
	if got.DocumentType != "unknown" {
		t.Errorf("document_type = %q", got.DocumentType)
	}
	if got.ConfidenceScore != 0 {
		t.Errorf("confidence = %v, want 0", got.ConfidenceScore)
	}
}

func TestExtractInsightsParsesResponse(t *testing.T) {
	gw := &stubGateway{response: `{
		"document_type": "invoice",
		"key_insights": {
			"financial_data": {"amounts": ["$100"], "dates": ["2024-05-01"]},
			"coverage_details": [],
			"critical_information": ["pay within 30 days"]
		},
		"confidence_score": 0.85
	}`}
	e := NewExtractor(gw)

	got := e.ExtractInsights(context.Background(), "summary text", "invoice.pdf")
	if got.DocumentType != "invoice" {
		t.Errorf("document_type = %q", got.DocumentType)
	}
	if got.ConfidenceScore != 0.85 {
		t.Errorf("confidence = %v", got.ConfidenceScore)
	}
	if !strings.Contains(gw.lastReq.Prompt, "summary text") {
		t.Error("prompt does not carry the summary")
	}
}

func TestExtractInsightsFallsBackToPatterns(t *testing.T) {
	gw := &stubGateway{err: errors.New("provider down")}
	e := NewExtractor(gw)

	got := e.ExtractInsights(context.Background(), "Premium of $1,250.50 due on 2024-03-15.", "policy.pdf")
	if got.ConfidenceScore != patternConfidence {
		t.Errorf("confidence = %v, want %v", got.ConfidenceScore, patternConfidence)
	}
	if len(got.KeyInsights.FinancialData.Amounts) != 1 || got.KeyInsights.FinancialData.Amounts[0] != "$1,250.50" {
		t.Errorf("amounts = %v", got.KeyInsights.FinancialData.Amounts)
	}
	if len(got.KeyInsights.FinancialData.Dates) != 1 || got.KeyInsights.FinancialData.Dates[0] != "2024-03-15" {
		t.Errorf("dates = %v", got.KeyInsights.FinancialData.Dates)
	}
}

func TestExtractInsightsUnparseableResponse(t *testing.T) {
	gw := &stubGateway{response: "I cannot answer in JSON, sorry."}
	e := NewExtractor(gw)

	got := e.ExtractInsights(context.Background(), "summary", "file.pdf")
	if got.DocumentType != "unknown" {
		t.Errorf("document_type = %q, want safe default", got.DocumentType)
	}
	if len(got.KeyInsights.CriticalInformation) == 0 {
		t.Error("safe default should explain itself in critical_information")
	}
}

func TestParseInsightsNormalizes(t *testing.T) {
	got, err := ParseInsights(`{"document_type": "", "confidence_score": 2.5}`)
	if err != nil {
		t.Fatalf("ParseInsights: %v", err)
	}
	if got.DocumentType != "unknown" {
		t.Errorf("document_type = %q", got.DocumentType)
	}
	if got.ConfidenceScore != 1 {
		t.Errorf("confidence = %v, want clamped to 1", got.ConfidenceScore)
	}
	if got.KeyInsights.FinancialData.Amounts == nil {
		t.Error("nil amounts must become an empty slice")
	}
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", `{"a": 1}`, `{"a": 1}`},
		{"plain fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fence with surrounding space", "  ```json\n{\"a\": 1}\n```  ", `{"a": 1}`},
		{"single line fence", "```{\"a\": 1}```", `{"a": 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripCodeFences(tt.in); got != tt.want {
				t.Errorf("StripCodeFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
