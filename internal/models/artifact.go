package models

import "time"

// Summary is the stored summary artifact for a document, at most one per
// document id.
type Summary struct {
	DocumentID  string    `json:"document_id"`
	SummaryText string    `json:"summary_text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Insights is the stored structured-insights artifact for a document.
type Insights struct {
	DocumentID string       `json:"document_id"`
	Data       InsightsData `json:"insights_data"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// InsightsData is the structured payload extracted from a document summary.
// ConfidenceScore is always within [0, 1].
type InsightsData struct {
	DocumentType    string      `json:"document_type"`
	KeyInsights     KeyInsights `json:"key_insights"`
	ConfidenceScore float64     `json:"confidence_score"`
}

type KeyInsights struct {
	FinancialData       FinancialData `json:"financial_data"`
	CoverageDetails     []string      `json:"coverage_details"`
	CriticalInformation []string      `json:"critical_information"`
}

type FinancialData struct {
	Amounts []string `json:"amounts"`
	Dates   []string `json:"dates"`
}

// DefaultInsightsData returns the safe fallback structure used whenever a
// stored payload cannot be parsed or generation produced malformed output.
func DefaultInsightsData(note string) InsightsData {
	return InsightsData{
		DocumentType: "unknown",
		KeyInsights: KeyInsights{
			FinancialData:       FinancialData{Amounts: []string{}, Dates: []string{}},
			CoverageDetails:     []string{},
			CriticalInformation: []string{note},
		},
		ConfidenceScore: 0.0,
	}
}

// Normalize repairs a decoded payload in place: nil collections become
// empty, a missing document type becomes "unknown", and the confidence
// score is clamped into [0, 1].
func (d *InsightsData) Normalize() {
	if d.DocumentType == "" {
		d.DocumentType = "unknown"
	}
	if d.KeyInsights.FinancialData.Amounts == nil {
		d.KeyInsights.FinancialData.Amounts = []string{}
	}
	if d.KeyInsights.FinancialData.Dates == nil {
		d.KeyInsights.FinancialData.Dates = []string{}
	}
	if d.KeyInsights.CoverageDetails == nil {
		d.KeyInsights.CoverageDetails = []string{}
	}
	if d.KeyInsights.CriticalInformation == nil {
		d.KeyInsights.CriticalInformation = []string{}
	}
	if d.ConfidenceScore < 0 {
		d.ConfidenceScore = 0
	}
	if d.ConfidenceScore > 1 {
		d.ConfidenceScore = 1
	}
}

// GenerationProgress tracks the state of one background generation run.
type GenerationProgress struct {
	DocumentID  string     `json:"document_id"`
	Status      string     `json:"status"`
	Error       string     `json:"error,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

const (
	GenStatusGenerating = "generating"
	GenStatusCompleted  = "completed"
	GenStatusFailed     = "failed"
)
