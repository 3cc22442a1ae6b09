// internal/workers/analytics/index-lead-analytics/models.go
package indexleadanalytics

import (
	"diagnostic-workers/internal/models"
	"diagnostic-workers/internal/scoring"
)

type Input struct {
	LeadID      int64                       `json:"leadId"`
	Submission  models.DiagnosticSubmission `json:"submission"`
	ScoreResult *scoring.Result             `json:"scoreResult"`
}

type Output struct {
	Indexed   bool   `json:"indexed"`
	IndexName string `json:"indexName"`
	Result    string `json:"indexResult"`
}

// LeadDocument is the analytics view of one lead.
type LeadDocument struct {
	LeadID        int64             `json:"leadId"`
	TotalScore    int               `json:"totalScore"`
	Nivel         scoring.Level     `json:"nivel"`
	Capped        bool              `json:"capped"`
	Subscores     scoring.Subscores `json:"subscores"`
	Answers       map[string]string `json:"answers"`
	BusinessNiche string            `json:"business_niche,omitempty"`
	Employees     string            `json:"employees,omitempty"`
	UTMSource     string            `json:"utm_source,omitempty"`
	UTMMedium     string            `json:"utm_medium,omitempty"`
	UTMCampaign   string            `json:"utm_campaign,omitempty"`
	UTMTerm       string            `json:"utm_term,omitempty"`
	UTMContent    string            `json:"utm_content,omitempty"`
	IndexedAt     string            `json:"indexedAt"`
}

const resultSkipped = "skipped"
