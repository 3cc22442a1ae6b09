// internal/workers/diagnostic/create-lead-record/models.go
package createleadrecord

import "diagnostic-workers/internal/models"

type Input struct {
	Submission    models.DiagnosticSubmission `json:"submission"`
	MaturityScore *int                        `json:"maturityScore"`
}

type Output struct {
	LeadID       int64  `json:"leadId"`
	LeadStatus   string `json:"leadStatus"`
	RegisterDate string `json:"registerDate"` // ISO 8601
}

const (
	StatusStored = "stored"

	auditActionCreated = "lead_created"
)
