// internal/workers/crm/register-crm-conversion/models.go
package registercrmconversion

import "diagnostic-workers/internal/models"

type Input struct {
	LeadID     int64                       `json:"leadId"`
	Submission models.DiagnosticSubmission `json:"submission"`
}

type Output struct {
	ConversionRegistered bool   `json:"conversionRegistered"`
	EventUUID            string `json:"eventUuid,omitempty"`
	CorrelationID        string `json:"crmCorrelationId"`
	Reason               string `json:"crmReason,omitempty"`
}

// Outcome label values for metrics.CRMConversions.
const (
	OutcomeRegistered = "registered"
	OutcomeSkipped    = "skipped"
	OutcomeFailed     = "failed"
)
