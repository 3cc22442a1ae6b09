// internal/workers/communication/send-diagnostic-summary/models.go
package senddiagnosticsummary

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
	NotificationID string `json:"notificationId"`
	EmailStatus    string `json:"emailStatus"`
	SMSStatus      string `json:"smsStatus"`
	SentAt         string `json:"sentAt"` // ISO 8601
}

const (
	StatusSent        = "sent"
	StatusAlreadySent = "already_sent"
	StatusDisabled    = "disabled"
	StatusFailed      = "failed"
)

const (
	channelEmail = "email"
	channelSMS   = "sms"
)
