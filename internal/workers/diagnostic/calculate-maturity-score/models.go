// internal/workers/diagnostic/calculate-maturity-score/models.go
package calculatematurityscore

import (
	"diagnostic-workers/internal/models"
	"diagnostic-workers/internal/scoring"
)

// Input takes answers directly or, when absent, from the validated submission.
type Input struct {
	Answers    map[string]string            `json:"answers,omitempty"`
	Submission *models.DiagnosticSubmission `json:"submission,omitempty"`
}

type Output struct {
	ScoreResult   *scoring.Result `json:"scoreResult"`
	MaturityScore int             `json:"maturityScore"`
	MaturityLevel string          `json:"maturityLevel"`
	ScoreCapped   bool            `json:"scoreCapped"`
}
