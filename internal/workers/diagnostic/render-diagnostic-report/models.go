// internal/workers/diagnostic/render-diagnostic-report/models.go
package renderdiagnosticreport

import (
	"strconv"

	"diagnostic-workers/internal/scoring"
)

type Input struct {
	LeadID       int64 `json:"leadId"`
	ForceRefresh bool  `json:"forceRefresh,omitempty"`
}

type Output struct {
	ReportKey    string        `json:"reportKey"`
	TotalScore   int           `json:"reportTotalScore"`
	Nivel        scoring.Level `json:"reportNivel"`
	Cached       bool          `json:"reportCached"`
	ScoreMatches bool          `json:"reportScoreMatches"`
	RenderedAt   string        `json:"reportRenderedAt"`
}

// Report is the rendered document as stored in the cache.
type Report struct {
	LeadID      int64         `json:"leadId"`
	HTML        string        `json:"html"`
	TotalScore  int           `json:"totalScore"`
	Nivel       scoring.Level `json:"nivel"`
	StoredScore int           `json:"storedScore"`
	RenderedAt  string        `json:"renderedAt"`
}

// CacheKey is the Redis key holding the report for leadID.
func CacheKey(leadID int64) string {
	return "report:" + strconv.FormatInt(leadID, 10)
}
