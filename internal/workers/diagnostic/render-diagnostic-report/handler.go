// internal/workers/diagnostic/render-diagnostic-report/handler.go
package renderdiagnosticreport

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"diagnostic-workers/internal/common/camunda"
	"diagnostic-workers/internal/common/database"
	"diagnostic-workers/internal/common/errors"
	"diagnostic-workers/internal/common/logger"
	"diagnostic-workers/internal/common/metrics"
	"diagnostic-workers/internal/common/observability"
	"diagnostic-workers/internal/leads"
	"diagnostic-workers/internal/scoring"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "render-diagnostic-report"
)

type Handler struct {
	config     *Config
	repo       *leads.Repository
	cache      redis.Cmdable
	engine     *scoring.Engine
	obs        *observability.Observability
	logger     logger.Logger
	errHandler *errors.ErrorHandler
}

// NewHandler builds the worker. A nil cache renders on every call.
func NewHandler(config *Config, db *sql.DB, cache redis.Cmdable, engine *scoring.Engine, obs *observability.Observability, log logger.Logger) *Handler {
	if obs == nil {
		obs = &observability.Observability{}
	}
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		repo:       leads.NewRepository(db),
		cache:      cache,
		engine:     engine,
		obs:        obs,
		logger:     l,
		errHandler: errors.NewErrorHandler(l),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()
	ctx, span := h.obs.StartSpan(ctx, TaskType, job.Key)

	var input Input
	err := camunda.DecodeVariables(job, &input)
	if err != nil {
		err = errors.NewInputParsingFailedError(err)
	}

	var output *Output
	if err == nil {
		output, err = h.Execute(ctx, &input)
	}

	observability.EndSpan(span, err)
	h.obs.RecordJob(ctx, TaskType, start, err)
	metrics.ObserveJob(TaskType, start, string(errors.CodeOf(err)))

	if err != nil {
		h.errHandler.HandleJobError(ctx, client, job, err)
		return
	}
	camunda.CompleteJob(ctx, client, job, output, h.logger)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	report, cached, err := h.Report(ctx, input.LeadID, input.ForceRefresh)
	if err != nil {
		return nil, err
	}
	return &Output{
		ReportKey:    CacheKey(report.LeadID),
		TotalScore:   report.TotalScore,
		Nivel:        report.Nivel,
		Cached:       cached,
		ScoreMatches: report.TotalScore == report.StoredScore,
		RenderedAt:   report.RenderedAt,
	}, nil
}

// ReportHTML returns the report document for leadID, cached when possible.
func (h *Handler) ReportHTML(ctx context.Context, leadID int64) (string, error) {
	report, _, err := h.Report(ctx, leadID, false)
	if err != nil {
		return "", err
	}
	return report.HTML, nil
}

// Report returns the rendered report for leadID, served from the cache unless refresh is set.
// Cache failures are logged and never fail the call.
func (h *Handler) Report(ctx context.Context, leadID int64, refresh bool) (*Report, bool, error) {
	if leadID <= 0 {
		return nil, false, errors.NewDiagnosticValidationFailedError([]string{"leadId"}, "leadId must be positive")
	}
	key := CacheKey(leadID)

	if h.cache != nil && !refresh {
		var cached Report
		found, err := database.GetJSON(ctx, h.cache, key, &cached)
		switch {
		case err != nil:
			h.logger.Warn("report cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
		case found:
			return &cached, true, nil
		}
	}

	lead, err := h.repo.GetByID(ctx, leadID)
	if stderrors.Is(err, leads.ErrNotFound) {
		return nil, false, errors.NewLeadNotFoundError(leadID)
	}
	if err != nil {
		return nil, false, errors.NewQueryExecutionFailedError("select_lead", err)
	}

	answers, err := lead.ScoringAnswers()
	if err != nil {
		question := ""
		var answerErr *scoring.InvalidAnswerError
		if stderrors.As(err, &answerErr) {
			question = string(answerErr.Question)
		}
		return nil, false, errors.NewInvalidAnswerError(question, err)
	}

	result, err := h.engine.Score(answers)
	if err != nil {
		return nil, false, errors.NewInvalidAnswerError("", err)
	}
	if result.TotalScore != lead.MaturityScore {
		h.logger.Warn("recomputed score differs from stored score", map[string]interface{}{
			"leadId":     leadID,
			"stored":     lead.MaturityScore,
			"recomputed": result.TotalScore,
		})
	}

	html, err := Render(lead, result)
	if err != nil {
		return nil, false, errors.NewReportRenderFailedError(err)
	}

	report := &Report{
		LeadID:      leadID,
		HTML:        html,
		TotalScore:  result.TotalScore,
		Nivel:       result.Nivel,
		StoredScore: lead.MaturityScore,
		RenderedAt:  time.Now().UTC().Format(time.RFC3339),
	}

	if h.cache != nil {
		if err := database.SetJSON(ctx, h.cache, key, report, h.config.CacheTTL); err != nil {
			h.logger.Warn("report cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
		}
	}

	h.logger.Info("report rendered", map[string]interface{}{
		"leadId":     leadID,
		"totalScore": result.TotalScore,
		"nivel":      result.Nivel,
	})
	return report, false, nil
}
