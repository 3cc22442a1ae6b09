// internal/workers/analytics/index-lead-analytics/handler.go
package indexleadanalytics

import (
	"context"
	stderrors "errors"
	"strconv"
	"time"

	"diagnostic-workers/internal/common/camunda"
	"diagnostic-workers/internal/common/errors"
	"diagnostic-workers/internal/common/logger"
	"diagnostic-workers/internal/common/metrics"
	"diagnostic-workers/internal/common/observability"
	"diagnostic-workers/internal/scoring"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "index-lead-analytics"
)

// Indexer stores a document under id. *database.ElasticsearchClient satisfies it.
type Indexer interface {
	IndexDocument(ctx context.Context, index, id string, doc interface{}) (string, error)
}

type Handler struct {
	config     *Config
	indexer    Indexer
	obs        *observability.Observability
	logger     logger.Logger
	errHandler *errors.ErrorHandler
}

// NewHandler builds the worker. A nil indexer completes every job as skipped.
func NewHandler(config *Config, indexer Indexer, obs *observability.Observability, log logger.Logger) *Handler {
	if obs == nil {
		obs = &observability.Observability{}
	}
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		indexer:    indexer,
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
	doc, err := buildDocument(input, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if h.indexer == nil {
		h.logger.Info("analytics index not configured", map[string]interface{}{"leadId": input.LeadID})
		return &Output{IndexName: h.config.IndexName, Result: resultSkipped}, nil
	}

	result, err := h.indexer.IndexDocument(ctx, h.config.IndexName, strconv.FormatInt(input.LeadID, 10), doc)
	if err != nil {
		return nil, errors.NewIndexFailedError(h.config.IndexName, err)
	}

	h.logger.Info("lead indexed", map[string]interface{}{
		"leadId": input.LeadID,
		"index":  h.config.IndexName,
		"result": result,
	})
	return &Output{Indexed: true, IndexName: h.config.IndexName, Result: result}, nil
}

func buildDocument(input *Input, now time.Time) (*LeadDocument, error) {
	var missing []string
	if input.LeadID <= 0 {
		missing = append(missing, "leadId")
	}
	if input.ScoreResult == nil {
		missing = append(missing, "scoreResult")
	}
	if len(missing) > 0 {
		return nil, errors.NewDiagnosticValidationFailedError(missing, "analytics document needs leadId and scoreResult")
	}

	answers, err := input.Submission.Answers()
	if err != nil {
		question := ""
		var answerErr *scoring.InvalidAnswerError
		if stderrors.As(err, &answerErr) {
			question = string(answerErr.Question)
		}
		return nil, errors.NewInvalidAnswerError(question, err)
	}

	s := input.Submission
	return &LeadDocument{
		LeadID:        input.LeadID,
		TotalScore:    input.ScoreResult.TotalScore,
		Nivel:         input.ScoreResult.Nivel,
		Capped:        scoring.Gated(answers),
		Subscores:     input.ScoreResult.Subscores,
		Answers:       answers.Map(),
		BusinessNiche: s.Nicho,
		Employees:     s.Funcionarios,
		UTMSource:     s.UTMSource,
		UTMMedium:     s.UTMMedium,
		UTMCampaign:   s.UTMCampaign,
		UTMTerm:       s.UTMTerm,
		UTMContent:    s.UTMContent,
		IndexedAt:     now.Format(time.RFC3339),
	}, nil
}
