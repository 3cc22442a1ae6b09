// internal/workers/diagnostic/calculate-maturity-score/handler.go
package calculatematurityscore

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
	TaskType = "calculate-maturity-score"
)

type Handler struct {
	config     *Config
	engine     *scoring.Engine
	obs        *observability.Observability
	logger     logger.Logger
	errHandler *errors.ErrorHandler
}

func NewHandler(config *Config, engine *scoring.Engine, obs *observability.Observability, log logger.Logger) *Handler {
	if obs == nil {
		obs = &observability.Observability{}
	}
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
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

// Execute scores the answers. Missing or out-of-range answers fail with a
// non-retryable INVALID_ANSWER; nothing is defaulted.
func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	raw := input.Answers
	if raw == nil && input.Submission != nil {
		raw = input.Submission.AnswerMap()
	}

	answers, err := scoring.ParseAnswers(raw)
	if err != nil {
		return nil, invalidAnswer(err)
	}

	result, err := h.engine.Score(answers)
	if err != nil {
		return nil, invalidAnswer(err)
	}

	capped := scoring.Gated(answers)
	metrics.DiagnosticsScored.WithLabelValues(string(result.Nivel), strconv.FormatBool(capped)).Inc()
	metrics.DiagnosticTotalScore.Observe(float64(result.TotalScore))

	h.logger.Info("diagnostic scored", map[string]interface{}{
		"totalScore":       result.TotalScore,
		"nivel":            string(result.Nivel),
		"plataforma":       result.Subscores.Plataforma,
		"praticaAnalitica": result.Subscores.PraticaAnalitica,
		"insight":          result.Subscores.Insight,
		"capped":           capped,
	})

	return &Output{
		ScoreResult:   result,
		MaturityScore: result.TotalScore,
		MaturityLevel: string(result.Nivel),
		ScoreCapped:   capped,
	}, nil
}

func invalidAnswer(err error) error {
	question := ""
	var answerErr *scoring.InvalidAnswerError
	if stderrors.As(err, &answerErr) {
		question = string(answerErr.Question)
	}
	return errors.NewInvalidAnswerError(question, err)
}
