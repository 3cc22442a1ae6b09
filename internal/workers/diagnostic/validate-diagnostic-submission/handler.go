// internal/workers/diagnostic/validate-diagnostic-submission/handler.go
package validatediagnosticsubmission

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"diagnostic-workers/internal/common/camunda"
	"diagnostic-workers/internal/common/errors"
	"diagnostic-workers/internal/common/logger"
	"diagnostic-workers/internal/common/metrics"
	"diagnostic-workers/internal/common/observability"
	"diagnostic-workers/internal/common/validation"
	"diagnostic-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "validate-diagnostic-submission"
)

type Handler struct {
	config     *Config
	obs        *observability.Observability
	logger     logger.Logger
	errHandler *errors.ErrorHandler
}

func NewHandler(config *Config, obs *observability.Observability, log logger.Logger) *Handler {
	if obs == nil {
		obs = &observability.Observability{}
	}
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
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
		output, err = h.Execute(ctx, input)
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

// Execute normalises the submission and validates it. Every offending field
// is reported in one DIAGNOSTIC_VALIDATION_FAILED error.
func (h *Handler) Execute(_ context.Context, input Input) (*Output, error) {
	normalized := normalize(input)

	result := validation.ValidateInput(normalized, submissionSchema)
	if !result.Valid {
		fields := result.Fields()
		h.logger.Warn("submission rejected", map[string]interface{}{
			"fields":     fields,
			"errorCount": len(result.Errors),
		})
		return nil, errors.NewDiagnosticValidationFailedError(fields, strings.Join(result.GetErrorMessages(), "; ")).
			WithMetadata("validationErrors", result.Errors)
	}

	var submission models.DiagnosticSubmission
	data, err := json.Marshal(normalized)
	if err != nil {
		return nil, errors.NewInputParsingFailedError(err)
	}
	if err := json.Unmarshal(data, &submission); err != nil {
		return nil, errors.NewInputParsingFailedError(fmt.Errorf("decode submission: %w", err))
	}

	digits := validation.CleanWhatsApp(submission.WhatsApp)
	submission.WhatsApp = validation.FormatWhatsApp(submission.WhatsApp)
	submission.Email = strings.ToLower(submission.Email)

	h.logger.Info("submission validated", map[string]interface{}{
		"email":   submission.Email,
		"empresa": submission.Empresa,
	})

	return &Output{
		IsValid:        true,
		Submission:     submission,
		Answers:        submission.AnswerMap(),
		WhatsAppDigits: digits,
	}, nil
}

// normalize trims every string and upper-cases the answer fields.
func normalize(input Input) map[string]interface{} {
	out := make(map[string]interface{}, len(input))
	for k, v := range input {
		s, ok := v.(string)
		if !ok {
			out[k] = v
			continue
		}
		s = strings.TrimSpace(s)
		if len(k) == 2 && k[0] == 'Q' {
			s = strings.ToUpper(s)
		}
		out[k] = s
	}
	return out
}
