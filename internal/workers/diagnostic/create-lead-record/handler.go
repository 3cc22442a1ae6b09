// internal/workers/diagnostic/create-lead-record/handler.go
package createleadrecord

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"diagnostic-workers/internal/common/camunda"
	"diagnostic-workers/internal/common/errors"
	"diagnostic-workers/internal/common/logger"
	"diagnostic-workers/internal/common/metrics"
	"diagnostic-workers/internal/common/observability"
	"diagnostic-workers/internal/leads"
	"diagnostic-workers/internal/models"
	"diagnostic-workers/internal/scoring"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "create-lead-record"
)

type Handler struct {
	config     *Config
	repo       *leads.Repository
	obs        *observability.Observability
	logger     logger.Logger
	errHandler *errors.ErrorHandler
}

func NewHandler(config *Config, db *sql.DB, obs *observability.Observability, log logger.Logger) *Handler {
	if obs == nil {
		obs = &observability.Observability{}
	}
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		repo:       leads.NewRepository(db),
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

// Execute stores the lead with its maturity score. The audit entry is best effort.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := checkInput(input); err != nil {
		return nil, err
	}

	lead := models.NewLead(input.Submission, *input.MaturityScore)
	if err := h.repo.Insert(ctx, &lead); err != nil {
		return nil, errors.NewDatabaseInsertFailedError(err)
	}

	if err := h.repo.Audit(ctx, lead.ID, auditActionCreated, map[string]interface{}{
		"maturityScore": lead.MaturityScore,
		"utmSource":     lead.UTMSource,
		"utmCampaign":   lead.UTMCampaign,
	}); err != nil {
		h.logger.Warn("audit log insert failed", map[string]interface{}{
			"error":  err,
			"leadId": lead.ID,
		})
	}

	h.logger.Info("lead record created", map[string]interface{}{
		"leadId":        lead.ID,
		"maturityScore": lead.MaturityScore,
	})

	return &Output{
		LeadID:       lead.ID,
		LeadStatus:   StatusStored,
		RegisterDate: lead.RegisterDate.UTC().Format(time.RFC3339),
	}, nil
}

func checkInput(input *Input) error {
	var missing []string
	if strings.TrimSpace(input.Submission.Nome) == "" {
		missing = append(missing, "nome")
	}
	if strings.TrimSpace(input.Submission.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(input.Submission.WhatsApp) == "" {
		missing = append(missing, "whatsapp")
	}
	if input.MaturityScore == nil {
		missing = append(missing, "maturityScore")
	}
	if len(missing) > 0 {
		return errors.NewDiagnosticValidationFailedError(missing, "required lead fields missing: "+strings.Join(missing, ", "))
	}

	if score := *input.MaturityScore; score < 0 || score > 100 {
		return errors.NewDiagnosticValidationFailedError([]string{"maturityScore"},
			fmt.Sprintf("maturityScore %d outside 0-100", score))
	}

	if _, err := input.Submission.Answers(); err != nil {
		question := ""
		var answerErr *scoring.InvalidAnswerError
		if stderrors.As(err, &answerErr) {
			question = string(answerErr.Question)
		}
		return errors.NewInvalidAnswerError(question, err)
	}
	return nil
}
