// internal/workers/crm/register-crm-conversion/handler.go
package registercrmconversion

import (
	"context"
	stderrors "errors"
	"time"

	"diagnostic-workers/internal/common/camunda"
	"diagnostic-workers/internal/common/errors"
	"diagnostic-workers/internal/common/logger"
	"diagnostic-workers/internal/common/metrics"
	"diagnostic-workers/internal/common/observability"
	"diagnostic-workers/internal/common/rdstation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "register-crm-conversion"
)

// Registrar forwards a conversion to the CRM. *rdstation.Client satisfies it.
type Registrar interface {
	RegisterConversion(ctx context.Context, conv rdstation.Conversion) (*rdstation.EventResult, error)
}

type Handler struct {
	config     *Config
	crm        Registrar
	obs        *observability.Observability
	logger     logger.Logger
	errHandler *errors.ErrorHandler
}

func NewHandler(config *Config, crm Registrar, obs *observability.Observability, log logger.Logger) *Handler {
	if obs == nil {
		obs = &observability.Observability{}
	}
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		crm:        crm,
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

// Execute registers the lead as a CRM conversion. The lead is already stored
// when this runs, so CRM problems are reported in the output and never fail the job.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	output := &Output{CorrelationID: uuid.New().String()}
	fields := map[string]interface{}{
		"leadId":        input.LeadID,
		"correlationId": output.CorrelationID,
	}

	if !h.config.Enabled || h.crm == nil {
		output.Reason = "crm integration disabled"
		metrics.CRMConversions.WithLabelValues(OutcomeSkipped).Inc()
		h.logger.Info("crm conversion skipped", fields)
		return output, nil
	}

	s := input.Submission
	result, err := h.crm.RegisterConversion(ctx, rdstation.Conversion{
		Email:        s.Email,
		Name:         s.Nome,
		Phone:        s.WhatsApp,
		CompanyName:  s.Empresa,
		BusinessSize: s.Funcionarios,
		UTMSource:    s.UTMSource,
		UTMMedium:    s.UTMMedium,
		UTMCampaign:  s.UTMCampaign,
		UTMAdset:     s.UTMAdset,
		UTMAd:        s.UTMAd,
	})

	switch {
	case stderrors.Is(err, rdstation.ErrMissingRequiredFields):
		output.Reason = err.Error()
		metrics.CRMConversions.WithLabelValues(OutcomeSkipped).Inc()
		h.logger.Warn("crm conversion skipped", withError(fields, err))
		return output, nil
	case err != nil:
		output.Reason = reason(err)
		metrics.CRMConversions.WithLabelValues(OutcomeFailed).Inc()
		h.logger.Warn("crm conversion failed", withError(fields, err))
		return output, nil
	}

	output.ConversionRegistered = true
	output.EventUUID = result.EventUUID
	metrics.CRMConversions.WithLabelValues(OutcomeRegistered).Inc()
	h.logger.Info("crm conversion registered", map[string]interface{}{
		"leadId":    input.LeadID,
		"eventUuid": result.EventUUID,
	})
	return output, nil
}

// reason classifies err with the shared error codes so the process can report it.
func reason(err error) string {
	stdErr := errors.NewCRMAPIError(err)
	if stderrors.Is(err, rdstation.ErrNoToken) {
		stdErr = errors.NewCRMTokenUnavailableError(err.Error())
	}
	return string(stdErr.Code) + ": " + stdErr.Details
}

func withError(fields map[string]interface{}, err error) map[string]interface{} {
	out := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out["error"] = err.Error()
	return out
}
