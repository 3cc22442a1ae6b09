// internal/workers/communication/send-diagnostic-summary/handler.go
package senddiagnosticsummary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"diagnostic-workers/internal/common/camunda"
	"diagnostic-workers/internal/common/errors"
	"diagnostic-workers/internal/common/logger"
	"diagnostic-workers/internal/common/metrics"
	"diagnostic-workers/internal/common/observability"
	"diagnostic-workers/internal/common/validation"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const (
	TaskType = "send-diagnostic-summary"
)

// Define interfaces for mocking
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Handler struct {
	config     *Config
	sesClient  SESService
	snsClient  SNSService
	sent       redis.Cmdable
	obs        *observability.Observability
	logger     logger.Logger
	errHandler *errors.ErrorHandler
}

// NewHandler builds the worker. sent records delivered channels per lead so a
// retried job does not resend them; nil disables the check.
func NewHandler(config *Config, sesClient SESService, snsClient SNSService, sent redis.Cmdable, obs *observability.Observability, log logger.Logger) *Handler {
	if obs == nil {
		obs = &observability.Observability{}
	}
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		sesClient:  sesClient,
		snsClient:  snsClient,
		sent:       sent,
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

// Execute sends the score summary by e-mail and, when enabled, by SMS.
// Both channels are sent concurrently; any failure fails the whole job so it is
// retried. Channels already delivered for the lead are skipped on the retry.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.ScoreResult == nil {
		return nil, errors.NewDiagnosticValidationFailedError([]string{"scoreResult"}, "scoreResult is required")
	}

	msg, err := render(newMessageData(input, h.reportURL(input.LeadID)))
	if err != nil {
		return nil, fmt.Errorf("render summary: %w", err)
	}

	output := &Output{
		NotificationID: uuid.New().String(),
		EmailStatus:    StatusDisabled,
		SMSStatus:      StatusDisabled,
	}

	email := strings.TrimSpace(input.Submission.Email)
	phone := validation.E164BR(input.Submission.WhatsApp)

	g, gctx := errgroup.WithContext(ctx)

	if h.config.EmailEnabled && h.sesClient != nil && email != "" {
		g.Go(func() error {
			return h.deliver(ctx, gctx, input.LeadID, channelEmail, &output.EmailStatus, func(c context.Context) error {
				return h.sendEmail(c, email, msg.Subject, msg.Body)
			})
		})
	}

	if h.config.SMSEnabled && h.snsClient != nil && phone != "" {
		g.Go(func() error {
			return h.deliver(ctx, gctx, input.LeadID, channelSMS, &output.SMSStatus, func(c context.Context) error {
				return h.sendSMS(c, phone, msg.SMS)
			})
		})
	}

	err = g.Wait()
	metrics.NotificationsSent.WithLabelValues(channelEmail, output.EmailStatus).Inc()
	metrics.NotificationsSent.WithLabelValues(channelSMS, output.SMSStatus).Inc()

	if err != nil {
		chErr := err.(*channelError)
		h.logger.Error("summary send failed", map[string]interface{}{
			"leadId":  input.LeadID,
			"channel": chErr.channel,
			"error":   chErr.err.Error(),
		})
		return nil, errors.NewNotificationSendFailedError(chErr.channel, chErr.err)
	}

	output.SentAt = time.Now().UTC().Format(time.RFC3339)
	h.logger.Info("summary sent", map[string]interface{}{
		"leadId":         input.LeadID,
		"notificationId": output.NotificationID,
		"emailStatus":    output.EmailStatus,
		"smsStatus":      output.SMSStatus,
	})
	return output, nil
}

// deliver sends one channel unless it was already delivered for leadID, and
// records a successful send. The record is written with ctx, not the group
// context, so a failure on the other channel cannot drop it.
func (h *Handler) deliver(ctx, gctx context.Context, leadID int64, channel string, status *string, send func(context.Context) error) error {
	key := sentKey(leadID, channel)
	if h.alreadySent(gctx, key) {
		*status = StatusAlreadySent
		h.logger.Info("channel already delivered, skipping", map[string]interface{}{
			"leadId":  leadID,
			"channel": channel,
		})
		return nil
	}

	if err := send(gctx); err != nil {
		*status = StatusFailed
		return &channelError{channel: channel, err: err}
	}
	*status = StatusSent

	if h.sent != nil && key != "" {
		if err := h.sent.Set(ctx, key, time.Now().UTC().Format(time.RFC3339), h.config.SentTTL).Err(); err != nil {
			h.logger.Warn("delivery record write failed", map[string]interface{}{
				"leadId":  leadID,
				"channel": channel,
				"error":   err.Error(),
			})
		}
	}
	return nil
}

func (h *Handler) alreadySent(ctx context.Context, key string) bool {
	if h.sent == nil || key == "" {
		return false
	}
	n, err := h.sent.Exists(ctx, key).Result()
	if err != nil {
		h.logger.Warn("delivery record read failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return false
	}
	return n > 0
}

// sentKey is empty for leads without an id; those are never deduplicated.
func sentKey(leadID int64, channel string) string {
	if leadID <= 0 {
		return ""
	}
	return fmt.Sprintf("notification:%d:%s", leadID, channel)
}

func (h *Handler) reportURL(leadID int64) string {
	if h.config.ReportBaseURL == "" || leadID <= 0 {
		return ""
	}
	return fmt.Sprintf("%s/%d", strings.TrimRight(h.config.ReportBaseURL, "/"), leadID)
}

func (h *Handler) sendEmail(ctx context.Context, to, subject, body string) error {
	_, err := h.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body), Charset: aws.String("UTF-8")},
			},
		},
		Source: aws.String(h.config.FromEmail),
	})
	return err
}

func (h *Handler) sendSMS(ctx context.Context, to, message string) error {
	attrs := map[string]snstypes.MessageAttributeValue{
		"AWS.SNS.SMS.SMSType": {DataType: aws.String("String"), StringValue: aws.String("Transactional")},
	}
	if h.config.SMSSenderID != "" {
		attrs["AWS.SNS.SMS.SenderID"] = snstypes.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(h.config.SMSSenderID),
		}
	}
	_, err := h.snsClient.Publish(ctx, &sns.PublishInput{
		PhoneNumber:       aws.String(to),
		Message:           aws.String(message),
		MessageAttributes: attrs,
	})
	return err
}

type channelError struct {
	channel string
	err     error
}

func (e *channelError) Error() string { return e.channel + ": " + e.err.Error() }
func (e *channelError) Unwrap() error { return e.err }
