// internal/workers/campaign/enrich-campaign-data/handler.go
package enrichcampaigndata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	commonaws "campaign-enricher/internal/common/aws"
	apperrors "campaign-enricher/internal/common/errors"
	"campaign-enricher/internal/common/logger"
	"campaign-enricher/internal/common/metrics"
	"campaign-enricher/internal/common/observability"
	"campaign-enricher/internal/common/validation"
	"campaign-enricher/internal/enrichment"
	"campaign-enricher/internal/models"
)

const TaskType = "enrich-campaign-data"

// Enricher runs one enrichment over the raw report and survey.
type Enricher interface {
	Run(ctx context.Context, reportText, surveyJSON string) enrichment.Result
}

// Notifier announces finished runs.
type Notifier interface {
	NotifyCompletion(ctx context.Context, c commonaws.Completion) (string, error)
}

type Handler struct {
	config       *Config
	enricher     Enricher
	notifier     Notifier
	obs          *observability.Observability
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

type Option func(*Handler)

// WithNotifier publishes a completion notice after every successful run.
func WithNotifier(n Notifier) Option {
	return func(h *Handler) { h.notifier = n }
}

func WithObservability(obs *observability.Observability) Option {
	return func(h *Handler) { h.obs = obs }
}

func NewHandler(config *Config, enricher Enricher, log logger.Logger, opts ...Option) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	h := &Handler{
		config:       config,
		enricher:     enricher,
		errorHandler: apperrors.NewErrorHandler(log),
		logger:       log,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()
	start := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.fail(ctx, client, job, apperrors.NewPayloadInvalidError(err))
		return
	}
	input.Source = SourceZeebe
	if input.RequestID == "" {
		input.RequestID = "job-" + strconv.FormatInt(job.Key, 10)
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
}

// Execute serves one request. It always returns an output carrying the
// status code and response body; the error is non-nil only for a 500.
// A panic anywhere in processing becomes a 500 error envelope.
func (h *Handler) Execute(ctx context.Context, input *Input) (output *Output, err error) {
	start := time.Now()
	requestID := input.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}
	source := input.Source
	if source == "" {
		source = SourceZeebe
	}
	log := h.logger.WithFields(map[string]interface{}{
		"requestId": requestID,
		"source":    source,
	})

	defer func() {
		if r := recover(); r != nil {
			stdErr := apperrors.NewInternalError(fmt.Errorf("panic: %v", r)).WithMetadata("requestId", requestID)
			log.Error("request processing panicked", map[string]interface{}{
				"errorCode": string(stdErr.Code),
				"panic":     fmt.Sprint(r),
				"stack":     string(debug.Stack()),
			})
			output = &Output{
				StatusCode: http.StatusInternalServerError,
				Response:   models.NewErrorResponse(stdErr.Message),
				RequestID:  requestID,
			}
			err = stdErr
			h.record(ctx, source, output.StatusCode, start, 0)
		}
	}()

	reportText, surveyJSON, err := decodeRequest(input)
	if err != nil {
		stdErr := apperrors.NewPayloadInvalidError(err).WithMetadata("requestId", requestID)
		log.Warn("request payload invalid", map[string]interface{}{
			"errorCode": string(stdErr.Code),
			"error":     err.Error(),
		})
		output = &Output{
			StatusCode: http.StatusInternalServerError,
			Response:   models.NewErrorResponse(stdErr.Message),
			RequestID:  requestID,
		}
		h.record(ctx, source, output.StatusCode, start, 0)
		return output, stdErr
	}

	result := h.enricher.Run(ctx, reportText, surveyJSON)
	output = &Output{
		StatusCode: http.StatusOK,
		Response:   result.Response(),
		RequestID:  requestID,
	}

	if h.config.ValidateOutput {
		h.validateOutput(log, output)
	}
	if h.notifier != nil {
		h.notify(ctx, log, source, requestID, result)
	}

	log.Info("enrichment complete", map[string]interface{}{
		"trends":       len(result.Enriched.Trends),
		"surveyStatus": string(result.SurveyStatus),
		"durationMs":   time.Since(start).Milliseconds(),
	})
	h.record(ctx, source, output.StatusCode, start, len(result.Enriched.Trends))
	return output, nil
}

// validateOutput checks the envelope against the registered output schema.
// A mismatch is logged; the response is still returned.
func (h *Handler) validateOutput(log logger.Logger, output *Output) {
	result, err := validation.ValidateDocument(h.config.OutputSchema, output)
	if err != nil {
		log.Error("output validation error", map[string]interface{}{"error": err})
		return
	}
	if !result.Valid {
		stdErr := apperrors.NewSchemaValidationFailedError(toDetails(result.GetErrorMessages()))
		log.Error("output failed schema validation", map[string]interface{}{
			"errorCode": string(stdErr.Code),
			"details":   stdErr.Details,
		})
	}
}

func (h *Handler) notify(ctx context.Context, log logger.Logger, source, requestID string, result enrichment.Result) {
	ctx, cancel := context.WithTimeout(ctx, h.config.NotifyTimeout)
	defer cancel()

	messageID, err := h.notifier.NotifyCompletion(ctx, commonaws.Completion{
		RequestID:  requestID,
		Source:     source,
		Location:   result.Input.Location,
		Product:    result.Input.Product,
		TrendCount: len(result.Enriched.Trends),
	})
	if err != nil {
		log.Warn("completion notice failed", map[string]interface{}{
			"errorCode": string(apperrors.ErrCodeNotificationSendFailed),
			"error":     err.Error(),
		})
		return
	}
	log.Debug("completion notice sent", map[string]interface{}{"messageId": messageID})
}

func (h *Handler) record(ctx context.Context, source string, statusCode int, start time.Time, trends int) {
	metrics.EnrichmentRequests.WithLabelValues(source, strconv.Itoa(statusCode)).Inc()
	h.obs.RecordRun(ctx, source, statusCode, time.Since(start))
	if statusCode == http.StatusOK {
		h.obs.RecordTrends(ctx, trends)
	}
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	code := string(apperrors.ErrCodeInternal)
	if stdErr, ok := apperrors.AsStandardError(err); ok {
		code = string(stdErr.Code)
	}
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, code).Inc()
	h.errorHandler.HandleJobError(ctx, client, job, err)
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func toDetails(messages []string) string {
	data, _ := json.Marshal(messages)
	return string(data)
}
