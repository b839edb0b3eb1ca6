// Package enrichment runs the enrichment producers against a composed
// CampaignInput and assembles their results. No failure inside parsing or a
// producer escapes Run: each is replaced by a fallback value.
package enrichment

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"campaign-enricher/internal/campaign"
	"campaign-enricher/internal/common/metrics"
	"campaign-enricher/internal/models"
	"campaign-enricher/internal/parsing/report"
	"campaign-enricher/internal/parsing/survey"
)

const tracerName = "campaign-enricher/enrichment"

// Logger interface definition
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config bounds each producer call. Zero timeouts mean no deadline.
type Config struct {
	ProducerTimeout time.Duration
	TrendsTimeout   time.Duration
	RepairSurvey    bool
}

// Result is the assembled output of one run plus the intermediates it was
// built from.
type Result struct {
	Enriched      models.EnrichmentResult
	InitialParse  models.ParsedReport
	FollowUpParse models.NormalizedSurvey
	Input         models.CampaignInput
	SurveyStatus  survey.Status
}

// Response converts r into the success envelope.
func (r Result) Response() models.EnrichmentResponse {
	return models.EnrichmentResponse{
		EnrichedData:  r.Enriched,
		InitialParse:  r.InitialParse,
		FollowUpParse: r.FollowUpParse,
		Message:       models.EnrichmentCompleteMessage,
	}
}

type Orchestrator struct {
	producers  Producers
	config     Config
	normalizer survey.Normalizer
	logger     Logger
	tracer     trace.Tracer
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithTracer overrides the global tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *Orchestrator) { o.tracer = tracer }
}

func NewOrchestrator(producers Producers, config Config, log Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		producers:  producers,
		config:     config,
		normalizer: survey.Normalizer{Repair: config.RepairSurvey},
		logger:     log,
		tracer:     otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// NewFallback returns the value a failed demographics, benchmarks, or events
// producer contributes.
func NewFallback() map[string]interface{} {
	return map[string]interface{}{}
}

// Run parses both raw inputs, composes the CampaignInput, and invokes every
// producer. It never fails: the result always has all four keys.
func (o *Orchestrator) Run(ctx context.Context, reportText, surveyJSON string) Result {
	ctx, span := o.tracer.Start(ctx, "enrichment.run")
	defer span.End()

	res := o.parse(reportText, surveyJSON)
	input := res.Input

	res.Enriched.Demographics = o.call(ctx, o.producers.Demographics, input, o.config.ProducerTimeout)
	res.Enriched.Trends = o.trends(ctx, input)
	res.Enriched.Benchmarks = o.call(ctx, o.producers.Benchmarks, input, o.config.ProducerTimeout)
	res.Enriched.Events = o.call(ctx, o.producers.Events, input, o.config.ProducerTimeout)

	span.SetAttributes(
		attribute.String("campaign.location", input.Location),
		attribute.String("campaign.industry", input.Industry),
		attribute.Int("enrichment.trends", len(res.Enriched.Trends)),
	)
	o.logger.Info("enrichment complete", map[string]interface{}{
		"location":     input.Location,
		"industry":     input.Industry,
		"trends":       len(res.Enriched.Trends),
		"surveyStatus": string(res.SurveyStatus),
	})
	return res
}

// parse runs the pure pipeline stages. A panic in any stage yields the
// defaulted structures.
func (o *Orchestrator) parse(reportText, surveyJSON string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("parse stage panicked", map[string]interface{}{
				"panic": fmt.Sprint(r),
				"stack": string(debug.Stack()),
			})
			res = defaultResult()
		}
	}()

	res.InitialParse = report.Parse(reportText)
	res.FollowUpParse, res.SurveyStatus = o.normalizer.Parse(surveyJSON)
	res.Input = campaign.Compose(res.InitialParse, res.FollowUpParse)
	res.Enriched.Trends = []interface{}{}

	metrics.SurveyDecodes.WithLabelValues(string(res.SurveyStatus)).Inc()
	if res.SurveyStatus == survey.StatusFallback && surveyJSON != "" {
		o.logger.Warn("follow-up survey is not valid JSON, using defaults", map[string]interface{}{
			"length": len(surveyJSON),
		})
	}
	return res
}

func defaultResult() Result {
	initial := models.NewParsedReport("")
	followUp := models.NewNormalizedSurvey()
	return Result{
		InitialParse:  initial,
		FollowUpParse: followUp,
		Input:         campaign.Compose(initial, followUp),
		Enriched:      models.EnrichmentResult{Trends: []interface{}{}},
		SurveyStatus:  survey.StatusFallback,
	}
}

// call runs one sequential producer through Safely with the shared fallback.
func (o *Orchestrator) call(ctx context.Context, p Producer, input models.CampaignInput, timeout time.Duration) interface{} {
	return Safely[interface{}](ctx, func(ctx context.Context) (interface{}, error) {
		value, _, err := o.invoke(ctx, p, input, timeout)
		return value, err
	}, NewFallback())
}

// trends fans out to the trend producers and keeps the successful results in
// registration order. Branches never return errors, so Wait returns only
// after every branch has settled.
func (o *Orchestrator) trends(ctx context.Context, input models.CampaignInput) []interface{} {
	producers := o.producers.Trends
	slots := make([]interface{}, len(producers))
	ok := make([]bool, len(producers))

	var (
		mu     sync.Mutex
		failed *multierror.Error
	)

	var g errgroup.Group
	for i, p := range producers {
		g.Go(func() error {
			value, outcome, err := o.invoke(ctx, p, input, o.config.TrendsTimeout)
			if outcome != OutcomeOK {
				mu.Lock()
				failed = multierror.Append(failed, fmt.Errorf("%s: %s: %w", producerName(p), outcome, err))
				mu.Unlock()
				return nil
			}
			slots[i], ok[i] = value, true
			return nil
		})
	}
	_ = g.Wait()

	if err := failed.ErrorOrNil(); err != nil {
		o.logger.Warn("trend producers dropped", map[string]interface{}{
			"dropped": failed.Len(),
			"total":   len(producers),
			"error":   err.Error(),
		})
	}

	out := make([]interface{}, 0, len(producers))
	for i, value := range slots {
		if ok[i] {
			out = append(out, value)
		}
	}
	return out
}

// invoke wraps a producer call with its deadline, span, metrics, and log line.
func (o *Orchestrator) invoke(ctx context.Context, p Producer, input models.CampaignInput, timeout time.Duration) (interface{}, Outcome, error) {
	name := producerName(p)
	if p == nil {
		return nil, OutcomeEmpty, ErrEmptyResult
	}

	ctx, span := o.tracer.Start(ctx, "enrichment.produce", trace.WithAttributes(attribute.String("producer", name)))
	defer span.End()

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	value, outcome, err := Invoke(ctx, func(ctx context.Context) (interface{}, error) {
		return p.Produce(ctx, input.Clone())
	})
	elapsed := time.Since(start)

	metrics.ProducerOutcomes.WithLabelValues(name, string(outcome)).Inc()
	metrics.ProducerDuration.WithLabelValues(name).Observe(elapsed.Seconds())
	span.SetAttributes(attribute.String("outcome", string(outcome)))

	fields := map[string]interface{}{
		"producer":   name,
		"outcome":    string(outcome),
		"durationMs": elapsed.Milliseconds(),
	}
	switch outcome {
	case OutcomeOK:
		span.SetStatus(codes.Ok, "")
		o.logger.Debug("producer succeeded", fields)
	case OutcomeEmpty:
		o.logger.Debug("producer returned nothing, using fallback", fields)
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, string(outcome))
		fields["error"] = err.Error()
		o.logger.Warn("producer failed, using fallback", fields)
	}
	return value, outcome, err
}

func producerName(p Producer) string {
	if p == nil {
		return "unset"
	}
	return p.Name()
}
