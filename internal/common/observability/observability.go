package observability

import (
	"context"
	"errors"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Observability owns the OpenTelemetry meter and tracer providers. Meter data
// is exported through the default Prometheus registry.
type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	meter          otelmetric.Meter
	tracer         trace.Tracer
	runCounter     otelmetric.Int64Counter
	runDuration    otelmetric.Float64Histogram
	trendsKept     otelmetric.Int64Histogram
}

// Option customizes New.
type Option func(*options)

type options struct {
	spanProcessors []sdktrace.SpanProcessor
	sampleRatio    float64
	registerer     promclient.Registerer
}

// WithSpanProcessor registers an additional span processor, such as a
// tracetest.SpanRecorder in tests.
func WithSpanProcessor(sp sdktrace.SpanProcessor) Option {
	return func(o *options) { o.spanProcessors = append(o.spanProcessors, sp) }
}

// WithRegisterer exports meter data to reg instead of the default registry.
func WithRegisterer(reg promclient.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

// WithSampleRatio sets the trace sampling ratio. Values outside (0,1] mean always.
func WithSampleRatio(ratio float64) Option {
	return func(o *options) { o.sampleRatio = ratio }
}

// New installs global meter and tracer providers for serviceName.
func New(serviceName string, opts ...Option) (*Observability, error) {
	o := options{sampleRatio: 1}
	for _, opt := range opts {
		opt(&o)
	}

	var exporterOpts []prometheus.Option
	if o.registerer != nil {
		exporterOpts = append(exporterOpts, prometheus.WithRegisterer(o.registerer))
	}
	exporter, err := prometheus.New(exporterOpts...)
	if err != nil {
		return nil, err
	}
	meterProvider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(meterProvider)

	sampler := sdktrace.AlwaysSample()
	if o.sampleRatio > 0 && o.sampleRatio < 1 {
		sampler = sdktrace.TraceIDRatioBased(o.sampleRatio)
	}
	tpOpts := []sdktrace.TracerProviderOption{sdktrace.WithSampler(sdktrace.ParentBased(sampler))}
	for _, sp := range o.spanProcessors {
		tpOpts = append(tpOpts, sdktrace.WithSpanProcessor(sp))
	}
	tracerProvider := sdktrace.NewTracerProvider(tpOpts...)
	otel.SetTracerProvider(tracerProvider)

	meter := meterProvider.Meter(serviceName)
	obs := &Observability{
		meterProvider:  meterProvider,
		tracerProvider: tracerProvider,
		meter:          meter,
		tracer:         tracerProvider.Tracer(serviceName),
	}

	obs.runCounter, err = meter.Int64Counter(
		"enrichment.runs",
		otelmetric.WithDescription("Number of enrichment runs"),
	)
	if err != nil {
		return nil, err
	}
	obs.runDuration, err = meter.Float64Histogram(
		"enrichment.run.duration",
		otelmetric.WithDescription("Enrichment run duration"),
		otelmetric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}
	obs.trendsKept, err = meter.Int64Histogram(
		"enrichment.trends.kept",
		otelmetric.WithDescription("Trend results kept per run"),
	)
	if err != nil {
		return nil, err
	}
	return obs, nil
}

// Tracer returns the service tracer.
func (o *Observability) Tracer() trace.Tracer {
	if o == nil || o.tracer == nil {
		return otel.Tracer("campaign-enricher")
	}
	return o.tracer
}

// RecordRun records one enrichment run with its response status.
func (o *Observability) RecordRun(ctx context.Context, source string, statusCode int, duration time.Duration) {
	if o == nil || o.runCounter == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("source", source),
		attribute.Int("status_code", statusCode),
	)
	o.runCounter.Add(ctx, 1, attrs)
	o.runDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
}

// RecordTrends records how many trend results survived the fan-out.
func (o *Observability) RecordTrends(ctx context.Context, kept int) {
	if o == nil || o.trendsKept == nil {
		return
	}
	o.trendsKept.Record(ctx, int64(kept))
}

// Shutdown flushes and stops both providers.
func (o *Observability) Shutdown(ctx context.Context) error {
	if o == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var errs []error
	if o.tracerProvider != nil {
		errs = append(errs, o.tracerProvider.Shutdown(ctx))
	}
	if o.meterProvider != nil {
		errs = append(errs, o.meterProvider.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
