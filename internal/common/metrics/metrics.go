// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Producer outcome label values.
const (
	OutcomeOK      = "ok"
	OutcomeEmpty   = "empty"
	OutcomeError   = "error"
	OutcomePanic   = "panic"
	OutcomeTimeout = "timeout"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	ProducerOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_producer_outcomes_total",
			Help: "Enrichment producer invocations by outcome",
		},
		[]string{"producer", "outcome"},
	)

	ProducerDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "enrichment_producer_duration_seconds",
			Help:    "Duration of enrichment producer invocations in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"producer"},
	)

	SurveyDecodes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_survey_decodes_total",
			Help: "Follow-up survey payloads by decode status",
		},
		[]string{"status"},
	)

	EnrichmentRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_requests_total",
			Help: "Enrichment requests by entry point and response status code",
		},
		[]string{"source", "status_code"},
	)

	BenchmarkCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_benchmark_cache_lookups_total",
			Help: "Ad benchmark cache lookups by result",
		},
		[]string{"result"},
	)
)
