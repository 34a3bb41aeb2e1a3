// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CompaniesProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leadgen_companies_processed_total",
			Help: "Total number of companies the pipeline attempted to enrich",
		},
	)

	CompaniesSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadgen_companies_skipped_total",
			Help: "Total number of companies skipped without producing a lead",
		},
		[]string{"reason"},
	)

	StageFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadgen_stage_failures_total",
			Help: "Total number of recoverable per-stage failures",
		},
		[]string{"stage"},
	)

	LeadsGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leadgen_leads_generated_total",
			Help: "Total number of fully enriched leads produced",
		},
	)

	ExternalRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadgen_external_requests_total",
			Help: "Total number of calls to external services",
		},
		[]string{"service", "outcome"},
	)

	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "leadgen_run_duration_seconds",
			Help: "Duration of a full pipeline run in seconds",
		},
	)
)
