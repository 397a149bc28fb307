// Package metrics exposes Prometheus collectors for the chart
// pipeline. Collectors register on the default registry so the
// /metrics handler picks them up without extra wiring.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PipelineRuns counts analysis pipeline runs by outcome.
	PipelineRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lumora",
		Subsystem: "pipeline",
		Name:      "runs_total",
		Help:      "Analysis pipeline runs by outcome.",
	}, []string{"outcome"})

	// PipelineDuration observes end-to-end pipeline latency.
	PipelineDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "lumora",
		Subsystem: "pipeline",
		Name:      "duration_seconds",
		Help:      "End-to-end analysis pipeline duration.",
		Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
	})

	// AgentEvents counts per-agent lifecycle events.
	AgentEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lumora",
		Subsystem: "pipeline",
		Name:      "agent_events_total",
		Help:      "Agent lifecycle events by agent and type.",
	}, []string{"agent", "event"})

	// Transformations counts whether runs reshaped the input data.
	Transformations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lumora",
		Subsystem: "pipeline",
		Name:      "transformations_total",
		Help:      "Data transformation outcomes (applied or skipped).",
	}, []string{"outcome"})

	// ChartEdits counts edit requests by method and outcome.
	ChartEdits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lumora",
		Subsystem: "edit",
		Name:      "requests_total",
		Help:      "Chart edit requests by method and outcome.",
	}, []string{"method", "outcome"})

	// EditDuration observes edit latency by method.
	EditDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "lumora",
		Subsystem: "edit",
		Name:      "duration_seconds",
		Help:      "Chart edit duration by method.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
	}, []string{"method"})

	// PlansBuilt counts chart plans by normalized chart type.
	PlansBuilt = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lumora",
		Subsystem: "plan",
		Name:      "built_total",
		Help:      "Chart plans built by chart type.",
	}, []string{"chart_type"})

	// PlansPublished counts plan publications to the message bus.
	PlansPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lumora",
		Subsystem: "plan",
		Name:      "published_total",
		Help:      "Chart plan publications by outcome.",
	}, []string{"outcome"})
)

// ObservePipeline records one pipeline run.
func ObservePipeline(start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	PipelineRuns.WithLabelValues(outcome).Inc()
	PipelineDuration.Observe(time.Since(start).Seconds())
}

// ObserveEdit records one edit request.
func ObserveEdit(method string, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	if method == "" {
		method = "unknown"
	}
	ChartEdits.WithLabelValues(method, outcome).Inc()
	EditDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}
