package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Aggregation outcomes recorded on meeting_aggregations_total
const (
	OutcomeSuccess           = "success"
	OutcomeTranscriptMissing = "transcript_not_found"
	OutcomeAnnotationFailed  = "annotation_failed"
	OutcomeFailed            = "failed"
)

// Metrics holds the Prometheus collectors of the pipeline. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	Aggregations        *prometheus.CounterVec
	AnalysisFallbacks   *prometheus.CounterVec
	NotificationsFailed prometheus.Counter
	AggregationDuration prometheus.Histogram
}

// NewMetrics creates the collectors on a private registry
func NewMetrics(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		Aggregations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "meeting_aggregations_total",
				Help:      "Total number of meeting aggregations by outcome",
			},
			[]string{"outcome"},
		),
		AnalysisFallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "meeting_analysis_fallback_total",
				Help:      "Total number of times the static analysis fallback was used",
			},
			[]string{"reason"},
		),
		NotificationsFailed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "meeting_notifications_failed_total",
				Help:      "Total number of notification hand-offs that failed",
			},
		),
		AggregationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "meeting_aggregation_duration_seconds",
				Help:      "Duration of meeting aggregations in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}

	registry.MustRegister(
		m.Aggregations,
		m.AnalysisFallbacks,
		m.NotificationsFailed,
		m.AggregationDuration,
		prometheus.NewGoCollector(),
	)

	return m
}

// ObserveAggregation records one aggregation attempt
func (m *Metrics) ObserveAggregation(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.Aggregations.WithLabelValues(outcome).Inc()
	m.AggregationDuration.Observe(d.Seconds())
}

// IncFallback records a use of the static analysis fallback
func (m *Metrics) IncFallback(reason string) {
	if m == nil {
		return
	}
	m.AnalysisFallbacks.WithLabelValues(reason).Inc()
}

// IncNotificationFailed records a failed notification hand-off
func (m *Metrics) IncNotificationFailed() {
	if m == nil {
		return
	}
	m.NotificationsFailed.Inc()
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
