package metrics

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "clashbot"

// Metric names understood by the interaction collector
const (
	InteractionsTotal      = "discord_interactions_total"
	InteractionErrorsTotal = "discord_interactions_errors_total"
	InteractionDuration    = "discord_interaction_duration_seconds"
)

// Metrics groups every collector the bot exports
type Metrics struct {
	registry prometheus.Gatherer

	Interactions        *prometheus.CounterVec
	InteractionErrors   *prometheus.CounterVec
	InteractionDuration *prometheus.HistogramVec
	ActiveSessions      prometheus.Gauge
	SessionExpiries     prometheus.Counter
	ImageFetchDuration  *prometheus.HistogramVec
	LookupCache         *prometheus.CounterVec
}

// New registers all collectors on reg. Passing prometheus.NewRegistry() keeps tests isolated.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Interactions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      InteractionsTotal,
			Help:      "Discord interactions handled, by type and route.",
		}, []string{"interaction_type", "route"}),
		InteractionErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      InteractionErrorsTotal,
			Help:      "Discord interactions whose handler returned an error.",
		}, []string{"interaction_type", "route", "error_code"}),
		InteractionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      InteractionDuration,
			Help:      "Handler execution time.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"interaction_type", "route"}),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "selection_sessions_active",
			Help:      "Interactive selection sessions currently bound to a message.",
		}),
		SessionExpiries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selection_sessions_expired_total",
			Help:      "Interactive selection sessions that reached their timeout.",
		}),
		ImageFetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "image_fetch_duration_seconds",
			Help:      "Image rendering service latency, by image kind and outcome.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"kind", "status"}),
		LookupCache: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookup_cache_requests_total",
			Help:      "Player lookup cache requests, by result.",
		}, []string{"result"}),
	}
}

// Handler serves the registry in the prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// IncrementCounter implements middleware.MetricsCollector
func (m *Metrics) IncrementCounter(name string, labels map[string]string) {
	switch name {
	case InteractionsTotal:
		m.Interactions.WithLabelValues(labels["interaction_type"], route(labels)).Inc()
	case InteractionErrorsTotal:
		m.InteractionErrors.WithLabelValues(labels["interaction_type"], route(labels), labels["error_code"]).Inc()
	}
}

// ObserveHistogram implements middleware.MetricsCollector
func (m *Metrics) ObserveHistogram(name string, value float64, labels map[string]string) {
	if name == InteractionDuration {
		m.InteractionDuration.WithLabelValues(labels["interaction_type"], route(labels)).Observe(value)
	}
}

// route folds command/subcommand or domain/action labels into one low-cardinality label
func route(labels map[string]string) string {
	var parts []string
	for _, k := range []string{"command", "subcommand", "domain", "action"} {
		if v := labels[k]; v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		return "unknown"
	}
	return strings.Join(parts, "/")
}
