// Package metrics counts what the process mirror observes. Unknown and
// invalid transitions are the signals that the client vocabulary has drifted
// from the marketplace API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is implemented by metric backends.
type Metrics interface {
	TransitionRecorded(process, transition string)
	UnknownTransition(process, transition string)
	InvalidTransition(process, state, transition string)
}

// NoopMetrics discards everything.
type NoopMetrics struct{}

var _ Metrics = NoopMetrics{}

func (NoopMetrics) TransitionRecorded(process, transition string)       {}
func (NoopMetrics) UnknownTransition(process, transition string)        {}
func (NoopMetrics) InvalidTransition(process, state, transition string) {}

// Config holds configuration for PrometheusMetrics.
type Config struct {
	// Namespace is the prefix for all metrics.
	Namespace string
	// Registry to register with. If nil, the default registry is used.
	Registry prometheus.Registerer
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Namespace: "txmirror",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// PrometheusMetrics implements Metrics with Prometheus counters.
type PrometheusMetrics struct {
	recorded *prometheus.CounterVec
	unknown  *prometheus.CounterVec
	invalid  *prometheus.CounterVec
}

var _ Metrics = (*PrometheusMetrics)(nil)

// NewPrometheus registers the counters and returns a PrometheusMetrics.
func NewPrometheus(cfg Config) *PrometheusMetrics {
	if cfg.Registry == nil {
		cfg.Registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(cfg.Registry)

	return &PrometheusMetrics{
		recorded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "transitions_recorded_total",
			Help:      "Transitions reported by the marketplace API and applied to the mirror",
		}, []string{"process", "transition"}),
		unknown: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "unknown_transitions_total",
			Help:      "Transitions not present in the client vocabulary",
		}, []string{"process", "transition"}),
		invalid: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "invalid_transitions_total",
			Help:      "Transitions that are not an outgoing edge of the current state",
		}, []string{"process", "state", "transition"}),
	}
}

func (m *PrometheusMetrics) TransitionRecorded(process, transition string) {
	m.recorded.WithLabelValues(process, transition).Inc()
}

func (m *PrometheusMetrics) UnknownTransition(process, transition string) {
	m.unknown.WithLabelValues(process, transition).Inc()
}

func (m *PrometheusMetrics) InvalidTransition(process, state, transition string) {
	m.invalid.WithLabelValues(process, state, transition).Inc()
}
