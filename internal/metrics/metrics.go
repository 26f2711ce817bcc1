package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors for the chat pipeline. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	IntentsRouted      *prometheus.CounterVec
	ExtractionFailures *prometheus.CounterVec
	RetrievalFailures  *prometheus.CounterVec
	UpstreamFailures   *prometheus.CounterVec
	MessageDuration    *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg. A nil reg leaves
// them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		IntentsRouted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intents_routed_total",
				Help: "Total number of messages routed per intent branch",
			},
			[]string{"intent"},
		),
		ExtractionFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "extraction_failures_total",
				Help: "Total number of completions that yielded no parseable records",
			},
			[]string{"record"},
		),
		RetrievalFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "retrieval_failures_total",
				Help: "Total number of retrieval calls that degraded to an empty context",
			},
			[]string{"corpus"},
		),
		UpstreamFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "upstream_failures_total",
				Help: "Total number of failed LLM calls",
			},
			[]string{"component"},
		),
		MessageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "message_duration_seconds",
				Help:    "Duration of message processing in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"intent"},
		),
	}
}

func (m *Metrics) IntentRouted(intent string) {
	if m == nil {
		return
	}
	m.IntentsRouted.WithLabelValues(intent).Inc()
}

func (m *Metrics) ExtractionFailed(record string) {
	if m == nil {
		return
	}
	m.ExtractionFailures.WithLabelValues(record).Inc()
}

func (m *Metrics) RetrievalFailed(corpus string) {
	if m == nil {
		return
	}
	m.RetrievalFailures.WithLabelValues(corpus).Inc()
}

func (m *Metrics) UpstreamFailed(component string) {
	if m == nil {
		return
	}
	m.UpstreamFailures.WithLabelValues(component).Inc()
}

// ObserveMessage records how long one message took to process.
func (m *Metrics) ObserveMessage(intent string, started time.Time) {
	if m == nil {
		return
	}
	m.MessageDuration.WithLabelValues(intent).Observe(time.Since(started).Seconds())
}
