package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PipelineCollector exposes Prometheus metrics for the generation run.
type PipelineCollector struct {
	registry           *prometheus.Registry
	completionDuration *prometheus.HistogramVec
	completionTotal    *prometheus.CounterVec
	completionTokens   *prometheus.CounterVec
	searchTotal        *prometheus.CounterVec
	sectionsGenerated  prometheus.Counter
}

// NewPipelineCollector constructs a collector with default histograms/counters.
func NewPipelineCollector() (*PipelineCollector, error) {
	registry := prometheus.NewRegistry()

	completionDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "portgen",
		Subsystem: "completion",
		Name:      "call_duration_seconds",
		Help:      "Latency distribution for completion API calls.",
		Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
	}, []string{"provider", "purpose", "outcome"})

	completionTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portgen",
		Subsystem: "completion",
		Name:      "calls_total",
		Help:      "Total number of completion API calls.",
	}, []string{"provider", "purpose", "outcome"})

	completionTokens := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portgen",
		Subsystem: "completion",
		Name:      "tokens_total",
		Help:      "Total tokens reported by the completion API.",
	}, []string{"provider", "kind"})

	searchTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portgen",
		Subsystem: "search",
		Name:      "queries_total",
		Help:      "Total number of web-search queries issued.",
	}, []string{"outcome"})

	sectionsGenerated := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "portgen",
		Subsystem: "report",
		Name:      "sections_generated_total",
		Help:      "Total number of report sections generated.",
	})

	collectors := []prometheus.Collector{
		completionDuration, completionTotal, completionTokens, searchTotal, sectionsGenerated,
	}
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	return &PipelineCollector{
		registry:           registry,
		completionDuration: completionDuration,
		completionTotal:    completionTotal,
		completionTokens:   completionTokens,
		searchTotal:        searchTotal,
		sectionsGenerated:  sectionsGenerated,
	}, nil
}

// Handler returns an HTTP handler for exposing Prometheus metrics.
func (c *PipelineCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveCompletion records one completion API call.
func (c *PipelineCollector) ObserveCompletion(provider, purpose string, duration time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	c.completionTotal.WithLabelValues(provider, purpose, outcome).Inc()
	c.completionDuration.WithLabelValues(provider, purpose, outcome).Observe(duration.Seconds())
}

// AddTokens records token usage reported by the provider.
func (c *PipelineCollector) AddTokens(provider string, promptTokens, completionTokens int) {
	if promptTokens > 0 {
		c.completionTokens.WithLabelValues(provider, "prompt").Add(float64(promptTokens))
	}
	if completionTokens > 0 {
		c.completionTokens.WithLabelValues(provider, "completion").Add(float64(completionTokens))
	}
}

// ObserveSearch records one search query outcome.
func (c *PipelineCollector) ObserveSearch(err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	c.searchTotal.WithLabelValues(outcome).Inc()
}

// SectionGenerated increments the generated-section counter.
func (c *PipelineCollector) SectionGenerated() {
	c.sectionsGenerated.Inc()
}
