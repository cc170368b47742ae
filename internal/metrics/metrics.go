// Package metrics provides the Prometheus collectors for assessments,
// improvements and remote fallbacks.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "content_quality"

// Assessment sources
const (
	SourceLocal  = "local"
	SourceRemote = "remote"
)

// Improvement paths
const (
	PathNoop   = "noop"
	PathLocal  = "local"
	PathRemote = "remote"
)

// Collector holds the collectors registered on one registry.
// All methods are safe on a nil *Collector, which records nothing.
type Collector struct {
	registry     *prometheus.Registry
	assessments  *prometheus.CounterVec
	improvements *prometheus.CounterVec
	fallbacks    *prometheus.CounterVec
	overall      prometheus.Histogram
}

// New registers the collectors on reg
func New(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		assessments: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "assessments_total",
				Help:      "Total number of quality assessments",
			},
			[]string{"source"},
		),
		improvements: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "improvements_total",
				Help:      "Total number of improvement runs by path taken",
			},
			[]string{"path"},
		),
		fallbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "remote_fallbacks_total",
				Help:      "Remote enhancer calls that fell back to local processing",
			},
			[]string{"operation"},
		),
		overall: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "overall_score",
				Help:      "Distribution of overall quality scores",
				Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
			},
		),
	}
}

// NewWithRegistry creates a private registry, registers the collectors on it
// and keeps it for Handler
func NewWithRegistry() *Collector {
	reg := prometheus.NewRegistry()
	c := New(reg)
	c.registry = reg
	return c
}

// ObserveAssessment records one assessment and its overall score
func (c *Collector) ObserveAssessment(source string, overall int) {
	if c == nil {
		return
	}
	c.assessments.WithLabelValues(source).Inc()
	c.overall.Observe(float64(overall))
}

// ObserveImprovement records which path an improvement run took
func (c *Collector) ObserveImprovement(path string) {
	if c == nil {
		return
	}
	c.improvements.WithLabelValues(path).Inc()
}

// ObserveFallback records a remote call that fell back to local processing
func (c *Collector) ObserveFallback(operation string) {
	if c == nil {
		return
	}
	c.fallbacks.WithLabelValues(operation).Inc()
}

// Handler serves the collector's registry, or the default gatherer when the
// collector was registered elsewhere
func (c *Collector) Handler() http.Handler {
	if c == nil || c.registry == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
