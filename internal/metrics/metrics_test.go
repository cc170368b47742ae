package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterValue gathers reg and returns the value of the counter name with the
// given label value, or -1 when absent
func counterValue(t *testing.T, reg *prometheus.Registry, name, label string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, m := range family.GetMetric() {
			for _, pair := range m.GetLabel() {
				if pair.GetValue() == label {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return -1
}

func histogramCount(t *testing.T, reg *prometheus.Registry, name string) uint64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() == name && len(family.GetMetric()) > 0 {
			return family.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}
	return 0
}

func TestCollector_Counts(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.ObserveAssessment(SourceLocal, 72)
	c.ObserveAssessment(SourceLocal, 40)
	c.ObserveAssessment(SourceRemote, 90)
	c.ObserveImprovement(PathNoop)
	c.ObserveFallback("rewrite")

	assert.Equal(t, 2.0, counterValue(t, reg, "content_quality_assessments_total", SourceLocal))
	assert.Equal(t, 1.0, counterValue(t, reg, "content_quality_assessments_total", SourceRemote))
	assert.Equal(t, 1.0, counterValue(t, reg, "content_quality_improvements_total", PathNoop))
	assert.Equal(t, 1.0, counterValue(t, reg, "content_quality_remote_fallbacks_total", "rewrite"))
	assert.Equal(t, uint64(3), histogramCount(t, reg, "content_quality_overall_score"))
}

func TestCollector_NilIsNoop(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveAssessment(SourceLocal, 10)
		c.ObserveImprovement(PathLocal)
		c.ObserveFallback("check")
	})
	assert.NotNil(t, c.Handler())
}

func TestCollector_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}

func TestHandler(t *testing.T) {
	c := NewWithRegistry()
	c.ObserveImprovement(PathRemote)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `content_quality_improvements_total{path="remote"} 1`))
}
