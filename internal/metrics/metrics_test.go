package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.DensityFetched("fallback", "no_credential")
	m.DensityFetched("fallback", "no_credential")
	m.DensityFetched("remote", "")
	m.StaleDiscarded()
	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.densityFetches.WithLabelValues("fallback", "no_credential")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.densityFetches.WithLabelValues("remote", "")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.staleDiscards))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.activeSessions))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.DensityFetched("remote", "")
		m.InferenceObserved(1.2)
		m.BoundaryLoaded("failed")
		m.StaleDiscarded()
		m.SessionOpened()
		m.SessionClosed()
		m.BreakerState(1)
	})
	assert.Nil(t, m.Registry())
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.BoundaryLoaded("alternate")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `census_map_boundary_load_total{outcome="alternate"} 1`)
}
