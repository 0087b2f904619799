package observability

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecord(t *testing.T) {
	m := NewMetrics("test")

	m.ObserveAggregation(OutcomeSuccess, 20*time.Millisecond)
	m.ObserveAggregation(OutcomeSuccess, 30*time.Millisecond)
	m.IncFallback("parse")
	m.IncNotificationFailed()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Aggregations.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AnalysisFallbacks.WithLabelValues("parse")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsFailed))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveAggregation(OutcomeFailed, time.Second)
		m.IncFallback("call")
		m.IncNotificationFailed()
	})
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := NewMetrics("test")
	m.IncFallback("call")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `test_meeting_analysis_fallback_total{reason="call"} 1`)
}
