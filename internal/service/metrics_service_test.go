package service

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceCounters(t *testing.T) {
	m := NewMetricsService()
	m.RecordTransition(TransitionSubmitted)
	m.RecordTransition(TransitionSubmitted)
	m.RecordTransition(TransitionGraded)
	m.RecordEvent("submission.graded", nil)
	m.RecordEvent("submission.graded", errors.New("x"))
	m.ObserveHTTPRequest(http.MethodGet, "/api/v1/assignments", 200, 10*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `lifecycle_transitions_total{transition="submitted"} 2`)
	assert.Contains(t, body, `lifecycle_transitions_total{transition="graded"} 1`)
	assert.Contains(t, body, `domain_events_total{result="failed",type="submission.graded"} 1`)
	assert.Contains(t, body, "http_requests_total")
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	m.RecordTransition(TransitionGraded)
	m.RecordEvent("x", nil)
	m.ObserveDBQuery("ping", time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
