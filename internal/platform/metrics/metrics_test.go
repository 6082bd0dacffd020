package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.RecordPlan("one_stop")
	m.RecordPlan("one_stop")
	m.RecordPlan("NoRoute")
	m.RecordDegraded()
	m.ObserveRequest("/api/v1/ev-plan", "POST", 200, 150*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.plans.WithLabelValues("one_stop")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.plans.WithLabelValues("NoRoute")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.degraded))

	err = testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP ev_station_provider_degraded_total Planning requests where the station provider failed and no candidates were used
# TYPE ev_station_provider_degraded_total counter
ev_station_provider_degraded_total 1
`), "ev_station_provider_degraded_total")
	assert.NoError(t, err)

	count, err := testutil.GatherAndCount(reg, "http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNewReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := New(reg)
	require.NoError(t, err)
	second, err := New(reg)
	require.NoError(t, err)

	first.RecordDegraded()
	second.RecordDegraded()
	assert.Equal(t, 2.0, testutil.ToFloat64(first.degraded))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordPlan("no_stop")
		m.RecordDegraded()
		m.ObserveRequest("/health", "GET", 200, time.Millisecond)
	})
}
