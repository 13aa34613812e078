package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewPrometheusRecorderWith(reg)

	r.IncCounter(LookupSuccess, map[string]string{"chain": "BNB Chain"})
	r.IncCounter(LookupSuccess, map[string]string{"chain": "BNB Chain"})
	r.IncCounter(LookupFailure, map[string]string{"chain": "Solana"})

	assert.Equal(t, 2.0, testutil.ToFloat64(r.counters.WithLabelValues(LookupSuccess, "BNB Chain")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.counters.WithLabelValues(LookupFailure, "Solana")))
}

func TestPrometheusRecorder_Latency(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewPrometheusRecorderWith(reg)

	r.ObserveLatency(OpResolve, 150*time.Millisecond, nil)

	n, err := testutil.GatherAndCount(reg, "w3resolve_latency_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestPrometheusRecorder_DoubleRegisterPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPrometheusRecorderWith(reg)
	assert.Panics(t, func() { NewPrometheusRecorderWith(reg) })
}

func TestOrNoop(t *testing.T) {
	assert.IsType(t, NoopRecorder{}, OrNoop(nil))
}
