package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveTransfer(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveTransfer("SUCCEEDED")
	m.ObserveTransfer("SUCCEEDED")
	m.ObserveTransfer("REJECTED")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.TransfersTotal.WithLabelValues("SUCCEEDED")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.TransfersTotal.WithLabelValues("REJECTED")))
}

func TestMetrics_ObserveBalanceFailure(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveBalanceFailure()
	assert.Equal(t, float64(1), testutil.ToFloat64(m.BalanceFetchFailures))
}

func TestMetrics_ObserveRPC(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveRPC("suix_getCoins", time.Now(), nil)
	m.ObserveRPC("suix_getCoins", time.Now(), errors.New("down"))

	count, err := testutil.GatherAndCount(reg, "stg_rpc_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveTransfer("FAILED")
		m.ObserveBalanceFailure()
		m.ObserveRPC("x", time.Now(), nil)
	})
}
