// Package metrics holds the Prometheus collectors of the gateway.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the gateway collectors. A nil *Metrics is valid and
// records nothing, which keeps tests and the CLI free of registries.
type Metrics struct {
	TransfersTotal       *prometheus.CounterVec
	BalanceFetchFailures prometheus.Counter
	RPCRequestDuration   *prometheus.HistogramVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		TransfersTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "stg_transfers_total",
			Help: "Transfer requests by terminal state",
		}, []string{"state"}),
		BalanceFetchFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "stg_balance_fetch_failures_total",
			Help: "Balance lookups that degraded because the full node was unavailable",
		}),
		RPCRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stg_rpc_request_duration_seconds",
			Help:    "Latency of Sui JSON-RPC calls",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "result"}),
	}
}

// ObserveTransfer counts one finished transfer request.
func (m *Metrics) ObserveTransfer(state string) {
	if m == nil {
		return
	}
	m.TransfersTotal.WithLabelValues(state).Inc()
}

// ObserveBalanceFailure counts one degraded balance lookup.
func (m *Metrics) ObserveBalanceFailure() {
	if m == nil {
		return
	}
	m.BalanceFetchFailures.Inc()
}

// ObserveRPC records the latency of one RPC call.
func (m *Metrics) ObserveRPC(method string, start time.Time, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.RPCRequestDuration.WithLabelValues(method, result).Observe(time.Since(start).Seconds())
}
