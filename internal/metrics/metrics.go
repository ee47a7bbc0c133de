// Package metrics defines the Prometheus collectors exported by the server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "settleup"

// Metrics groups the collectors updated by the RPC layer.
type Metrics struct {
	RPCRequests            *prometheus.CounterVec
	RPCDuration            *prometheus.HistogramVec
	PlanTransfers          prometheus.Histogram
	ConservationViolations prometheus.Counter

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them on a fresh registry, together
// with the Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegistry(reg, reg)
}

// NewWithRegistry registers the collectors on reg and serves them from gatherer.
func NewWithRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	m := &Metrics{
		RPCRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "RPC calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		RPCDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		PlanTransfers: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "settlement_plan_transfers",
			Help:      "Number of transfers in computed settlement plans.",
			Buckets:   prometheus.LinearBuckets(0, 1, 10),
		}),
		ConservationViolations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conservation_violations_total",
			Help:      "Settlement plans refused because balances did not sum to zero.",
		}),
		gatherer: gatherer,
	}
	reg.MustRegister(m.RPCRequests, m.RPCDuration, m.PlanTransfers, m.ConservationViolations)
	return m
}

// Handler serves the registered metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
