// Package metrics exposes the service's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the API server.
type Metrics struct {
	// Composition counters
	CompositionsTotal *prometheus.CounterVec

	// Gauges
	WSClients     prometheus.Gauge
	ActivePollers prometheus.Gauge

	// Histograms
	IndexerLatency *prometheus.HistogramVec
	ComposeLatency prometheus.Histogram

	// Error tracking
	ErrorsTotal *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)

	return &Metrics{
		CompositionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dexd_compositions_total",
				Help: "Composed transactions by intent kind and outcome",
			},
			[]string{"kind", "outcome"},
		),

		WSClients: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "dexd_ws_clients",
				Help: "Connected websocket clients",
			},
		),

		ActivePollers: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "dexd_active_pollers",
				Help: "Registered polling tasks",
			},
		),

		IndexerLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dexd_indexer_latency_seconds",
				Help:    "Indexer query latency by query name and status",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"query", "status"},
		),

		ComposeLatency: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "dexd_compose_latency_seconds",
				Help:    "Transaction composition latency in seconds",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
			},
		),

		ErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dexd_errors_total",
				Help: "Errors by component and category",
			},
			[]string{"component", "category"},
		),
	}
}
