package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"tunnelgate/relay/pkg/config"
)

// RelayMetrics tracks the forwarding path and response exports.
type RelayMetrics struct {
	upstreamDuration    prometheus.Histogram
	persistTotal        *prometheus.CounterVec
	whitelistRejections prometheus.Counter
	exportsPruned       prometheus.Counter
}

// NewRelayMetrics creates and registers relay metrics with the provided registry.
func NewRelayMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RelayMetrics {
	rm := &RelayMetrics{
		upstreamDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "upstream_duration_seconds",
				Help:      "Duration of outbound calls to target domains in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
		),

		persistTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "persist_total",
				Help:      "Total number of response export writes by outcome",
			},
			[]string{"outcome"},
		),

		whitelistRejections: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "whitelist_rejections_total",
				Help:      "Total number of requests rejected for a missing or unlisted Target-Domain",
			},
		),

		exportsPruned: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "exports_pruned_total",
				Help:      "Total number of export files deleted by retention",
			},
		),
	}

	registry.MustRegister(rm.upstreamDuration, rm.persistTotal, rm.whitelistRejections, rm.exportsPruned)

	return rm
}
