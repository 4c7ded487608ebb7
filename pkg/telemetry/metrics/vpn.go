package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"tunnelgate/relay/pkg/config"
)

// VPNMetrics tracks connectivity probes and tunnel setup runs.
type VPNMetrics struct {
	probesTotal       *prometheus.CounterVec
	connected         prometheus.Gauge
	establishTotal    *prometheus.CounterVec
	establishDuration prometheus.Histogram
}

// NewVPNMetrics creates and registers VPN metrics with the provided registry.
func NewVPNMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *VPNMetrics {
	vm := &VPNMetrics{
		probesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "vpn_probes_total",
				Help:      "Total number of VPN connectivity probes by result",
			},
			[]string{"result"},
		),

		connected: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Name:      "vpn_connected",
				Help:      "Whether the last successful probe saw a protected IP (1) or an exposed one (0)",
			},
		),

		establishTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "vpn_establish_total",
				Help:      "Total number of VPN setup runs by outcome",
			},
			[]string{"outcome"},
		),

		establishDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "vpn_establish_duration_seconds",
				Help:      "Duration of VPN setup runs in seconds",
				Buckets:   []float64{1, 5, 10, 20, 30, 60, 90, 120, 300},
			},
		),
	}

	registry.MustRegister(vm.probesTotal, vm.connected, vm.establishTotal, vm.establishDuration)

	return vm
}

// RecordProbe records a probe result.
func (vm *VPNMetrics) RecordProbe(result string) {
	vm.probesTotal.WithLabelValues(result).Inc()
	switch result {
	case ProbeConnected:
		vm.connected.Set(1)
	case ProbeExposed:
		vm.connected.Set(0)
	}
}

// RecordEstablish records a setup run.
func (vm *VPNMetrics) RecordEstablish(outcome string, duration time.Duration) {
	vm.establishTotal.WithLabelValues(outcome).Inc()
	vm.establishDuration.Observe(duration.Seconds())
}
