package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"tunnelgate/relay/pkg/config"
)

// Probe results.
const (
	ProbeConnected = "connected"
	ProbeExposed   = "exposed"
	ProbeError     = "error"
)

// Establish outcomes.
const (
	EstablishSuccess = "success"
	EstablishFailure = "failure"
	EstablishTimeout = "timeout"
)

// Persist outcomes.
const (
	PersistSuccess = "success"
	PersistError   = "error"
)

// Collector owns the Prometheus registry and every tunnelgate metric.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	requestMetrics *RequestMetrics
	vpnMetrics     *VPNMetrics
	relayMetrics   *RelayMetrics
}

// NewCollector creates a collector and registers its metrics with registry.
// If registry is nil, a new registry with the Go runtime and process
// collectors is created.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricNamespace
	}

	return &Collector{
		config:         cfg,
		registry:       registry,
		requestMetrics: NewRequestMetrics(cfg, registry),
		vpnMetrics:     NewVPNMetrics(cfg, registry),
		relayMetrics:   NewRelayMetrics(cfg, registry),
	}
}

func (c *Collector) enabled() bool {
	return c != nil && c.config.Enabled
}

// RecordRequest records a served request.
func (c *Collector) RecordRequest(route string, status int, duration time.Duration) {
	if !c.enabled() {
		return
	}
	c.requestMetrics.RecordRequest(route, status, duration)
}

// RecordUpstream records the latency of an outbound call.
func (c *Collector) RecordUpstream(duration time.Duration) {
	if !c.enabled() {
		return
	}
	c.relayMetrics.upstreamDuration.Observe(duration.Seconds())
}

// RecordProbe records a probe result and updates the vpn_connected gauge.
// Errors leave the gauge unchanged.
func (c *Collector) RecordProbe(result string) {
	if !c.enabled() {
		return
	}
	c.vpnMetrics.RecordProbe(result)
}

// RecordEstablish records a setup run.
func (c *Collector) RecordEstablish(outcome string, duration time.Duration) {
	if !c.enabled() {
		return
	}
	c.vpnMetrics.RecordEstablish(outcome, duration)
}

// RecordPersist records an export write.
func (c *Collector) RecordPersist(outcome string) {
	if !c.enabled() {
		return
	}
	c.relayMetrics.persistTotal.WithLabelValues(outcome).Inc()
}

// RecordWhitelistRejection records a request refused by the whitelist.
func (c *Collector) RecordWhitelistRejection() {
	if !c.enabled() {
		return
	}
	c.relayMetrics.whitelistRejections.Inc()
}

// RecordPruned records export files deleted by retention.
func (c *Collector) RecordPruned(n int) {
	if !c.enabled() || n <= 0 {
		return
	}
	c.relayMetrics.exportsPruned.Add(float64(n))
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
