// Package metrics provides Prometheus metrics collection for tunnelgate.
//
// # Metrics
//
// All names are prefixed with the configured namespace (default
// "tunnelgate"):
//
//   - requests_total{route,status}: requests served per route and status code
//   - request_duration_seconds{route}: request latency
//   - upstream_duration_seconds: outbound call latency
//   - vpn_probes_total{result}: probes by result (connected, exposed, error)
//   - vpn_connected: 1 when the last probe saw a protected IP
//   - vpn_establish_total{outcome}: setup runs (success, failure, timeout)
//   - vpn_establish_duration_seconds: setup run latency
//   - persist_total{outcome}: export writes (success, error)
//   - whitelist_rejections_total: requests refused for their Target-Domain
//   - exports_pruned_total: export files deleted by retention
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
//
//	collector.RecordProbe(metrics.ProbeConnected)
//
// Every Record method is a no-op on a nil Collector or when metrics are
// disabled, so components can be built without one.
package metrics
