// Package server provides the tunnelgate HTTP server.
//
// The server wires configuration into the VPN gate, the relay handler and
// the health endpoints, and runs two optional background jobs: the VPN
// watchdog (vpn.watch_schedule) and export retention
// (persist.retention.max_age).
//
// # Basic Usage
//
//	cfg, err := config.LoadConfigWithEnvOverrides(path)
//	if err != nil {
//	    return err
//	}
//	srv := server.NewServer(cfg, server.Options{Version: version})
//	if err := srv.Start(ctx); err != nil {
//	    return err
//	}
//
// Start blocks until ctx is cancelled or Shutdown is called, then drains
// in-flight requests for up to server.shutdown_timeout.
//
// # Routes
//
//   - POST /forward - relay a JSON request to a whitelisted Target-Domain
//   - GET /check_vpn - report VPN protection
//   - GET /connect_vpn - run VPN setup, then report VPN protection
//   - GET /health - liveness probe (always 200)
//   - GET /ready - readiness probe (export and setup directories)
//   - GET /version - build information
//   - GET /metrics - Prometheus metrics (telemetry.metrics.path)
//
// # Middleware Chain
//
// Requests pass through the following middleware (innermost to outermost):
//  1. Instrument: per-route request metrics
//  2. Tracing: one server span per request
//  3. Logging: logs each completed request
//  4. RequestID: accepts or generates X-Request-ID
//  5. Recovery: converts panics into a 500 envelope
package server
