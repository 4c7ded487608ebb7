// Package telemetry groups tunnelgate's observability packages.
//
// # Components
//
//   - logging: slog handlers with request ID propagation and credential redaction
//   - metrics: Prometheus collectors for requests, VPN probes, setup runs and exports
//   - tracing: OpenTelemetry spans exported over OTLP gRPC
//   - health: liveness, readiness and version endpoints
//
// Each package is configured from the telemetry section of config.Config
// and wired together by the server package.
package telemetry
