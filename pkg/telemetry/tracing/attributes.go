package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys. HTTP keys follow the OpenTelemetry conventions; relay
// specific keys live under "tunnelgate.".
const (
	AttrHTTPMethod     = "http.method"
	AttrHTTPRoute      = "http.route"
	AttrHTTPStatusCode = "http.status_code"

	AttrRequestID = "tunnelgate.request_id"

	AttrTarget         = "tunnelgate.target"
	AttrWhitelistMode  = "tunnelgate.whitelist_mode"
	AttrUpstreamStatus = "tunnelgate.upstream.status_code"

	AttrVPNConnected  = "tunnelgate.vpn.connected"
	AttrVPNExitCode   = "tunnelgate.vpn.exit_code"
	AttrVPNDurationMS = "tunnelgate.vpn.duration_ms"
	AttrPersistPath   = "tunnelgate.persist.path"
)

// Span names.
const (
	SpanRequest   = "http.request"
	SpanProbe     = "vpn.probe"
	SpanEstablish = "vpn.establish"
	SpanForward   = "relay.forward"
	SpanPersist   = "persist.write"
)

// SetProbeAttributes records a probe outcome.
func SetProbeAttributes(span trace.Span, connected bool) {
	span.SetAttributes(attribute.Bool(AttrVPNConnected, connected))
}

// SetEstablishAttributes records a setup run.
//
// Example:
//
//	SetEstablishAttributes(span, result.ExitCode, result.Duration.Milliseconds())
func SetEstablishAttributes(span trace.Span, exitCode int, durationMs int64) {
	span.SetAttributes(
		attribute.Int(AttrVPNExitCode, exitCode),
		attribute.Int64(AttrVPNDurationMS, durationMs),
	)
}

// SetUpstreamAttributes records the forwarded target and the status the
// upstream answered with.
func SetUpstreamAttributes(span trace.Span, target string, status int) {
	span.SetAttributes(
		attribute.String(AttrTarget, target),
		attribute.Int(AttrUpstreamStatus, status),
	)
}

// SetPersistAttributes records the path an export was written to.
func SetPersistAttributes(span trace.Span, path string) {
	span.SetAttributes(attribute.String(AttrPersistPath, path))
}

// AddEvent adds a named event to the span.
func AddEvent(span trace.Span, name string, attrs ...attribute.KeyValue) {
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
