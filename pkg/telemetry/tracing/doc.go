// Package tracing provides OpenTelemetry tracing for tunnelgate.
//
// Spans are exported over OTLP gRPC when telemetry.tracing.enabled is set.
// Otherwise every span is a noop and costs next to nothing.
//
// # Spans
//
//   - http.request: one server span per inbound request (middleware)
//   - vpn.probe: an IP location lookup plus exposure check
//   - vpn.establish: a run of the VPN setup command
//   - relay.forward: the outbound POST to the target domain
//   - persist.write: writing an exported response to disk
//
// # Usage
//
//	tracer, err := tracing.New(ctx, &cfg.Telemetry.Tracing, version)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracing.Start(ctx, tracing.SpanProbe)
//	defer span.End()
//
// # Propagation
//
// Inbound W3C traceparent headers are honoured. Trace context is never
// injected into relayed requests.
package tracing
