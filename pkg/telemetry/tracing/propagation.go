package tracing

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// Propagator returns the globally registered propagator. New installs W3C
// trace context plus baggage when tracing is enabled.
func Propagator() propagation.TextMapPropagator {
	return otel.GetTextMapPropagator()
}

// Extract returns ctx carrying the remote span context found in the
// traceparent and tracestate headers, if any.
//
// Trace context is only ever extracted. Outbound requests to a target
// domain carry exactly the allowlisted inbound headers, so nothing is
// injected on the way out.
func Extract(ctx context.Context, headers http.Header) context.Context {
	return Propagator().Extract(ctx, propagation.HeaderCarrier(headers))
}
