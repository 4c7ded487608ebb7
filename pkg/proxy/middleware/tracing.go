package middleware

import (
	"net/http"

	"tunnelgate/relay/pkg/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

// TracingMiddleware starts a server span per request, continuing any
// inbound W3C trace context. The request ID is attached when present, so
// it must run inside RequestIDMiddleware.
func TracingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := tracing.Extract(r.Context(), r.Header)
		ctx, span := tracing.StartServer(ctx, tracing.SpanRequest,
			attribute.String(tracing.AttrHTTPMethod, r.Method),
			attribute.String(tracing.AttrHTTPRoute, r.URL.Path),
		)
		defer span.End()

		if id := GetRequestID(ctx); id != "" {
			span.SetAttributes(attribute.String(tracing.AttrRequestID, id))
		}

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r.WithContext(ctx))

		tracing.SetHTTPStatus(span, rw.statusCode)
	})
}
