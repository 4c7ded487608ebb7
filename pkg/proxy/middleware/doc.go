// Package middleware provides HTTP middleware for cross-cutting concerns.
//
// # Middleware Chain
//
// The server wraps its mux in this order:
//
//	handler = Recovery(RequestID(Logging(Tracing(mux))))
//
// Order (innermost to outermost):
//  1. Tracing: Start a server span, continuing an inbound traceparent
//  2. Logging: Log request/response with method, path, status, latency
//  3. RequestID: Accept or generate X-Request-ID and store it in the context
//  4. Recovery: Recover from panics and answer with a 500 envelope
//
// Instrument is applied per route instead, so the route label of the
// request metrics is the registered pattern rather than the raw path.
package middleware
