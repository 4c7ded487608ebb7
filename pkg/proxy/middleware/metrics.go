package middleware

import (
	"net/http"
	"time"

	"tunnelgate/relay/pkg/telemetry/metrics"
)

// Instrument records requests_total and request_duration_seconds for one
// route. A nil collector disables recording.
//
// Example usage:
//
//	mux.Handle("/forward", Instrument(collector, "/forward", forwardHandler))
func Instrument(collector *metrics.Collector, route string, next http.Handler) http.Handler {
	if collector == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := newResponseWriter(w)

		next.ServeHTTP(rw, r)

		collector.RecordRequest(route, rw.statusCode, time.Since(start))
	})
}
