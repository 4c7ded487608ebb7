package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"tunnelgate/relay/pkg/config"
	"tunnelgate/relay/pkg/telemetry/logging"
	"tunnelgate/relay/pkg/telemetry/metrics"
)

func TestLoggingMiddleware(t *testing.T) {
	buf := &bytes.Buffer{}
	previous := slog.Default()
	slog.SetDefault(slog.New(logging.NewContextHandler(slog.NewTextHandler(buf, nil))))
	defer slog.SetDefault(previous)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetStartTime(r.Context()).IsZero() {
			t.Error("start time missing from context")
		}
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("nope"))
	})

	wrapped := RequestIDMiddleware(LoggingMiddleware(handler))
	req := httptest.NewRequest(http.MethodPost, "/forward", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	wrapped.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	for _, want := range []string{"level=WARN", `msg="request completed"`, "status=403", "bytes=4", "path=/forward", "request_id=req-42"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q: %s", want, out)
		}
	}
}

func TestResponseWriter_DefaultStatus(t *testing.T) {
	rw := newResponseWriter(httptest.NewRecorder())
	_, _ = rw.Write([]byte("hi"))
	rw.WriteHeader(http.StatusTeapot)

	if rw.statusCode != http.StatusOK {
		t.Errorf("statusCode = %d, want 200", rw.statusCode)
	}
}

func TestInstrument(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(&config.MetricsConfig{Enabled: true, Namespace: "test"}, registry)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	wrapped := Instrument(collector, "/forward", handler)
	wrapped.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/forward", nil))

	expected := `
# HELP test_requests_total Total number of requests served
# TYPE test_requests_total counter
test_requests_total{route="/forward",status="503"} 1
`
	if err := testutil.GatherAndCompare(registry, strings.NewReader(expected), "test_requests_total"); err != nil {
		t.Error(err)
	}
}

func TestInstrument_NilCollector(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	if got := Instrument(nil, "/x", handler); got == nil {
		t.Fatal("Instrument(nil) returned nil")
	}
}
