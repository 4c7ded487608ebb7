package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tunnelgate/relay/pkg/telemetry/tracing"
	"tunnelgate/relay/pkg/vpn"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func useRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	prev := otel.GetTracerProvider()
	recorder := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return recorder
}

func findAttr(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestVPNGate_Spans(t *testing.T) {
	recorder := useRecorder(t)

	establisher := &fakeEstablisher{result: vpn.EstablishResult{ExitCode: 0, Duration: 1500 * time.Millisecond}}
	gate := NewVPNGate(newProber(probeStep{err: errProbeDown}, connected), establisher, nil)

	ok, err := gate.Ensure(context.Background())
	if err != nil || !ok {
		t.Fatalf("Ensure() = %v, %v; want true, nil", ok, err)
	}

	ended := recorder.Ended()
	var names []string
	for _, s := range ended {
		names = append(names, s.Name())
	}
	want := []string{tracing.SpanProbe, tracing.SpanEstablish, tracing.SpanProbe}
	if len(names) != len(want) {
		t.Fatalf("spans = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("spans = %v, want %v", names, want)
		}
	}

	if ended[0].Status().Code != codes.Error {
		t.Errorf("failed probe status = %v, want Error", ended[0].Status().Code)
	}
	if v, ok := findAttr(ended[1].Attributes(), tracing.AttrVPNDurationMS); !ok || v.AsInt64() != 1500 {
		t.Errorf("%s = %v, want 1500", tracing.AttrVPNDurationMS, v)
	}
	if v, ok := findAttr(ended[2].Attributes(), tracing.AttrVPNConnected); !ok || !v.AsBool() {
		t.Errorf("%s = %v, want true", tracing.AttrVPNConnected, v)
	}
}

func TestForwardHandler_SpanWithoutInjection(t *testing.T) {
	recorder := useRecorder(t)
	prevPropagator := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prevPropagator) })

	upstream, seen := newUpstream(t, http.StatusCreated, "application/json", `{"id":7}`)
	cfg := testRelayConfig(upstream.URL)
	h := forwardSetup{cfg: cfg}.handler()

	req := forwardRequest(upstream.URL, `{}`, map[string]string{
		"traceparent": "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01",
	})
	ctx, span := tracing.StartServer(tracing.Extract(req.Context(), req.Header), tracing.SpanRequest)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req.WithContext(ctx))
	span.End()

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if got := (<-seen).header.Get("traceparent"); got != "" {
		t.Errorf("traceparent injected upstream: %q", got)
	}

	var forward sdktrace.ReadOnlySpan
	for _, s := range recorder.Ended() {
		if s.Name() == tracing.SpanForward {
			forward = s
		}
	}
	if forward == nil {
		t.Fatal("no relay.forward span recorded")
	}
	if got := forward.SpanContext().TraceID().String(); got != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("trace ID = %s, want inbound trace", got)
	}
	if v, _ := findAttr(forward.Attributes(), tracing.AttrTarget); v.AsString() != upstream.URL {
		t.Errorf("%s = %q, want %q", tracing.AttrTarget, v.AsString(), upstream.URL)
	}
	if v, _ := findAttr(forward.Attributes(), tracing.AttrUpstreamStatus); v.AsInt64() != http.StatusCreated {
		t.Errorf("%s = %d, want 201", tracing.AttrUpstreamStatus, v.AsInt64())
	}
}
