package server

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"tunnelgate/relay/pkg/telemetry/metrics"
	"tunnelgate/relay/pkg/vpn"
)

// connectsAfterFirst reports exposed on the first call and protected after.
type connectsAfterFirst struct{ calls atomic.Int32 }

func (p *connectsAfterFirst) IsConnected(ctx context.Context) (bool, error) {
	return p.calls.Add(1) > 1, nil
}

type sleepyEstablisher struct{ delay time.Duration }

func (e sleepyEstablisher) Establish(ctx context.Context) vpn.EstablishResult {
	time.Sleep(e.delay)
	return vpn.EstablishResult{Duration: e.delay}
}

func TestServer_ForwardLargeBodyAfterSlowSetup(t *testing.T) {
	received := make(chan int, 1)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		received <- len(body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"ok":true}`)
	}))
	defer upstream.Close()

	cfg := testConfig(t)
	cfg.Server.ReadTimeout = 300 * time.Millisecond
	cfg.Relay.WhitelistedDomains = upstream.URL
	cfg.Relay.EnsureVPN = true

	srv := NewServer(cfg, Options{
		Prober:      &connectsAfterFirst{},
		Establisher: sleepyEstablisher{delay: 700 * time.Millisecond},
		Collector:   metrics.NewCollector(&cfg.Telemetry.Metrics, prometheus.NewRegistry()),
		Version:     "1.2.3",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for srv.Addr() == nil && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if srv.Addr() == nil {
		t.Fatal("server did not start")
	}

	payload := append([]byte(`{"data":"`), bytes.Repeat([]byte("x"), 256<<10)...)
	payload = append(payload, `"}`...)

	req, err := http.NewRequest(http.MethodPost, "http://"+srv.Addr().String()+RouteForward, bytes.NewReader(payload))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Target-Domain", upstream.URL)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST /forward: %v", err)
	}
	respBody, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", resp.StatusCode, respBody)
	}
	select {
	case n := <-received:
		if n != len(payload) {
			t.Errorf("upstream received %d bytes, want %d", n, len(payload))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("upstream never called")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
