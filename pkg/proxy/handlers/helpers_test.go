package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"tunnelgate/relay/pkg/config"
	"tunnelgate/relay/pkg/proxy/types"
	"tunnelgate/relay/pkg/vpn"
)

// probeStep is one scripted prober answer.
type probeStep struct {
	connected bool
	err       error
}

// fakeProber replays probe steps in order, repeating the last one.
type fakeProber struct {
	mu    sync.Mutex
	steps []probeStep
	calls int
}

func (p *fakeProber) IsConnected(ctx context.Context) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.calls
	if i >= len(p.steps) {
		i = len(p.steps) - 1
	}
	p.calls++
	return p.steps[i].connected, p.steps[i].err
}

func (p *fakeProber) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// fakeEstablisher counts setup runs.
type fakeEstablisher struct {
	mu      sync.Mutex
	result  vpn.EstablishResult
	calls   int
	lastErr error
}

func (e *fakeEstablisher) Establish(ctx context.Context) vpn.EstablishResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	e.lastErr = ctx.Err()
	return e.result
}

func (e *fakeEstablisher) LastContextErr() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

func (e *fakeEstablisher) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

func newProber(steps ...probeStep) *fakeProber {
	return &fakeProber{steps: steps}
}

var (
	connected    = probeStep{connected: true}
	exposed      = probeStep{connected: false}
	errProbeDown = errors.New("location lookup failed")
	probeTimeout = &vpn.ProbeError{Stage: vpn.StageLocation, URL: "http://pia.test", Err: context.DeadlineExceeded}
)

func testRelayConfig(whitelist string) *config.RelayConfig {
	return &config.RelayConfig{
		WhitelistedDomains: whitelist,
		WhitelistMode:      config.WhitelistModeExact,
		ForwardHeaders:     []string{"X-Trace"},
		UpstreamTimeout:    2 * time.Second,
		MaxBodyBytes:       1024,
	}
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) types.StatusResponse {
	t.Helper()
	var env types.StatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not an envelope: %v (%q)", err, rec.Body.String())
	}
	return env
}
