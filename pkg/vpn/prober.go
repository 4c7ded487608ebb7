package vpn

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"tunnelgate/relay/pkg/config"
)

// maxProbeBody caps how much of a probe response is read.
const maxProbeBody = 1 << 20

// Prober reports whether egress traffic is currently protected by the VPN.
type Prober interface {
	IsConnected(ctx context.Context) (bool, error)
}

// ProbeResult is the outcome of a successful probe.
type ProbeResult struct {
	// IP is the public IP reported by the location endpoint ("" if absent).
	IP string `json:"ip"`

	// Exposed is the truthiness of the exposure check's "status" field.
	Exposed bool `json:"exposed"`

	// Connected is !Exposed.
	Connected bool `json:"connected"`

	// Duration is the total time spent on both calls.
	Duration time.Duration `json:"duration"`
}

// PIAProber probes connectivity through PIA's location and exposure-check
// endpoints.
type PIAProber struct {
	locationURL     string
	exposedCheckURL string
	timeout         time.Duration
	client          *http.Client
	logger          *slog.Logger
}

// NewPIAProber creates a prober for the configured endpoints. If client is
// nil, a client with the probe timeout is created.
func NewPIAProber(cfg *config.VPNConfig, client *http.Client) *PIAProber {
	if client == nil {
		client = &http.Client{Timeout: cfg.ProbeTimeout}
	}
	return &PIAProber{
		locationURL:     cfg.LocationURL,
		exposedCheckURL: cfg.ExposedCheckURL,
		timeout:         cfg.ProbeTimeout,
		client:          client,
		logger:          slog.Default().With("component", "vpn.prober"),
	}
}

// IsConnected reports whether the exposure check considers the current
// public IP protected.
func (p *PIAProber) IsConnected(ctx context.Context) (bool, error) {
	result, err := p.Probe(ctx)
	if err != nil {
		return false, err
	}
	return result.Connected, nil
}

// Probe runs the location lookup followed by the exposure check.
// A missing "ip" field is not an error: the exposure check is still called
// with a null address and its answer decides the outcome.
func (p *PIAProber) Probe(ctx context.Context) (ProbeResult, error) {
	start := time.Now()

	location, err := p.call(ctx, StageLocation, http.MethodGet, p.locationURL, nil)
	if err != nil {
		return ProbeResult{}, err
	}

	// Keep the raw value so a non-string ip is sent back unchanged.
	ip := location["ip"]
	payload, err := json.Marshal(map[string]any{"ipAddress": ip})
	if err != nil {
		return ProbeResult{}, &ProbeError{Stage: StageExposure, URL: p.exposedCheckURL, Err: err}
	}

	exposure, err := p.call(ctx, StageExposure, http.MethodPost, p.exposedCheckURL, payload)
	if err != nil {
		return ProbeResult{}, err
	}

	exposed := Truthy(exposure["status"])
	result := ProbeResult{
		Exposed:   exposed,
		Connected: !exposed,
		Duration:  time.Since(start),
	}
	if s, ok := ip.(string); ok {
		result.IP = s
	}

	p.logger.DebugContext(ctx, "vpn probe completed",
		"ip", result.IP,
		"connected", result.Connected,
		"duration_ms", result.Duration.Milliseconds(),
	)

	return result, nil
}

// call performs one probe request and decodes a JSON object from the body.
// The status code is not checked; an undecodable body is the failure signal.
func (p *PIAProber) call(ctx context.Context, stage, method, url string, body []byte) (map[string]any, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, &ProbeError{Stage: stage, URL: url, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &ProbeError{Stage: stage, URL: url, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxProbeBody))
	if err != nil {
		return nil, &ProbeError{Stage: stage, URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, &ProbeError{Stage: stage, URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("response is not a JSON object: %w", err)}
	}
	if decoded == nil {
		return nil, &ProbeError{Stage: stage, URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("response is not a JSON object: null")}
	}

	return decoded, nil
}

// Truthy reports the truthiness of a decoded JSON value: null, false, 0,
// "", [] and {} are false, everything else is true.
func Truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case float64:
		return val != 0
	case json.Number:
		f, err := val.Float64()
		return err != nil || f != 0
	case string:
		return val != ""
	case []any:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	default:
		return true
	}
}
