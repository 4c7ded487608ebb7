package relay

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"tunnelgate/relay/pkg/config"
)

// Response is a captured upstream response.
type Response struct {
	// StatusCode is the upstream HTTP status.
	StatusCode int

	// ContentType is the upstream Content-Type header ("" if absent).
	ContentType string

	// Body is the complete response body.
	Body []byte

	// Duration is the time from sending the request to reading the body.
	Duration time.Duration
}

// IsJSON reports whether the response carries a non-empty JSON body
// according to its content type.
func (r *Response) IsJSON() bool {
	return len(r.Body) > 0 && strings.Contains(r.ContentType, "application/json")
}

// Forwarder performs the outbound POST to a whitelisted target.
type Forwarder struct {
	client  *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

// NewForwarder creates a forwarder. If client is nil, a pooled client is
// created. Upstream redirects are followed the way net/http does by default.
func NewForwarder(cfg *config.RelayConfig, client *http.Client) *Forwarder {
	if client == nil {
		transport := &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			ForceAttemptHTTP2:   true,
		}
		client = &http.Client{Transport: transport}
	}
	return &Forwarder{
		client:  client,
		timeout: cfg.UpstreamTimeout,
		logger:  slog.Default().With("component", "relay.forwarder"),
	}
}

// Forward POSTs body to target with the given headers and captures the
// response. Content-Type defaults to application/json when headers does
// not set it. Any HTTP response, whatever its status, is a success.
func (f *Forwarder) Forward(ctx context.Context, target string, headers http.Header, body []byte) (*Response, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return nil, &UpstreamError{URL: target, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	for name, values := range headers {
		req.Header[name] = append([]string(nil), values...)
	}
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &UpstreamError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{URL: target, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	out := &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        data,
		Duration:    time.Since(start),
	}

	f.logger.DebugContext(ctx, "upstream request completed",
		"target", target,
		"status", out.StatusCode,
		"bytes", len(out.Body),
		"duration_ms", out.Duration.Milliseconds(),
	)

	return out, nil
}
