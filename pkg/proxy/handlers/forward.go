package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"tunnelgate/relay/pkg/config"
	"tunnelgate/relay/pkg/persist"
	"tunnelgate/relay/pkg/proxy/types"
	"tunnelgate/relay/pkg/relay"
	"tunnelgate/relay/pkg/telemetry/metrics"
	"tunnelgate/relay/pkg/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

// Request headers read by the forward handler.
const (
	TargetDomainHeader = "Target-Domain"
	FilenameHeader     = "Filename"
)

// defaultContentType is used for relayed bodies whose upstream response
// had no Content-Type.
const defaultContentType = "text/plain; charset=utf-8"

// ForwardHandler handles POST /forward.
type ForwardHandler struct {
	ensureVPN    bool
	maxBodyBytes int64

	gate      *VPNGate
	whitelist *relay.Whitelist
	headers   *relay.HeaderFilter
	forwarder *relay.Forwarder
	persister *persist.Persister
	metrics   *metrics.Collector
	logger    *slog.Logger
}

// NewForwardHandler creates the relay handler. persister may be nil to
// disable exports; gate is only used when cfg.EnsureVPN is set.
func NewForwardHandler(cfg *config.RelayConfig, gate *VPNGate, forwarder *relay.Forwarder, persister *persist.Persister, collector *metrics.Collector) *ForwardHandler {
	return &ForwardHandler{
		ensureVPN:    cfg.EnsureVPN,
		maxBodyBytes: cfg.MaxBodyBytes,
		gate:         gate,
		whitelist:    relay.NewWhitelist(cfg.WhitelistedDomains, cfg.WhitelistMode),
		headers:      relay.NewHeaderFilter(cfg.ForwardHeaders),
		forwarder:    forwarder,
		persister:    persister,
		metrics:      collector,
		logger:       slog.Default().With("component", "relay"),
	}
}

// ServeHTTP implements http.Handler.
func (h *ForwardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	ctx := r.Context()

	// The body is consumed before the VPN gate: a setup run can outlast
	// the server read deadline, after which the body is unreadable.
	body, status, message := h.readBody(w, r)
	if status != 0 {
		writeError(w, status, message)
		return
	}

	if h.ensureVPN {
		connected, err := h.gate.Ensure(ctx)
		if err != nil {
			writeError(w, gatewayStatus(err), "Unable to verify VPN connection: "+err.Error())
			return
		}
		if !connected {
			h.logger.WarnContext(ctx, "refusing to forward without vpn")
			writeError(w, http.StatusServiceUnavailable, types.MessageVPNFailed)
			return
		}
	}

	target := r.Header.Get(TargetDomainHeader)
	if !h.whitelist.Allowed(target) {
		h.metrics.RecordWhitelistRejection()
		h.logger.WarnContext(ctx, "target rejected by whitelist", "target", target, "mode", h.whitelist.Mode())
		writeError(w, http.StatusForbidden, types.MessageInvalidTarget)
		return
	}

	resp, err := h.forward(ctx, target, r.Header, body)
	if err != nil {
		code := gatewayStatus(err)
		h.logger.WarnContext(ctx, "upstream request failed", "target", target, "error", err)
		if code == http.StatusGatewayTimeout {
			writeError(w, code, "Upstream request timed out.")
		} else {
			writeError(w, code, "Upstream request failed.")
		}
		return
	}
	h.metrics.RecordUpstream(resp.Duration)

	if name := r.Header.Get(FilenameHeader); name != "" {
		h.export(r, name, resp)
	}

	h.writeUpstream(w, resp)
}

// forward relays body to target under a relay.forward span.
func (h *ForwardHandler) forward(ctx context.Context, target string, inbound http.Header, body []byte) (*relay.Response, error) {
	ctx, span := tracing.Start(ctx, tracing.SpanForward, attribute.String(tracing.AttrTarget, target))
	defer span.End()

	resp, err := h.forwarder.Forward(ctx, target, h.headers.Filter(inbound), body)
	if err != nil {
		tracing.SetError(span, err)
		return nil, err
	}
	tracing.SetUpstreamAttributes(span, target, resp.StatusCode)
	return resp, nil
}

// readBody reads the request body. A non-zero status means the request
// must be rejected with that status and message.
func (h *ForwardHandler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, int, string) {
	reader := io.Reader(r.Body)
	if h.maxBodyBytes > 0 {
		reader = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, http.StatusRequestEntityTooLarge, types.MessageBodyTooLarge
		}
		return nil, http.StatusBadRequest, "Failed to read request body."
	}

	if len(body) > 0 && !json.Valid(body) {
		return nil, http.StatusBadRequest, types.MessageInvalidJSON
	}
	return body, 0, ""
}

// export writes a JSON response to the export directory. Failures are
// logged and counted only.
func (h *ForwardHandler) export(r *http.Request, name string, resp *relay.Response) {
	if h.persister == nil || !resp.IsJSON() {
		return
	}

	_, span := tracing.Start(r.Context(), tracing.SpanPersist)
	defer span.End()

	path, err := h.persister.Save(name, resp.Body)
	if err != nil {
		tracing.SetError(span, err)
		h.metrics.RecordPersist(metrics.PersistError)
		h.logger.WarnContext(r.Context(), "failed to export response", "filename", name, "error", err)
		return
	}
	tracing.SetPersistAttributes(span, path)
	h.metrics.RecordPersist(metrics.PersistSuccess)
	h.logger.InfoContext(r.Context(), "response exported", "path", path)
}

// writeUpstream relays the upstream response. JSON bodies are re-encoded;
// everything else is passed through byte for byte.
func (h *ForwardHandler) writeUpstream(w http.ResponseWriter, resp *relay.Response) {
	if resp.IsJSON() {
		if encoded, err := relay.Reencode(resp.Body, ""); err == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(resp.StatusCode)
			_, _ = w.Write(encoded)
			return
		}
	}

	contentType := resp.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(resp.Body)
}
