package handlers

import (
	"context"
	"errors"
	"log/slog"

	"tunnelgate/relay/pkg/telemetry/metrics"
	"tunnelgate/relay/pkg/telemetry/tracing"
	"tunnelgate/relay/pkg/vpn"
)

// VPNGate combines a prober and an establisher and records their outcomes.
// It holds no state between calls; concurrent requests may each run the
// setup script.
type VPNGate struct {
	prober      vpn.Prober
	establisher vpn.Establisher
	metrics     *metrics.Collector
	logger      *slog.Logger
}

// NewVPNGate creates a gate. collector may be nil.
func NewVPNGate(prober vpn.Prober, establisher vpn.Establisher, collector *metrics.Collector) *VPNGate {
	return &VPNGate{
		prober:      prober,
		establisher: establisher,
		metrics:     collector,
		logger:      slog.Default().With("component", "vpn.gate"),
	}
}

// Probe reports whether the tunnel is up.
func (g *VPNGate) Probe(ctx context.Context) (bool, error) {
	ctx, span := tracing.Start(ctx, tracing.SpanProbe)
	defer span.End()

	connected, err := g.prober.IsConnected(ctx)
	switch {
	case err != nil:
		tracing.SetError(span, err)
		g.metrics.RecordProbe(metrics.ProbeError)
		g.logger.WarnContext(ctx, "vpn probe failed", "error", err)
	case connected:
		g.metrics.RecordProbe(metrics.ProbeConnected)
	default:
		g.metrics.RecordProbe(metrics.ProbeExposed)
	}
	if err == nil {
		tracing.SetProbeAttributes(span, connected)
	}
	return connected, err
}

// Establish runs the setup command once. Callers decide the outcome by
// probing afterwards. The run is bounded by setup_timeout only: a client
// that disconnects does not kill a half-configured tunnel.
func (g *VPNGate) Establish(ctx context.Context) vpn.EstablishResult {
	ctx, span := tracing.Start(ctx, tracing.SpanEstablish)
	defer span.End()

	result := g.establisher.Establish(context.WithoutCancel(ctx))
	tracing.SetEstablishAttributes(span, result.ExitCode, result.Duration.Milliseconds())
	tracing.SetError(span, result.Err)

	outcome := metrics.EstablishSuccess
	switch {
	case errors.Is(result.Err, vpn.ErrSetupTimeout):
		outcome = metrics.EstablishTimeout
	case !result.Succeeded():
		outcome = metrics.EstablishFailure
	}
	g.metrics.RecordEstablish(outcome, result.Duration)
	g.logger.InfoContext(ctx, "vpn setup finished",
		"outcome", outcome,
		"exit_code", result.ExitCode,
		"duration_ms", result.Duration.Milliseconds(),
	)

	return result
}

// Ensure probes and, when the tunnel is down or its state unknown, runs the
// setup command and probes once more. The second probe decides: its error
// is returned as is.
func (g *VPNGate) Ensure(ctx context.Context) (bool, error) {
	connected, err := g.Probe(ctx)
	if err == nil && connected {
		return true, nil
	}

	g.logger.InfoContext(ctx, "vpn not connected, establishing", "probe_error", err != nil)
	g.Establish(ctx)

	return g.Probe(ctx)
}
