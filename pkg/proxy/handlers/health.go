package handlers

import (
	"time"

	"tunnelgate/relay/pkg/config"
	"tunnelgate/relay/pkg/telemetry/health"
)

// readinessTimeout bounds each readiness check.
const readinessTimeout = 2 * time.Second

// NewReadinessChecker creates the health checker behind /health and /ready.
// It checks that the export directory is writable when persistence is
// enabled, and that the VPN setup directory exists when forwarding is gated
// on the VPN.
func NewReadinessChecker(cfg *config.Config) *health.Checker {
	checker := health.New(readinessTimeout)
	if cfg.Persist.Enabled {
		checker.RegisterCheck("export_dir", health.DirWritable(cfg.Persist.Directory))
	}
	if cfg.Relay.EnsureVPN {
		checker.RegisterCheck("vpn_setup_dir", health.DirExists(cfg.VPN.SetupDir))
	}
	return checker
}
