package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "0.0.0.0:5000"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 5 * time.Minute
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB

	// Relay defaults
	DefaultWhitelistMode   = WhitelistModeExact
	DefaultUpstreamTimeout = 60 * time.Second
	DefaultMaxBodyBytes    = int64(10 * 1024 * 1024)

	// VPN defaults
	DefaultLocationURL     = "https://www.privateinternetaccess.com/site-api/get-location-info"
	DefaultExposedCheckURL = "https://www.privateinternetaccess.com/site-api/exposed-check"
	DefaultProbeTimeout    = 15 * time.Second
	DefaultSetupDir        = "/pia-manual"
	DefaultSetupTimeout    = 2 * time.Minute

	// Persist defaults
	DefaultPersistEnabled    = true
	DefaultPersistDirectory  = "/app/json_files"
	DefaultPersistFileMode   = uint32(0o644)
	DefaultRetentionSchedule = "@daily"

	// Telemetry defaults
	DefaultLoggingLevel    = "info"
	DefaultLoggingFormat   = "json"
	DefaultRedactSecrets   = true
	DefaultMetricsEnabled  = true
	DefaultMetricsPath     = "/metrics"
	DefaultMetricNamespace = "tunnelgate"
	DefaultTracingSampler  = "ratio"
	DefaultTracingRatio    = 1.0
	DefaultTracingTimeout  = 10 * time.Second
	DefaultServiceName     = "tunnelgate"
)

// DefaultSetupCommand returns the default VPN setup argv.
func DefaultSetupCommand() []string {
	return []string{"bash", "run_setup.sh"}
}

// VPNClientEnvKeys lists the environment variables forwarded to the VPN
// setup command.
var VPNClientEnvKeys = []string{
	"VPN_PROTOCOL", "DISABLE_IPV6", "MAX_LATENCY", "DIP_TOKEN", "AUTOCONNECT",
	"PIA_PF", "PIA_DNS", "PIA_USER", "PIA_PASS",
}

// Default returns a configuration populated with every default, including
// the boolean ones that cannot be told apart from an explicit false once a
// file has been parsed. File loading decodes on top of this value.
func Default() *Config {
	cfg := &Config{}
	cfg.Persist.Enabled = DefaultPersistEnabled
	cfg.Telemetry.Logging.RedactSecrets = DefaultRedactSecrets
	cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}

	// Relay defaults
	if cfg.Relay.WhitelistMode == "" {
		cfg.Relay.WhitelistMode = DefaultWhitelistMode
	}
	if cfg.Relay.UpstreamTimeout == 0 {
		cfg.Relay.UpstreamTimeout = DefaultUpstreamTimeout
	}
	if cfg.Relay.MaxBodyBytes == 0 {
		cfg.Relay.MaxBodyBytes = DefaultMaxBodyBytes
	}

	// VPN defaults
	if cfg.VPN.LocationURL == "" {
		cfg.VPN.LocationURL = DefaultLocationURL
	}
	if cfg.VPN.ExposedCheckURL == "" {
		cfg.VPN.ExposedCheckURL = DefaultExposedCheckURL
	}
	if cfg.VPN.ProbeTimeout == 0 {
		cfg.VPN.ProbeTimeout = DefaultProbeTimeout
	}
	if len(cfg.VPN.SetupCommand) == 0 {
		cfg.VPN.SetupCommand = DefaultSetupCommand()
	}
	if cfg.VPN.SetupDir == "" {
		cfg.VPN.SetupDir = DefaultSetupDir
	}
	if cfg.VPN.SetupTimeout == 0 {
		cfg.VPN.SetupTimeout = DefaultSetupTimeout
	}
	if cfg.VPN.ClientEnv == nil {
		cfg.VPN.ClientEnv = make(map[string]string)
	}

	// Persist defaults
	if cfg.Persist.Directory == "" {
		cfg.Persist.Directory = DefaultPersistDirectory
	}
	if cfg.Persist.FileMode == 0 {
		cfg.Persist.FileMode = DefaultPersistFileMode
	}
	if cfg.Persist.Retention.Schedule == "" {
		cfg.Persist.Retention.Schedule = DefaultRetentionSchedule
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricNamespace
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingRatio
	}
	if cfg.Telemetry.Tracing.Timeout == 0 {
		cfg.Telemetry.Tracing.Timeout = DefaultTracingTimeout
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultServiceName
	}
}
