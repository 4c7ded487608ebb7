package config

import "time"

// Config is the root configuration structure for tunnelgate.
// It is built once at startup and handed to every component explicitly;
// nothing reads the process environment after loading.
type Config struct {
	// Server contains HTTP server configuration including listen address
	// and timeouts.
	Server ServerConfig `yaml:"server"`

	// Relay contains the forwarding policy: domain whitelist, header
	// allowlist and VPN enforcement.
	Relay RelayConfig `yaml:"relay"`

	// VPN contains the connectivity prober and setup script configuration.
	VPN VPNConfig `yaml:"vpn"`

	// Persist contains configuration for exporting upstream JSON responses
	// to disk.
	Persist PersistConfig `yaml:"persist"`

	// Telemetry contains logging, metrics and tracing configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port for the server to listen on.
	// Format: "host:port".
	// Default: "0.0.0.0:5000"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. It must leave room for a VPN setup run plus the upstream call
	// when VPN enforcement is enabled.
	// Default: 5m
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	// when keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits the size of request headers.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`
}

// Whitelist matching modes.
const (
	// WhitelistModeExact matches targets against parsed whitelist entries.
	WhitelistModeExact = "exact"

	// WhitelistModeSubstring accepts any target contained in the raw
	// whitelist string. The target must still be an absolute http(s) URL:
	// a bare host such as "example.com" is rejected even when the raw
	// string contains it.
	WhitelistModeSubstring = "substring"
)

// RelayConfig contains the forwarding policy.
type RelayConfig struct {
	// WhitelistedDomains is the raw whitelist string. In exact mode it is
	// split on commas and whitespace into URL or host entries.
	// Env: WHITELISTED_DOMAINS
	WhitelistedDomains string `yaml:"whitelisted_domains"`

	// WhitelistMode selects how Target-Domain is checked. Both modes
	// require Target-Domain to be an absolute http or https URL.
	// Options: "exact", "substring"
	// Default: "exact"
	WhitelistMode string `yaml:"whitelist_mode"`

	// ForwardHeaders lists the inbound header names copied to the upstream
	// request. Names are compared against the canonical header form.
	// Env: FORWARD_HEADERS (comma-separated)
	ForwardHeaders []string `yaml:"forward_headers"`

	// EnsureVPN gates forwarding on an active VPN tunnel.
	// Env: ENSURE_VPN ("true" enables, anything else disables)
	// Default: false
	EnsureVPN bool `yaml:"ensure_vpn"`

	// UpstreamTimeout bounds the outbound call to the target domain.
	// Default: 60s
	UpstreamTimeout time.Duration `yaml:"upstream_timeout"`

	// MaxBodyBytes limits the inbound request body size.
	// Default: 10485760 (10MB)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

// VPNConfig contains configuration for probing and establishing the tunnel.
type VPNConfig struct {
	// LocationURL is the IP location lookup endpoint. It must return a JSON
	// object with an "ip" field.
	LocationURL string `yaml:"location_url"`

	// ExposedCheckURL is the exposure check endpoint. It receives
	// {"ipAddress": ip} and returns a JSON object with a "status" field.
	ExposedCheckURL string `yaml:"exposed_check_url"`

	// ProbeTimeout bounds each of the two probe calls.
	// Default: 15s
	ProbeTimeout time.Duration `yaml:"probe_timeout"`

	// SetupCommand is the argv of the VPN client setup script.
	// Default: ["bash", "run_setup.sh"]
	SetupCommand []string `yaml:"setup_command"`

	// SetupDir is the working directory of the setup command.
	// Default: "/pia-manual"
	SetupDir string `yaml:"setup_dir"`

	// SetupTimeout bounds a single setup run.
	// Default: 2m
	SetupTimeout time.Duration `yaml:"setup_timeout"`

	// ClientEnv holds the VPN client variables passed to the setup command
	// on top of the process environment. Only non-empty values are kept.
	// Env: VPN_PROTOCOL, DISABLE_IPV6, MAX_LATENCY, DIP_TOKEN, AUTOCONNECT,
	// PIA_PF, PIA_DNS, PIA_USER, PIA_PASS
	ClientEnv map[string]string `yaml:"client_env"`

	// WatchSchedule is a cron expression for the background connectivity
	// probe that feeds the vpn_connected gauge. Empty disables it.
	// Example: "@every 5m"
	WatchSchedule string `yaml:"watch_schedule"`
}

// PersistConfig contains configuration for response export.
type PersistConfig struct {
	// Enabled controls whether responses carrying a Filename header are
	// written to disk.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Directory is where exported responses are written.
	// Default: "/app/json_files"
	Directory string `yaml:"directory"`

	// FileMode is the permission used for new export files.
	// Default: 0644
	FileMode uint32 `yaml:"file_mode"`

	// Retention controls pruning of old exports.
	Retention RetentionConfig `yaml:"retention"`
}

// RetentionConfig controls scheduled pruning of the export directory.
type RetentionConfig struct {
	// MaxAge is the age after which export files are deleted.
	// 0 keeps exports forever.
	// Default: 0
	MaxAge time.Duration `yaml:"max_age"`

	// Schedule is a cron expression for running the pruner.
	// Default: "@daily"
	Schedule string `yaml:"schedule"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains OpenTelemetry tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`

	// RedactSecrets replaces credential values in log attributes.
	// Default: true
	RedactSecrets bool `yaml:"redact_secrets"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and exposed.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace prefixes every metric name.
	// Default: "tunnelgate"
	Namespace string `yaml:"namespace"`
}

// TracingConfig contains OpenTelemetry tracing configuration.
type TracingConfig struct {
	// Enabled controls whether spans are exported.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Only used when Sampler is "ratio".
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector endpoint.
	// Example: "otel-collector:4317"
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS for the collector connection.
	// Default: false
	Insecure bool `yaml:"insecure"`

	// Timeout bounds each export.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`

	// ServiceName is the service.name resource attribute.
	// Default: "tunnelgate"
	ServiceName string `yaml:"service_name"`
}
