package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for tunnelgate's own environment overrides.
const EnvPrefix = "TUNNELGATE_"

// LoadConfig loads configuration from a YAML file at the specified path.
// The file is decoded on top of Default, so omitted fields keep their
// default values. The configuration is not modified by environment
// variables; use LoadConfigWithEnvOverrides for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration and applies environment
// variable overrides. An empty path skips the file and starts from defaults.
//
// The loading sequence is:
//  1. Load YAML from file (if path is set)
//  2. Apply default values
//  3. Apply environment variable overrides
//  4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	var cfg *Config
	if path == "" {
		cfg = Default()
	} else {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	applyEnvOverrides(cfg)
	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// FromEnv builds the configuration from defaults and the process
// environment only.
func FromEnv() (*Config, error) {
	return LoadConfigWithEnvOverrides("")
}

// LegacyWhitelistNotice returns a warning when the whitelist came from the
// WHITELISTED_DOMAINS variable while exact matching is active. Deployments
// written against substring matching may otherwise lose targets silently.
// It returns "" when there is nothing to report.
func LegacyWhitelistNotice(cfg *Config) string {
	if os.Getenv("WHITELISTED_DOMAINS") == "" || cfg.Relay.WhitelistMode != WhitelistModeExact {
		return ""
	}
	return "WHITELISTED_DOMAINS is matched per entry (whitelist_mode=exact); " +
		"set " + EnvPrefix + "RELAY_WHITELIST_MODE=substring for raw substring matching"
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. The relay and VPN client variables keep their historical
// unprefixed names; everything else uses TUNNELGATE_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Relay policy
	if val := os.Getenv("WHITELISTED_DOMAINS"); val != "" {
		cfg.Relay.WhitelistedDomains = val
	}
	if val, ok := os.LookupEnv("ENSURE_VPN"); ok {
		cfg.Relay.EnsureVPN = strings.EqualFold(strings.TrimSpace(val), "true")
	}
	if val := os.Getenv("FORWARD_HEADERS"); val != "" {
		cfg.Relay.ForwardHeaders = SplitList(val)
	}
	envString(EnvPrefix+"RELAY_WHITELIST_MODE", &cfg.Relay.WhitelistMode)
	envDuration(EnvPrefix+"RELAY_UPSTREAM_TIMEOUT", &cfg.Relay.UpstreamTimeout)
	if val := os.Getenv(EnvPrefix + "RELAY_MAX_BODY_BYTES"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Relay.MaxBodyBytes = i
		}
	}

	// VPN client variables
	if cfg.VPN.ClientEnv == nil {
		cfg.VPN.ClientEnv = make(map[string]string)
	}
	for _, key := range VPNClientEnvKeys {
		if val := os.Getenv(key); val != "" {
			cfg.VPN.ClientEnv[key] = val
		}
	}
	envString(EnvPrefix+"VPN_LOCATION_URL", &cfg.VPN.LocationURL)
	envString(EnvPrefix+"VPN_EXPOSED_CHECK_URL", &cfg.VPN.ExposedCheckURL)
	envDuration(EnvPrefix+"VPN_PROBE_TIMEOUT", &cfg.VPN.ProbeTimeout)
	envString(EnvPrefix+"VPN_SETUP_DIR", &cfg.VPN.SetupDir)
	envDuration(EnvPrefix+"VPN_SETUP_TIMEOUT", &cfg.VPN.SetupTimeout)
	envString(EnvPrefix+"VPN_WATCH_SCHEDULE", &cfg.VPN.WatchSchedule)
	if val := os.Getenv(EnvPrefix + "VPN_SETUP_COMMAND"); val != "" {
		cfg.VPN.SetupCommand = strings.Fields(val)
	}

	// Server overrides
	envString(EnvPrefix+"SERVER_LISTEN_ADDRESS", &cfg.Server.ListenAddress)
	envDuration(EnvPrefix+"SERVER_READ_TIMEOUT", &cfg.Server.ReadTimeout)
	envDuration(EnvPrefix+"SERVER_WRITE_TIMEOUT", &cfg.Server.WriteTimeout)
	envDuration(EnvPrefix+"SERVER_IDLE_TIMEOUT", &cfg.Server.IdleTimeout)
	envDuration(EnvPrefix+"SERVER_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)
	if val := os.Getenv(EnvPrefix + "SERVER_MAX_HEADER_BYTES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Server.MaxHeaderBytes = i
		}
	}

	// Persist overrides
	envBool(EnvPrefix+"PERSIST_ENABLED", &cfg.Persist.Enabled)
	envString(EnvPrefix+"PERSIST_DIRECTORY", &cfg.Persist.Directory)
	envDuration(EnvPrefix+"PERSIST_RETENTION_MAX_AGE", &cfg.Persist.Retention.MaxAge)
	envString(EnvPrefix+"PERSIST_RETENTION_SCHEDULE", &cfg.Persist.Retention.Schedule)

	// Telemetry overrides
	envString(EnvPrefix+"TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	envString(EnvPrefix+"TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	envBool(EnvPrefix+"TELEMETRY_LOGGING_REDACT_SECRETS", &cfg.Telemetry.Logging.RedactSecrets)
	envBool(EnvPrefix+"TELEMETRY_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
	envString(EnvPrefix+"TELEMETRY_METRICS_PATH", &cfg.Telemetry.Metrics.Path)
	envBool(EnvPrefix+"TELEMETRY_TRACING_ENABLED", &cfg.Telemetry.Tracing.Enabled)
	envString(EnvPrefix+"TELEMETRY_TRACING_ENDPOINT", &cfg.Telemetry.Tracing.Endpoint)
	envString(EnvPrefix+"TELEMETRY_TRACING_SAMPLER", &cfg.Telemetry.Tracing.Sampler)
	envBool(EnvPrefix+"TELEMETRY_TRACING_INSECURE", &cfg.Telemetry.Tracing.Insecure)
	if val := os.Getenv(EnvPrefix + "TELEMETRY_TRACING_SAMPLE_RATIO"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Telemetry.Tracing.SampleRatio = f
		}
	}
}

// SplitList splits a comma-separated value, trimming whitespace and
// dropping empty entries.
func SplitList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envString(key string, dst *string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func envDuration(key string, dst *time.Duration) {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}

func envBool(key string, dst *bool) {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}
