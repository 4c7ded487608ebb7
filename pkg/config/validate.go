package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. All validation errors are collected and
// returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateRelay(&cfg.Relay)...)
	errs = append(errs, validateVPN(&cfg.VPN)...)
	errs = append(errs, validatePersist(&cfg.Persist)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{Field: "server.listen_address", Message: "listen address is required"})
	}
	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.read_timeout", Message: "read timeout must be positive"})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.write_timeout", Message: "write timeout must be positive"})
	}
	if cfg.IdleTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.idle_timeout", Message: "idle timeout must be positive"})
	}
	if cfg.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.shutdown_timeout", Message: "shutdown timeout must be positive"})
	}
	if cfg.MaxHeaderBytes < 0 {
		errs = append(errs, FieldError{Field: "server.max_header_bytes", Message: "max header bytes must be non-negative"})
	}
	if cfg.MaxHeaderBytes > 10*1024*1024 {
		errs = append(errs, FieldError{Field: "server.max_header_bytes", Message: "max header bytes exceeds reasonable limit (10MB)"})
	}

	return errs
}

func validateRelay(cfg *RelayConfig) []FieldError {
	var errs []FieldError

	switch cfg.WhitelistMode {
	case WhitelistModeExact, WhitelistModeSubstring:
	default:
		errs = append(errs, FieldError{
			Field:   "relay.whitelist_mode",
			Message: fmt.Sprintf("invalid mode %q (must be %q or %q)", cfg.WhitelistMode, WhitelistModeExact, WhitelistModeSubstring),
		})
	}

	if cfg.UpstreamTimeout < 0 {
		errs = append(errs, FieldError{Field: "relay.upstream_timeout", Message: "upstream timeout must be positive"})
	}
	if cfg.MaxBodyBytes < 0 {
		errs = append(errs, FieldError{Field: "relay.max_body_bytes", Message: "max body bytes must be non-negative"})
	}

	for i, name := range cfg.ForwardHeaders {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("relay.forward_headers[%d]", i),
				Message: "header name must not be empty",
			})
		}
	}

	return errs
}

func validateVPN(cfg *VPNConfig) []FieldError {
	var errs []FieldError

	if err := validateHTTPURL(cfg.LocationURL); err != nil {
		errs = append(errs, FieldError{Field: "vpn.location_url", Message: err.Error()})
	}
	if err := validateHTTPURL(cfg.ExposedCheckURL); err != nil {
		errs = append(errs, FieldError{Field: "vpn.exposed_check_url", Message: err.Error()})
	}
	if cfg.ProbeTimeout < 0 {
		errs = append(errs, FieldError{Field: "vpn.probe_timeout", Message: "probe timeout must be positive"})
	}
	if cfg.SetupTimeout < 0 {
		errs = append(errs, FieldError{Field: "vpn.setup_timeout", Message: "setup timeout must be positive"})
	}
	if len(cfg.SetupCommand) == 0 || strings.TrimSpace(cfg.SetupCommand[0]) == "" {
		errs = append(errs, FieldError{Field: "vpn.setup_command", Message: "setup command is required"})
	}
	if cfg.WatchSchedule != "" {
		if _, err := cron.ParseStandard(cfg.WatchSchedule); err != nil {
			errs = append(errs, FieldError{Field: "vpn.watch_schedule", Message: fmt.Sprintf("invalid cron expression: %v", err)})
		}
	}

	return errs
}

func validatePersist(cfg *PersistConfig) []FieldError {
	var errs []FieldError

	if cfg.Enabled && cfg.Directory == "" {
		errs = append(errs, FieldError{Field: "persist.directory", Message: "directory is required when persistence is enabled"})
	}
	if cfg.FileMode > 0o777 {
		errs = append(errs, FieldError{Field: "persist.file_mode", Message: "file mode must be a permission value (<= 0777)"})
	}
	if cfg.Retention.MaxAge < 0 {
		errs = append(errs, FieldError{Field: "persist.retention.max_age", Message: "max age must be non-negative"})
	}
	if cfg.Retention.MaxAge > 0 {
		if _, err := cron.ParseStandard(cfg.Retention.Schedule); err != nil {
			errs = append(errs, FieldError{Field: "persist.retention.schedule", Message: fmt.Sprintf("invalid cron expression: %v", err)})
		}
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid log level %q (must be debug, info, warn, or error)", cfg.Logging.Level),
		})
	}

	switch strings.ToLower(cfg.Logging.Format) {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid log format %q (must be json or text)", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{Field: "telemetry.metrics.path", Message: "metrics path must start with /"})
	}

	switch cfg.Tracing.Sampler {
	case "always", "never", "ratio":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sampler",
			Message: fmt.Sprintf("invalid sampler %q (must be always, never, or ratio)", cfg.Tracing.Sampler),
		})
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1.0 {
		errs = append(errs, FieldError{Field: "telemetry.tracing.sample_ratio", Message: "sample ratio must be between 0.0 and 1.0"})
	}
	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, FieldError{Field: "telemetry.tracing.endpoint", Message: "tracing endpoint is required when tracing is enabled"})
	}

	return errs
}

// validateHTTPURL checks that raw is an absolute http(s) URL.
func validateHTTPURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("URL is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https")
	}
	if u.Host == "" {
		return fmt.Errorf("URL must include a host")
	}
	return nil
}
