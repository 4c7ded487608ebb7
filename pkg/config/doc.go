// Package config provides configuration management for tunnelgate.
//
// Configuration is loaded once at startup into a Config value and passed to
// every component. Handlers never read the process environment themselves.
//
// # Configuration Loading
//
//  1. From defaults and the environment only:
//     cfg, err := config.FromEnv()
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("tunnelgate.yaml")
//
// # Environment Variables
//
// The relay policy and VPN client settings use their historical names:
//
//   - WHITELISTED_DOMAINS sets relay.whitelisted_domains
//   - ENSURE_VPN ("true", case-insensitive) sets relay.ensure_vpn
//   - FORWARD_HEADERS (comma-separated) sets relay.forward_headers
//   - VPN_PROTOCOL, DISABLE_IPV6, MAX_LATENCY, DIP_TOKEN, AUTOCONNECT,
//     PIA_PF, PIA_DNS, PIA_USER, PIA_PASS populate vpn.client_env
//
// Every other setting can be overridden with TUNNELGATE_SECTION_FIELD, for
// example TUNNELGATE_SERVER_LISTEN_ADDRESS or TUNNELGATE_PERSIST_DIRECTORY.
//
// # Configuration Precedence
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Example Configuration
//
//	server:
//	  listen_address: "0.0.0.0:5000"
//
//	relay:
//	  whitelisted_domains: "https://api.example.com, hooks.example.org"
//	  whitelist_mode: "exact"
//	  forward_headers: ["Authorization", "X-Trace"]
//	  ensure_vpn: true
//
//	vpn:
//	  setup_dir: "/pia-manual"
//	  watch_schedule: "@every 5m"
//
//	persist:
//	  directory: "/app/json_files"
//	  retention:
//	    max_age: "720h"
package config
