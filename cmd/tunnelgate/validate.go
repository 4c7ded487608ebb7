package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tunnelgate/relay/pkg/config"
	"tunnelgate/relay/pkg/relay"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Long: `Load the configuration file and environment overrides, validate them
and print the effective relay settings.

Secrets such as PIA_PASS are never printed.

Examples:
  tunnelgate validate --config config.yaml
  WHITELISTED_DOMAINS=https://api.example.com tunnelgate validate`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	whitelist := relay.NewWhitelist(cfg.Relay.WhitelistedDomains, cfg.Relay.WhitelistMode)
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "✓ Configuration valid")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Listen address:   %s\n", cfg.Server.ListenAddress)
	fmt.Fprintf(out, "Whitelist mode:   %s\n", whitelist.Mode())
	if whitelist.Mode() == config.WhitelistModeExact {
		fmt.Fprintf(out, "Whitelist:        %d entries\n", whitelist.Len())
	}
	fmt.Fprintf(out, "Forward headers:  %s\n", listOrNone(cfg.Relay.ForwardHeaders))
	fmt.Fprintf(out, "Ensure VPN:       %t\n", cfg.Relay.EnsureVPN)
	fmt.Fprintf(out, "VPN setup:        %s (in %s)\n", strings.Join(cfg.VPN.SetupCommand, " "), cfg.VPN.SetupDir)
	fmt.Fprintf(out, "VPN client vars:  %s\n", listOrNone(clientVarNames(cfg.VPN.ClientEnv)))
	if cfg.Persist.Enabled {
		fmt.Fprintf(out, "Export directory: %s\n", cfg.Persist.Directory)
	} else {
		fmt.Fprintln(out, "Export directory: disabled")
	}

	if cfg.Relay.WhitelistedDomains == "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "⚠ WHITELISTED_DOMAINS is empty: every /forward request will be rejected")
	}

	return nil
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}

// clientVarNames returns the configured VPN client variable names in the
// order they are documented.
func clientVarNames(env map[string]string) []string {
	var names []string
	for _, key := range config.VPNClientEnvKeys {
		if env[key] != "" {
			names = append(names, key)
		}
	}
	return names
}
