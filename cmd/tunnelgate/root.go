package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"tunnelgate/relay/pkg/cli"
	"tunnelgate/relay/pkg/config"
	"tunnelgate/relay/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "tunnelgate",
	Short: "Tunnelgate - VPN-gated JSON relay",
	Long: `Tunnelgate relays JSON POST requests to whitelisted target domains.

It can require an active Private Internet Access tunnel before forwarding,
running the PIA setup script when the public IP is exposed, and can export
JSON responses to disk.

Configuration comes from an optional YAML file (--config) and the
environment (WHITELISTED_DOMAINS, ENSURE_VPN, FORWARD_HEADERS, PIA_* and
TUNNELGATE_* variables).`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with the command's exit code.
// Commands receive a context that is cancelled on SIGINT or SIGTERM.
func Execute() {
	ctx, stop := cli.SetupSignalHandler()
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults and environment only if empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
}

// loadConfig loads the configuration named by --config with environment
// overrides applied.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError("", err.Error())
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	return cfg, nil
}

// setupLogging installs the configured logger as the slog default.
func setupLogging(cfg *config.Config, w io.Writer) error {
	logger, err := logging.New(cfg.Telemetry.Logging, w)
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger)
	return nil
}
