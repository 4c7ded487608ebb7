package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"tunnelgate/relay/pkg/cli"
	"tunnelgate/relay/pkg/config"
	"tunnelgate/relay/pkg/server"
	"tunnelgate/relay/pkg/telemetry/tracing"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the relay server",
	Long: `Start the relay server with the specified configuration.

The server listens on the configured address and serves /forward,
/check_vpn, /connect_vpn, /health, /ready, /version and /metrics.

Examples:
  # Start with environment configuration
  tunnelgate run

  # Start with a config file
  tunnelgate run --config /etc/tunnelgate/config.yaml

  # Override listen address
  tunnelgate run --listen 0.0.0.0:8080

  # Validate config without starting server
  tunnelgate run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError("", err.Error())
	}

	if err := setupLogging(cfg, os.Stdout); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if runFlags.dryRun {
		fmt.Fprintln(out, "✓ Configuration valid")
		return nil
	}

	printBanner(cmd, cfg)

	tracer, err := tracing.New(cmd.Context(), &cfg.Telemetry.Tracing, Version)
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Telemetry.Tracing.Timeout)
		defer cancel()
		if err := tracer.Shutdown(ctx); err != nil {
			slog.Warn("failed to flush traces", "error", err)
		}
	}()

	srv := server.NewServer(cfg, server.Options{
		Version:   Version,
		Commit:    GitCommit,
		BuildTime: BuildDate,
	})

	if err := srv.Start(cmd.Context()); err != nil {
		slog.Error("server failed", "error", err)
		return cli.NewCommandError("run", err)
	}

	fmt.Fprintln(out, "✓ Server stopped")
	return nil
}

func printBanner(cmd *cobra.Command, cfg *config.Config) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Tunnelgate v%s\n", Version)
	if cfgFile != "" {
		fmt.Fprintf(out, "Loading configuration from: %s\n", cfgFile)
	}
	fmt.Fprintln(out, "✓ Configuration loaded")
	fmt.Fprintf(out, "✓ Listening on %s (ensure_vpn=%t, whitelist_mode=%s)\n",
		cfg.Server.ListenAddress, cfg.Relay.EnsureVPN, cfg.Relay.WhitelistMode)
	if cfg.Telemetry.Metrics.Enabled {
		fmt.Fprintf(out, "✓ Metrics endpoint: %s\n", cfg.Telemetry.Metrics.Path)
	}
	if cfg.Telemetry.Tracing.Enabled {
		fmt.Fprintf(out, "✓ Tracing to %s (sampler=%s)\n", cfg.Telemetry.Tracing.Endpoint, cfg.Telemetry.Tracing.Sampler)
	}
	fmt.Fprintln(out, "\nPress Ctrl+C to stop")

	if notice := config.LegacyWhitelistNotice(cfg); notice != "" {
		slog.Warn(notice)
	}

	slog.Debug("relay configuration",
		"forward_headers", cfg.Relay.ForwardHeaders,
		"persist_enabled", cfg.Persist.Enabled,
		"persist_directory", cfg.Persist.Directory,
		"vpn_setup_dir", cfg.VPN.SetupDir,
	)
}
