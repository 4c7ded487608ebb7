package main

import (
	"os"

	"github.com/spf13/cobra"

	"tunnelgate/relay/pkg/cli"
	"tunnelgate/relay/pkg/vpn"
)

var connectFlags struct {
	output     string
	showOutput bool
}

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Run the VPN setup script, then check protection",
	Long: `Run the configured PIA setup command (vpn.setup_command in
vpn.setup_dir, with the PIA_* client variables) and then probe once.

The setup result is reported but does not decide the outcome: only the
probe that follows does. Exits with status 3 when the IP is still exposed.

Examples:
  PIA_USER=p0000000 PIA_PASS=secret tunnelgate connect
  tunnelgate connect --output json --show-output`,
	RunE: runConnect,
}

func init() {
	rootCmd.AddCommand(connectCmd)

	connectCmd.Flags().StringVarP(&connectFlags.output, "output", "o", "text", "output format: text, json")
	connectCmd.Flags().BoolVar(&connectFlags.showOutput, "show-output", false, "include the setup script output")
}

func runConnect(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(connectFlags.output)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := setupLogging(cfg, os.Stderr); err != nil {
		return err
	}

	result := vpn.NewScriptEstablisher(&cfg.VPN).Establish(cmd.Context())
	setup := &setupReport{
		ExitCode:   result.ExitCode,
		DurationMS: result.Duration.Milliseconds(),
	}
	if result.Err != nil {
		setup.Error = result.Err.Error()
	}
	if connectFlags.showOutput {
		setup.Output = result.Output
	}

	report, err := probeReport(cmd, vpn.NewPIAProber(&cfg.VPN, nil))
	if err != nil {
		return cli.NewCommandError("connect", err)
	}
	report.Setup = setup

	return printReport(cmd, format, report)
}
