package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tunnelgate/relay/pkg/cli"
	"tunnelgate/relay/pkg/proxy/types"
	"tunnelgate/relay/pkg/vpn"
)

var checkFlags struct {
	output string
}

// vpnReport is the result printed by check and connect.
type vpnReport struct {
	Connected  bool   `json:"connected"`
	IP         string `json:"ip,omitempty"`
	Message    string `json:"message"`
	DurationMS int64  `json:"duration_ms"`

	// Setup is only set by connect.
	Setup *setupReport `json:"setup,omitempty"`
}

type setupReport struct {
	ExitCode   int    `json:"exit_code"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
	Output     string `json:"output,omitempty"`
}

func (r vpnReport) String() string {
	mark := "✓"
	if !r.Connected {
		mark = "✗"
	}
	s := fmt.Sprintf("%s %s", mark, r.Message)
	if r.IP != "" {
		s += fmt.Sprintf(" (ip %s)", r.IP)
	}
	if r.Setup != nil {
		s = fmt.Sprintf("Setup exited with code %d after %dms\n", r.Setup.ExitCode, r.Setup.DurationMS) + s
	}
	return s
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether the public IP is protected by PIA",
	Long: `Query the PIA location and exposure-check endpoints once and report
whether egress traffic is protected.

Exits with status 3 when the IP is exposed.

Examples:
  tunnelgate check
  tunnelgate check --output json`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkFlags.output, "output", "o", "text", "output format: text, json")
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(checkFlags.output)
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

	report, err := probeReport(cmd, vpn.NewPIAProber(&cfg.VPN, nil))
	if err != nil {
		return cli.NewCommandError("check", err)
	}

	return printReport(cmd, format, report)
}

// probeReport runs one probe and converts it into a report.
func probeReport(cmd *cobra.Command, prober *vpn.PIAProber) (vpnReport, error) {
	result, err := prober.Probe(cmd.Context())
	if err != nil {
		return vpnReport{}, err
	}

	report := vpnReport{
		Connected:  result.Connected,
		IP:         result.IP,
		Message:    types.MessageProtected,
		DurationMS: result.Duration.Milliseconds(),
	}
	if !result.Connected {
		report.Message = types.MessageExposed
	}
	return report, nil
}

// printReport writes report in format and returns cli.ErrExposed when the
// IP is not protected.
func printReport(cmd *cobra.Command, format cli.OutputFormat, report vpnReport) error {
	if err := cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), report); err != nil {
		return err
	}
	if !report.Connected {
		return cli.ErrExposed
	}
	return nil
}
