/*
Package cli provides command-line helpers shared by the tunnelgate commands.

Output Formatting:

Commands that print a result support text and JSON output:

	format, err := cli.ParseOutputFormat(flagValue)
	if err != nil {
		return err
	}
	return cli.NewFormatter(format).FormatTo(os.Stdout, report)

Exit Codes:

ExitCode maps a command error to the process exit status: configuration
errors exit with 2, an exposed VPN with 3 and every other failure with 1.

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler()
	defer stop()
*/
package cli
