// Package logging builds the process-wide slog logger.
//
// # Overview
//
// New wraps a JSON or text slog handler with two decorators:
//   - a redacting handler that masks credential-bearing attributes such as
//     pia_pass, dip_token or Authorization header values
//   - a context handler that adds the request_id stored by the request ID
//     middleware to every record logged with a context
//
// # Usage
//
//	logger, err := logging.New(cfg.Telemetry.Logging, os.Stdout)
//	if err != nil {
//	    return err
//	}
//	slog.SetDefault(logger)
//
//	ctx = logging.WithRequestID(ctx, "0b6c...")
//	slog.InfoContext(ctx, "forwarding request", "pia_pass", pass)
//	// {"msg":"forwarding request","pia_pass":"[REDACTED]","request_id":"0b6c..."}
package logging
