package vpn

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Probe stages reported in ProbeError.
const (
	StageLocation = "location"
	StageExposure = "exposure"
)

// ProbeError reports a failed connectivity probe call.
type ProbeError struct {
	// Stage is the probe call that failed ("location" or "exposure").
	Stage string

	// URL is the endpoint that was called.
	URL string

	// StatusCode is the HTTP status (0 if no response was received).
	StatusCode int

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ProbeError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("vpn probe %s call failed (status %d): %v", e.Stage, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("vpn probe %s call failed: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error for error chain support.
func (e *ProbeError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the probe failed because a deadline was exceeded.
func (e *ProbeError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}
