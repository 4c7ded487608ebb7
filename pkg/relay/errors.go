package relay

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// UpstreamError reports a failed outbound call to the target domain.
// It is only returned when no HTTP response was received; upstream error
// statuses are passed through to the caller unchanged.
type UpstreamError struct {
	// URL is the target that was called.
	URL string

	// Err is the underlying transport error.
	Err error
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream request to %s failed: %v", e.URL, e.Err)
}

// Unwrap returns the underlying error for error chain support.
func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the call failed because a deadline was exceeded.
func (e *UpstreamError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}
