package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"tunnelgate/relay/pkg/proxy/types"
)

// timeouter is implemented by errors that can report a deadline.
type timeouter interface {
	Timeout() bool
}

// gatewayStatus maps an outbound failure to 504 for timeouts and 502
// otherwise.
func gatewayStatus(err error) int {
	var t timeouter
	if errors.As(err, &t) && t.Timeout() {
		return http.StatusGatewayTimeout
	}
	return http.StatusBadGateway
}

// writeJSON writes v as a JSON response.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("failed to write response", "error", err)
	}
}

// writeError writes an error envelope.
func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, types.NewError(message))
}

// allowMethod answers 405 unless r uses method.
func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, http.StatusMethodNotAllowed, types.MessageMethodNotAllowed)
	return false
}
