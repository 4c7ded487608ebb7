package handlers

import (
	"net/http"

	"tunnelgate/relay/pkg/proxy/types"
)

// CheckVPNHandler handles GET /check_vpn.
type CheckVPNHandler struct {
	gate *VPNGate
}

// NewCheckVPNHandler creates a new VPN status handler.
func NewCheckVPNHandler(gate *VPNGate) *CheckVPNHandler {
	return &CheckVPNHandler{gate: gate}
}

// ServeHTTP implements http.Handler.
func (h *CheckVPNHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	writeVPNStatus(w, r, h.gate)
}

// ConnectVPNHandler handles GET /connect_vpn.
type ConnectVPNHandler struct {
	gate *VPNGate
}

// NewConnectVPNHandler creates a new VPN connect handler.
func NewConnectVPNHandler(gate *VPNGate) *ConnectVPNHandler {
	return &ConnectVPNHandler{gate: gate}
}

// ServeHTTP implements http.Handler. The setup result does not affect the
// response; only the probe that follows does.
func (h *ConnectVPNHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	h.gate.Establish(r.Context())
	writeVPNStatus(w, r, h.gate)
}

func writeVPNStatus(w http.ResponseWriter, r *http.Request, gate *VPNGate) {
	connected, err := gate.Probe(r.Context())
	if err != nil {
		writeError(w, gatewayStatus(err), "Unable to verify VPN connection: "+err.Error())
		return
	}
	if !connected {
		writeError(w, http.StatusBadRequest, types.MessageExposed)
		return
	}
	writeJSON(w, http.StatusOK, types.NewSuccess(types.MessageProtected))
}
