// Package vpn determines whether egress traffic is protected by the PIA
// tunnel and re-establishes the tunnel through the external setup script.
//
// # Probing
//
// PIAProber performs two calls: a GET against the location endpoint to learn
// the public IP, then a POST of {"ipAddress": ip} to the exposure check. The
// connection is considered protected when the exposure check reports a falsy
// "status". Probing never changes tunnel state.
//
//	prober := vpn.NewPIAProber(&cfg.VPN, nil)
//	connected, err := prober.IsConnected(ctx)
//
// # Establishing
//
// ScriptEstablisher runs the configured setup command in the setup directory
// with the process environment plus the curated VPN client variables. The
// call blocks until the script exits or the setup timeout elapses and
// reports an EstablishResult; nothing is retried.
//
// # Watchdog
//
// Watchdog runs the prober on a cron schedule and publishes the result
// through a callback (typically the vpn_connected gauge). It never
// reconnects.
package vpn
