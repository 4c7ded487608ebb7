// Tunnelgate is a JSON HTTP relay that forwards requests to whitelisted
// domains, optionally only while a PIA VPN tunnel protects the public IP.
//
// Usage:
//
//	# Start the relay using environment configuration
//	tunnelgate run
//
//	# Start with a configuration file
//	tunnelgate run --config /etc/tunnelgate/config.yaml
//
//	# Check whether the public IP is protected
//	tunnelgate check --output json
//
//	# Run the VPN setup script, then check
//	tunnelgate connect
//
//	# Validate configuration
//	tunnelgate validate --config config.yaml
package main

func main() {
	Execute()
}
