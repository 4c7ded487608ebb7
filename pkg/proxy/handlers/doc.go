// Package handlers implements tunnelgate's HTTP endpoints.
//
// # Endpoints
//
//   - POST /forward: relay a JSON request to a whitelisted Target-Domain,
//     optionally behind the VPN gate, and optionally export the response
//   - GET /check_vpn: report whether egress traffic is protected
//   - GET /connect_vpn: run the VPN setup script, then report like /check_vpn
//
// Every locally generated response uses the types.StatusResponse envelope.
// Relayed responses keep the upstream status code.
//
// # Forward Sequence
//
//  1. Read the body: 413 above max_body_bytes, 400 if not JSON.
//  2. With ensure_vpn set, probe; if exposed or unknown, run setup and
//     probe once more. Still exposed is 503; a failed re-probe is 502
//     (504 on timeout).
//  3. Reject a missing or unlisted Target-Domain with 403, then POST the
//     body with the allowlisted headers. Transport errors are 502 (504 on
//     timeout).
//  4. If a Filename header is present and the response is non-empty JSON,
//     export it. Export failures are logged and never change the response.
//  5. Return the upstream status with its JSON body re-encoded, or the raw
//     body for anything else.
package handlers
