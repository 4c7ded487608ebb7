// Package relay contains the building blocks of the forwarding path:
// destination whitelisting, header allowlisting and the outbound call.
//
// The HTTP handler in pkg/proxy/handlers composes them in order:
//
//	if !whitelist.Allowed(target) { /* 403 */ }
//	headers := filter.Filter(r.Header)
//	resp, err := forwarder.Forward(ctx, target, headers, body)
//
// # Whitelist Modes
//
// In exact mode the whitelist string is split on commas and whitespace.
// An entry with a scheme ("https://api.example.com") matches targets with
// the same scheme and host, port included. A bare entry ("api.example.com")
// matches any http or https target with that hostname. Comparison is
// case-insensitive and paths are ignored.
//
// Substring mode accepts any target that occurs verbatim in the raw
// whitelist string. It exists for deployments that depend on that older
// behavior; "https://a.example.com" whitelists "https://a.example.co" too.
//
// Both modes reject targets that are not absolute http or https URLs.
package relay
