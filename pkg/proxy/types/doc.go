// Package types defines the JSON envelope returned by tunnelgate's own
// endpoints.
//
// Every locally generated response, success or failure, has the shape
//
//	{"status": "success" | "error", "message": "..."}
//
// Relayed upstream responses are returned as-is and never wrapped.
package types
