package relay

import (
	"net/http"
	"strings"
)

// HeaderFilter selects the inbound headers copied to the upstream request.
// Names are matched exactly against the canonical header form, so an entry
// of "x-trace" never matches; use "X-Trace".
type HeaderFilter struct {
	allowed map[string]struct{}
}

// NewHeaderFilter creates a filter from an allowlist. Entries are trimmed;
// empty entries are ignored.
func NewHeaderFilter(names []string) *HeaderFilter {
	allowed := make(map[string]struct{}, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			allowed[name] = struct{}{}
		}
	}
	return &HeaderFilter{allowed: allowed}
}

// Allows reports whether a header name is on the allowlist.
func (f *HeaderFilter) Allows(name string) bool {
	_, ok := f.allowed[name]
	return ok
}

// Filter returns the allowed subset of in. Every value of a kept header is
// copied.
func (f *HeaderFilter) Filter(in http.Header) http.Header {
	out := make(http.Header)
	for name, values := range in {
		if !f.Allows(name) {
			continue
		}
		out[name] = append([]string(nil), values...)
	}
	return out
}
