package relay

import (
	"net/url"
	"strings"
	"unicode"

	"tunnelgate/relay/pkg/config"
)

// Whitelist decides which destinations requests may be relayed to.
type Whitelist struct {
	mode    string
	raw     string
	entries []whitelistEntry
}

// whitelistEntry is one parsed exact-mode entry. An empty scheme marks a
// bare host entry.
type whitelistEntry struct {
	scheme string
	host   string
}

// NewWhitelist parses raw according to mode. Unknown modes fall back to
// exact matching.
func NewWhitelist(raw, mode string) *Whitelist {
	w := &Whitelist{mode: mode, raw: raw}
	if mode != config.WhitelistModeSubstring {
		w.mode = config.WhitelistModeExact
		w.entries = parseEntries(raw)
	}
	return w
}

// Mode returns the effective matching mode.
func (w *Whitelist) Mode() string {
	return w.mode
}

// Len returns the number of parsed entries. It is always 0 in substring mode.
func (w *Whitelist) Len() int {
	return len(w.entries)
}

// Allowed reports whether target may be relayed to. In either mode the
// target must parse as an absolute http or https URL.
func (w *Whitelist) Allowed(target string) bool {
	if target == "" {
		return false
	}
	u, ok := parseTarget(target)
	if !ok {
		return false
	}

	if w.mode == config.WhitelistModeSubstring {
		return strings.Contains(w.raw, target)
	}

	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Host)
	hostname := strings.ToLower(u.Hostname())
	for _, e := range w.entries {
		if e.scheme == "" {
			if strings.Contains(e.host, ":") {
				if e.host == host {
					return true
				}
				continue
			}
			if e.host == hostname {
				return true
			}
			continue
		}
		if e.scheme == scheme && e.host == host {
			return true
		}
	}
	return false
}

// parseTarget accepts absolute http and https URLs with a host.
func parseTarget(target string) (*url.URL, bool) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, false
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, false
	}
	if u.Host == "" || u.Hostname() == "" {
		return nil, false
	}
	return u, true
}

func parseEntries(raw string) []whitelistEntry {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})

	entries := make([]whitelistEntry, 0, len(fields))
	for _, field := range fields {
		if strings.Contains(field, "://") {
			u, ok := parseTarget(field)
			if !ok {
				continue
			}
			entries = append(entries, whitelistEntry{
				scheme: strings.ToLower(u.Scheme),
				host:   strings.ToLower(u.Host),
			})
			continue
		}
		host, _, _ := strings.Cut(field, "/")
		if host == "" {
			continue
		}
		entries = append(entries, whitelistEntry{host: strings.ToLower(host)})
	}
	return entries
}
