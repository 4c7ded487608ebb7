package relay

import (
	"testing"

	"tunnelgate/relay/pkg/config"
)

func TestWhitelist_Exact(t *testing.T) {
	wl := NewWhitelist("https://good.example.com, api.example.org\nhttp://local.test:8080 https://paths.example.net/v1", config.WhitelistModeExact)

	if wl.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", wl.Len())
	}

	tests := []struct {
		target string
		want   bool
	}{
		{"https://good.example.com", true},
		{"https://good.example.com/hook?x=1", true},
		{"HTTPS://GOOD.example.com/", true},
		{"http://good.example.com", false},
		{"https://good.example.com:8443", false},
		{"https://evil-good.example.com", false},
		{"https://good.example.com.evil.io", false},
		{"https://api.example.org/v2", true},
		{"http://api.example.org", true},
		{"https://api.example.org:9000", true},
		{"http://local.test:8080/x", true},
		{"http://local.test/x", false},
		{"https://paths.example.net/other", true},
		{"good.example.com", false},
		{"ftp://api.example.org", false},
		{"", false},
		{"https://", false},
	}

	for _, tt := range tests {
		if got := wl.Allowed(tt.target); got != tt.want {
			t.Errorf("Allowed(%q) = %v, want %v", tt.target, got, tt.want)
		}
	}
}

func TestWhitelist_Substring(t *testing.T) {
	raw := "https://good.example.com,https://other.example.com/api"
	wl := NewWhitelist(raw, config.WhitelistModeSubstring)

	if wl.Mode() != config.WhitelistModeSubstring {
		t.Fatalf("Mode() = %q", wl.Mode())
	}

	tests := []struct {
		target string
		want   bool
	}{
		{"https://good.example.com", true},
		{"https://good.example.co", true},
		{"https://other.example.com/api", true},
		{"https://other.example.com/api/v2", false},
		{"https://evil-good.example.com", false},
		{"", false},
		{"good.example.com", false},
	}

	for _, tt := range tests {
		if got := wl.Allowed(tt.target); got != tt.want {
			t.Errorf("Allowed(%q) = %v, want %v", tt.target, got, tt.want)
		}
	}
}

func TestWhitelist_SubstringRequiresAbsoluteURL(t *testing.T) {
	wl := NewWhitelist("https://good.example.com, api.example.com", config.WhitelistModeSubstring)

	for _, target := range []string{"good.example.com", "api.example.com", "example.com"} {
		if wl.Allowed(target) {
			t.Errorf("Allowed(%q) = true, want false", target)
		}
	}
	if !wl.Allowed("https://good.example.com") {
		t.Error("absolute URL with whitelisted host rejected")
	}
}

func TestWhitelist_Empty(t *testing.T) {
	for _, mode := range []string{config.WhitelistModeExact, config.WhitelistModeSubstring} {
		wl := NewWhitelist("", mode)
		if wl.Allowed("https://good.example.com") {
			t.Errorf("%s: empty whitelist allowed a target", mode)
		}
	}
}

func TestWhitelist_UnknownModeIsExact(t *testing.T) {
	wl := NewWhitelist("https://good.example.com", "fuzzy")
	if wl.Mode() != config.WhitelistModeExact {
		t.Errorf("Mode() = %q, want %q", wl.Mode(), config.WhitelistModeExact)
	}
	if wl.Allowed("https://good.example.co") {
		t.Error("exact mode matched a prefix")
	}
}
