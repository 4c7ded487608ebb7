package relay

import "testing"

func TestReencode(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		indent  string
		want    string
		wantErr bool
	}{
		{"compact sorts keys", `{ "b": 1, "a": [true, null] }`, "", "{\"a\":[true,null],\"b\":1}\n", false},
		{"keeps number text", `{"n": 1.50, "big": 12345678901234567890}`, "", "{\"big\":12345678901234567890,\"n\":1.50}\n", false},
		{"no html escaping", `{"s":"<a&b>"}`, "", "{\"s\":\"<a&b>\"}\n", false},
		{"indented", `{"a":{"b":1}}`, "  ", "{\n  \"a\": {\n    \"b\": 1\n  }\n}\n", false},
		{"scalar", `"ok"`, "", "\"ok\"\n", false},
		{"invalid", `{"a":`, "", "", true},
		{"trailing data", `{} []`, "", "", true},
		{"empty", ``, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Reencode([]byte(tt.body), tt.indent)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Reencode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if string(got) != tt.want {
				t.Errorf("Reencode() = %q, want %q", got, tt.want)
			}
		})
	}
}
