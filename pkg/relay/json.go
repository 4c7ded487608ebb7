package relay

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Reencode decodes a single JSON document and encodes it again with sorted
// object keys and a trailing newline. An empty indent produces compact
// output. Numbers keep their original text and HTML characters are not
// escaped.
func Reencode(body []byte, indent string) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid JSON document: %w", err)
	}
	if dec.More() {
		return nil, errors.New("invalid JSON document: trailing data")
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode JSON document: %w", err)
	}
	return buf.Bytes(), nil
}
