package persist

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"tunnelgate/relay/pkg/config"
	"tunnelgate/relay/pkg/relay"
)

// Persister writes JSON documents into the export directory.
type Persister struct {
	dir    string
	mode   os.FileMode
	logger *slog.Logger
}

// NewPersister creates a persister for the configured export directory.
// The directory is created on the first write, not here.
func NewPersister(cfg *config.PersistConfig) *Persister {
	mode := os.FileMode(cfg.FileMode)
	if mode == 0 {
		mode = os.FileMode(config.DefaultPersistFileMode)
	}
	return &Persister{
		dir:    cfg.Directory,
		mode:   mode,
		logger: slog.Default().With("component", "persist"),
	}
}

// Dir returns the export directory.
func (p *Persister) Dir() string {
	return p.dir
}

// Save sanitizes name, pretty-prints the JSON document in body and writes
// it into the export directory, replacing any existing file. It returns the
// path written.
func (p *Persister) Save(name string, body []byte) (string, error) {
	safe, err := SanitizeFilename(name)
	if err != nil {
		return "", fmt.Errorf("cannot export %q: %w", name, err)
	}

	dir, err := filepath.Abs(p.dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve export directory: %w", err)
	}
	path := filepath.Join(dir, safe)
	if !within(dir, path) {
		return "", fmt.Errorf("cannot export %q: %w", name, ErrPathEscape)
	}

	data, err := Canonical(body)
	if err != nil {
		return "", fmt.Errorf("cannot export %q: %w", name, err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := os.WriteFile(path, data, p.mode); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	p.logger.Debug("response exported", "path", path, "bytes", len(data))
	return path, nil
}

// Canonical re-encodes a JSON document with two-space indentation, sorted
// object keys and a trailing newline. Numbers keep their original text.
func Canonical(body []byte) ([]byte, error) {
	return relay.Reencode(body, "  ")
}
