package health

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// ErrCheckTimeout is reported when a check does not finish in time.
var ErrCheckTimeout = errors.New("health check timeout")

// DirExists checks that path exists and is a directory.
func DirExists(path string) CheckFunc {
	return func(ctx context.Context) error {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("directory %s is not accessible: %w", path, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%s is not a directory", path)
		}
		return nil
	}
}

// DirWritable checks that a file can be created in path. A missing
// directory is created first, the same way the exporter does.
func DirWritable(path string) CheckFunc {
	return func(ctx context.Context) error {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("cannot create directory %s: %w", path, err)
		}
		f, err := os.CreateTemp(path, ".ready-*")
		if err != nil {
			return fmt.Errorf("directory %s is not writable: %w", path, err)
		}
		name := f.Name()
		_ = f.Close()
		return os.Remove(name)
	}
}
