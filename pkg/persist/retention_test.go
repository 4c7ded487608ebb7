package persist

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tunnelgate/relay/pkg/config"
)

func writeAged(t *testing.T, dir, name string, age time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(`{}`), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	mtime := time.Now().Add(-age)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("failed to set mtime on %s: %v", name, err)
	}
	return path
}

func TestPruner_Prune(t *testing.T) {
	dir := t.TempDir()
	old := writeAged(t, dir, "old.json", 48*time.Hour)
	fresh := writeAged(t, dir, "fresh.json", time.Minute)
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}

	cfg := &config.PersistConfig{Directory: dir, Retention: config.RetentionConfig{MaxAge: 24 * time.Hour}}
	deleted, err := NewPruner(cfg).Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("expired export was not deleted")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Error("fresh export was deleted")
	}
	if _, err := os.Stat(filepath.Join(dir, "nested")); err != nil {
		t.Error("subdirectory was deleted")
	}
}

func TestPruner_Disabled(t *testing.T) {
	dir := t.TempDir()
	old := writeAged(t, dir, "old.json", 48*time.Hour)

	deleted, err := NewPruner(&config.PersistConfig{Directory: dir}).Prune(context.Background())
	if err != nil || deleted != 0 {
		t.Errorf("Prune() = (%d, %v), want (0, nil)", deleted, err)
	}
	if _, err := os.Stat(old); err != nil {
		t.Error("export deleted with retention disabled")
	}
}

func TestPruner_MissingDirectory(t *testing.T) {
	cfg := &config.PersistConfig{
		Directory: filepath.Join(t.TempDir(), "missing"),
		Retention: config.RetentionConfig{MaxAge: time.Hour},
	}
	deleted, err := NewPruner(cfg).Prune(context.Background())
	if err != nil || deleted != 0 {
		t.Errorf("Prune() = (%d, %v), want (0, nil)", deleted, err)
	}
}

func TestRetention_Start(t *testing.T) {
	tests := []struct {
		name        string
		maxAge      time.Duration
		schedule    string
		wantRunning bool
		wantError   bool
	}{
		{"valid daily schedule", time.Hour, "@daily", true, false},
		{"valid cron schedule", time.Hour, "0 3 * * *", true, false},
		{"retention disabled", 0, "@daily", false, false},
		{"empty schedule", time.Hour, "", false, false},
		{"invalid schedule", time.Hour, "invalid cron", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.PersistConfig{
				Directory: t.TempDir(),
				Retention: config.RetentionConfig{MaxAge: tt.maxAge, Schedule: tt.schedule},
			}
			r := NewRetention(cfg, nil)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			err := r.Start(ctx)
			if (err != nil) != tt.wantError {
				t.Fatalf("Start() error = %v, wantError %v", err, tt.wantError)
			}
			if r.IsRunning() != tt.wantRunning {
				t.Errorf("IsRunning() = %v, want %v", r.IsRunning(), tt.wantRunning)
			}

			r.Stop()
			if r.IsRunning() {
				t.Error("still running after Stop()")
			}
		})
	}
}

func TestRetention_RunOnce(t *testing.T) {
	dir := t.TempDir()
	writeAged(t, dir, "a.json", 72*time.Hour)
	writeAged(t, dir, "b.json", 72*time.Hour)

	var reported []int
	cfg := &config.PersistConfig{
		Directory: dir,
		Retention: config.RetentionConfig{MaxAge: time.Hour, Schedule: "@daily"},
	}
	NewRetention(cfg, func(deleted int) { reported = append(reported, deleted) }).RunOnce(context.Background())

	if len(reported) != 1 || reported[0] != 2 {
		t.Errorf("reported = %v, want [2]", reported)
	}
}
