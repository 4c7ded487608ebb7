package persist

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"tunnelgate/relay/pkg/config"
)

func newTestPersister(t *testing.T) (*Persister, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "json_files")
	return NewPersister(&config.PersistConfig{Enabled: true, Directory: dir, FileMode: 0o600}), dir
}

func TestPersister_Save(t *testing.T) {
	p, dir := newTestPersister(t)

	path, err := p.Save("../../evil<name>!!.json", []byte(`{"z":1,"a":{"c":[1,2],"b":"<x>"},"n":1.50}`))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	wantPath := filepath.Join(dir, "evilname.json")
	if path != wantPath {
		t.Errorf("path = %q, want %q", path, wantPath)
	}

	data, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}
	want := `{
  "a": {
    "b": "<x>",
    "c": [
      1,
      2
    ]
  },
  "n": 1.50,
  "z": 1
}
`
	if string(data) != want {
		t.Errorf("export content =\n%s\nwant\n%s", data, want)
	}

	info, err := os.Stat(wantPath)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("file mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestPersister_SaveOverwrites(t *testing.T) {
	p, _ := newTestPersister(t)

	if _, err := p.Save("out.json", []byte(`{"first":true,"padding":"xxxxxxxxxxxxxxxx"}`)); err != nil {
		t.Fatalf("first Save() error = %v", err)
	}
	path, err := p.Save("out.json", []byte(`[1]`))
	if err != nil {
		t.Fatalf("second Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}
	if string(data) != "[\n  1\n]\n" {
		t.Errorf("export content = %q", data)
	}
}

func TestPersister_SaveErrors(t *testing.T) {
	p, dir := newTestPersister(t)

	t.Run("invalid filename", func(t *testing.T) {
		_, err := p.Save("!!!.json", []byte(`{}`))
		if !errors.Is(err, ErrInvalidFilename) {
			t.Errorf("Save() error = %v, want ErrInvalidFilename", err)
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		if _, err := p.Save("bad.json", []byte(`{"a":`)); err == nil {
			t.Error("expected error for invalid JSON")
		}
		if _, err := os.Stat(filepath.Join(dir, "bad.json")); !os.IsNotExist(err) {
			t.Error("invalid JSON must not create a file")
		}
	})

	t.Run("trailing data", func(t *testing.T) {
		if _, err := p.Save("two.json", []byte(`{} {}`)); err == nil {
			t.Error("expected error for trailing data")
		}
	})

	t.Run("directory is a file", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "blocker")
		if err := os.WriteFile(blocker, nil, 0o644); err != nil {
			t.Fatal(err)
		}
		bad := NewPersister(&config.PersistConfig{Directory: filepath.Join(blocker, "sub")})
		if _, err := bad.Save("x.json", []byte(`{}`)); err == nil {
			t.Error("expected error when the directory cannot be created")
		}
	})
}

func TestCanonical(t *testing.T) {
	got, err := Canonical([]byte(` {"b": 12345678901234567890, "a": null} `))
	if err != nil {
		t.Fatalf("Canonical() error = %v", err)
	}
	want := "{\n  \"a\": null,\n  \"b\": 12345678901234567890\n}\n"
	if string(got) != want {
		t.Errorf("Canonical() = %q, want %q", got, want)
	}
}
