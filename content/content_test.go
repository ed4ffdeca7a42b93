package content

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEmbedded(t *testing.T) {
	old := Dir
	Dir = ""
	defer func() { Dir = old }()

	for _, name := range []string{ScenesFile, TracksFile, ScriptFile, "content/" + ScenesFile} {
		t.Run(name, func(t *testing.T) {
			data, err := Load(name)
			if err != nil {
				t.Fatalf("load %s: %v", name, err)
			}
			if len(data) == 0 {
				t.Fatalf("expected content for %s", name)
			}
		})
	}

	if _, err := Load("missing.yaml"); err == nil {
		t.Fatalf("expected error for missing content")
	}
}

func TestLoadPrefersDisk(t *testing.T) {
	old := Dir
	Dir = t.TempDir()
	defer func() { Dir = old }()

	if err := os.WriteFile(filepath.Join(Dir, TracksFile), []byte("scenes: {}\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := Load(TracksFile)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(data) != "scenes: {}\n" {
		t.Fatalf("expected disk copy, got %q", data)
	}

	data, err = LoadPath(filepath.Join(t.TempDir(), ScenesFile))
	if err != nil || len(data) == 0 {
		t.Fatalf("expected embedded fallback for missing path, err=%v", err)
	}
}
