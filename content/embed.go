package content

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	ScenesFile = "scenes.yaml"
	TracksFile = "tracks.yaml"
	ScriptFile = "tracks.tengo"
)

//go:embed *.yaml *.tengo
var ContentFS embed.FS

// Dir is checked before the embedded copies so content can be edited
// without rebuilding. Empty disables disk lookups.
var Dir = "content"

// Load returns the named content file, preferring the copy on disk.
func Load(name string) ([]byte, error) {
	clean := cleanContentPath(name)
	if Dir != "" {
		if data, err := os.ReadFile(DiskPath(clean)); err == nil {
			return data, nil
		}
	}
	data, err := ContentFS.ReadFile(clean)
	if err != nil {
		return nil, fmt.Errorf("content: load %s: %w", clean, err)
	}
	return data, nil
}

// LoadPath reads an explicit file path, falling back to the embedded file
// with the same base name.
func LoadPath(path string) ([]byte, error) {
	if data, err := os.ReadFile(path); err == nil {
		return data, nil
	}
	return Load(filepath.Base(path))
}

// DiskPath is where the on-disk copy of a content file lives.
func DiskPath(name string) string {
	return filepath.Join(Dir, filepath.FromSlash(cleanContentPath(name)))
}

func cleanContentPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "content/"); ok {
		return after
	}
	return s
}
