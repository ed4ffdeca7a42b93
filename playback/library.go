package playback

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/milk9111/rocketboost/music"
)

// Decoder builds a clip from an encoded audio file.
type Decoder func(path string, data []byte) (music.Clip, error)

// Library loads clips from disk once and hands out the cached clip on every
// later request, so clip identity is stable across scenes.
type Library struct {
	root   string
	decode Decoder

	// ReadFile defaults to os.ReadFile.
	ReadFile func(path string) ([]byte, error)

	mu    sync.Mutex
	clips map[string]music.Clip
}

func NewLibrary(root string, decode Decoder) *Library {
	return &Library{root: root, decode: decode, clips: map[string]music.Clip{}}
}

// Clip implements level.ClipSource.
func (l *Library) Clip(path string) (music.Clip, error) {
	if l == nil || l.decode == nil {
		return nil, fmt.Errorf("playback: library has no decoder")
	}
	clean := cleanClipPath(path)
	if clean == "" {
		return nil, fmt.Errorf("playback: empty clip path")
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if c, ok := l.clips[clean]; ok {
		return c, nil
	}

	read := l.ReadFile
	if read == nil {
		read = os.ReadFile
	}
	data, err := read(filepath.Join(l.root, filepath.FromSlash(clean)))
	if err != nil {
		return nil, fmt.Errorf("playback: read %s: %w", clean, err)
	}
	c, err := l.decode(clean, data)
	if err != nil {
		return nil, fmt.Errorf("playback: decode %s: %w", clean, err)
	}
	l.clips[clean] = c
	return c, nil
}

func cleanClipPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(filepath.Clean(path))
	return strings.TrimPrefix(s, "./")
}

func clipExt(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
