package level

import (
	"log/slog"

	"github.com/milk9111/rocketboost/music"
)

// ClipSource turns a binding's clip path into a playable clip.
type ClipSource interface {
	Clip(path string) (music.Clip, error)
}

// Selector resolves scene tracks from an optional script, then the table.
type Selector struct {
	Table  *Table
	Script *Script
	Clips  ClipSource
	Logger *slog.Logger
}

func (s *Selector) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// Binding returns the binding that applies to sceneName.
func (s *Selector) Binding(sceneName, current string) (Binding, bool) {
	if s == nil {
		return Binding{}, false
	}
	if s.Script != nil {
		b, ok, err := s.Script.Eval(sceneName, current)
		if err != nil {
			s.logger().Warn("level: track script failed, using table", "scene", sceneName, "err", err)
		} else if ok {
			return b, true
		}
	}
	return s.Table.Lookup(sceneName)
}

// Select implements music.Selector.
func (s *Selector) Select(sceneName string, current music.Clip) (music.Track, bool) {
	if s == nil || s.Clips == nil {
		return music.Track{}, false
	}
	currentName := ""
	if current != nil {
		currentName = current.Name()
	}
	b, ok := s.Binding(sceneName, currentName)
	if !ok || b.Clip == "" {
		return music.Track{}, false
	}
	clip, err := s.Clips.Clip(b.Clip)
	if err != nil {
		s.logger().Warn("level: load clip", "scene", sceneName, "clip", b.Clip, "err", err)
		return music.Track{}, false
	}
	return music.Track{Clip: clip, Volume: b.Volume, Duration: b.FadeSeconds}, true
}
