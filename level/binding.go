package level

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultVolume      = 1.0
	defaultFadeSeconds = 1.0
)

var ErrNotFinite = errors.New("level: value is not a finite number")

// Binding is the track a scene wants playing.
type Binding struct {
	Clip        string
	Volume      float64
	FadeSeconds float64
}

type bindingSpec struct {
	Clip        string   `yaml:"clip"`
	Volume      *float64 `yaml:"volume"`
	FadeSeconds *float64 `yaml:"fade_seconds"`
}

type tableSpec struct {
	Defaults bindingSpec            `yaml:"defaults"`
	Scenes   map[string]bindingSpec `yaml:"scenes"`
}

// Table maps scene names to bindings. It is read-only once loaded.
type Table struct {
	bindings map[string]Binding
}

// LoadTable parses a yaml track table. Omitted volumes default to 1 and
// omitted fades to one second, unless the file's defaults say otherwise.
func LoadTable(data []byte) (*Table, error) {
	var spec tableSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("level: unmarshal tracks: %w", err)
	}

	if err := spec.Defaults.check("defaults"); err != nil {
		return nil, err
	}
	volume := defaultVolume
	if spec.Defaults.Volume != nil {
		volume = *spec.Defaults.Volume
	}
	fade := defaultFadeSeconds
	if spec.Defaults.FadeSeconds != nil {
		fade = *spec.Defaults.FadeSeconds
	}

	t := &Table{bindings: make(map[string]Binding, len(spec.Scenes))}
	for name, s := range spec.Scenes {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("level: tracks: empty scene name")
		}
		if err := s.check(name); err != nil {
			return nil, err
		}
		b := Binding{Clip: strings.TrimSpace(s.Clip), Volume: volume, FadeSeconds: fade}
		if s.Volume != nil {
			b.Volume = *s.Volume
		}
		if s.FadeSeconds != nil {
			b.FadeSeconds = *s.FadeSeconds
		}
		t.bindings[name] = b.normalized()
	}
	return t, nil
}

func (s bindingSpec) check(scene string) error {
	if s.Volume != nil && !finite(*s.Volume) {
		return fmt.Errorf("level: tracks: %s volume: %w", scene, ErrNotFinite)
	}
	if s.FadeSeconds != nil && !finite(*s.FadeSeconds) {
		return fmt.Errorf("level: tracks: %s fade_seconds: %w", scene, ErrNotFinite)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// normalized clamps into range. Non-finite values are rejected before
// this point; NaN still maps to silence and an instant fade.
func (b Binding) normalized() Binding {
	if math.IsNaN(b.Volume) {
		b.Volume = 0
	}
	if math.IsNaN(b.FadeSeconds) || math.IsInf(b.FadeSeconds, 0) {
		b.FadeSeconds = 0
	}
	if b.Volume < 0 {
		b.Volume = 0
	}
	if b.Volume > 1 {
		b.Volume = 1
	}
	if b.FadeSeconds < 0 {
		b.FadeSeconds = 0
	}
	return b
}

// Lookup returns the binding for a scene name.
func (t *Table) Lookup(sceneName string) (Binding, bool) {
	if t == nil {
		return Binding{}, false
	}
	b, ok := t.bindings[sceneName]
	return b, ok
}

// Scenes lists the bound scene names in sorted order.
func (t *Table) Scenes() []string {
	if t == nil {
		return nil
	}
	names := make([]string, 0, len(t.bindings))
	for name := range t.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
