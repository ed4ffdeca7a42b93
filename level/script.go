package level

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// Script is a tengo track-selection script. It reads the globals `scene`
// and `current` (the clip name playing now, possibly empty) and may assign
// `track`, `volume` and `fade`. Leaving `track` empty defers to the table.
//
//	if scene == "Boss" { track = "music/boss.ogg"; fade = 0.25 }
type Script struct {
	compiled *tengo.Compiled
}

// CompileScript compiles src with the text and math stdlib modules available.
func CompileScript(src []byte) (*Script, error) {
	script := tengo.NewScript(src)
	_ = script.Add("scene", "")
	_ = script.Add("current", "")
	_ = script.Add("track", "")
	_ = script.Add("volume", -1.0)
	_ = script.Add("fade", -1.0)
	script.SetImports(stdlib.GetModuleMap("text", "math", "fmt"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("level: compile track script: %w", err)
	}
	return &Script{compiled: compiled}, nil
}

// Eval runs the script for sceneName. ok is false when the script assigned
// no track. Unset volume and fade fall back to the package defaults.
func (s *Script) Eval(sceneName, current string) (Binding, bool, error) {
	if s == nil || s.compiled == nil {
		return Binding{}, false, nil
	}
	c := s.compiled
	for name, value := range map[string]any{
		"scene":   sceneName,
		"current": current,
		"track":   "",
		"volume":  -1.0,
		"fade":    -1.0,
	} {
		if err := c.Set(name, value); err != nil {
			return Binding{}, false, fmt.Errorf("level: script set %s: %w", name, err)
		}
	}
	if err := c.Run(); err != nil {
		return Binding{}, false, fmt.Errorf("level: run track script for %q: %w", sceneName, err)
	}

	track := strings.TrimSpace(c.Get("track").String())
	if track == "" {
		return Binding{}, false, nil
	}
	b := Binding{Clip: track, Volume: defaultVolume, FadeSeconds: defaultFadeSeconds}
	v, f := c.Get("volume").Float(), c.Get("fade").Float()
	if !finite(v) || !finite(f) {
		return Binding{}, false, fmt.Errorf("level: track script for %q: %w", sceneName, ErrNotFinite)
	}
	if v >= 0 {
		b.Volume = v
	}
	if f >= 0 {
		b.FadeSeconds = f
	}
	return b.normalized(), true, nil
}
