package music

import (
	"log/slog"

	"github.com/milk9111/rocketboost/scene"
)

// Track is what a scene asks to have playing.
type Track struct {
	Clip     Clip
	Volume   float64
	Duration float64
}

// Selector picks the track for a scene. ok is false when the scene has no
// opinion about music.
type Selector interface {
	Select(sceneName string, current Clip) (Track, bool)
}

// SelectorFunc adapts a function to Selector.
type SelectorFunc func(sceneName string, current Clip) (Track, bool)

func (f SelectorFunc) Select(sceneName string, current Clip) (Track, bool) {
	return f(sceneName, current)
}

// Subscriber registers load callbacks. *scene.Manager satisfies it.
type Subscriber interface {
	Subscribe(fn scene.LoadedFunc) *scene.Subscription
}

// Policy reacts to scene activation by asking the scheduler for the
// scene's track.
type Policy struct {
	scheduler *Scheduler
	selector  Selector
	paths     scene.PathResolver
	sub       *scene.Subscription
	logger    *slog.Logger
}

func NewPolicy(s *Scheduler, selector Selector, paths scene.PathResolver, logger *slog.Logger) *Policy {
	if logger == nil {
		logger = slog.Default()
	}
	return &Policy{scheduler: s, selector: selector, paths: paths, logger: logger}
}

func (p *Policy) Attach(sub Subscriber) {
	if p == nil || sub == nil {
		return
	}
	p.sub.Close()
	p.sub = sub.Subscribe(func(ref scene.Ref, _ scene.LoadMode) {
		p.OnSceneBecameActive(ref)
	})
}

func (p *Policy) Close() {
	if p == nil {
		return
	}
	p.sub.Close()
	p.sub = nil
}

// Prime applies the policy to the scene that was active before any load.
func (p *Policy) Prime(active scene.Ref) {
	p.OnSceneBecameActive(active)
}

// OnSceneBecameActive requests a transition when the scene names a track
// that is not already audible.
func (p *Policy) OnSceneBecameActive(ref scene.Ref) {
	if p == nil || p.scheduler == nil || p.selector == nil {
		return
	}
	name := scene.Name(p.paths, ref)
	current := p.scheduler.Current()

	track, ok := p.selector.Select(name, current.Clip())
	if !ok || track.Clip == nil {
		p.logger.Debug("music: no track for scene", "scene", name)
		return
	}
	// Already playing this clip (e.g. on a reload after death).
	if sameClip(current.Clip(), track.Clip) && current.IsPlaying() {
		return
	}
	p.scheduler.RequestTransition(Request{Clip: track.Clip, Volume: track.Volume, Duration: track.Duration})
}
