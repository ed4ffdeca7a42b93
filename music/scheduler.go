package music

import (
	"log/slog"
	"time"
)

// fade is the resumable state of one crossfade.
type fade struct {
	in, out  Channel
	startIn  float64
	startOut float64
	target   float64
	duration float64
	elapsed  float64
}

// step advances the fade by dt seconds and reports whether it finished.
func (f *fade) step(dt float64) bool {
	f.elapsed += dt
	k := clamp01(f.elapsed / f.duration)
	f.in.SetVolume(lerp(f.startIn, f.target, k))
	f.out.SetVolume(lerp(f.startOut, 0, k))
	if k < 1 {
		return false
	}
	f.finish()
	return true
}

func (f *fade) finish() {
	f.in.SetVolume(f.target)
	f.out.Stop()
	f.out.SetClip(nil)
}

// Scheduler crossfades between two channels. Every transition swaps which
// channel is current, so interrupting a fade turns the channel that was
// fading out into the new fade-in target at the volume it had reached.
type Scheduler struct {
	current Channel
	next    Channel
	active  *fade

	logger *slog.Logger
}

type Option func(*Scheduler)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewScheduler starts with a as the current channel.
func NewScheduler(a, b Channel, opts ...Option) *Scheduler {
	s := &Scheduler{current: a, next: b, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scheduler) Current() Channel {
	if s == nil {
		return nil
	}
	return s.current
}

func (s *Scheduler) Next() Channel {
	if s == nil {
		return nil
	}
	return s.next
}

// Fading reports whether a crossfade is in progress.
func (s *Scheduler) Fading() bool {
	return s != nil && s.active != nil
}

// RequestTransition starts a crossfade to req.Clip, replacing any fade in
// progress. A duration at or below one millisecond completes immediately.
func (s *Scheduler) RequestTransition(req Request) {
	if s == nil || s.current == nil || s.next == nil {
		return
	}

	s.current, s.next = s.next, s.current

	// The incoming channel starts from silence; the outgoing one keeps
	// whatever volume the interrupted fade left it at.
	s.current.SetClip(req.Clip)
	s.current.SetVolume(0)
	s.current.Play()

	f := &fade{
		in:       s.current,
		out:      s.next,
		startIn:  s.current.Volume(),
		startOut: clamp01(s.next.Volume()),
		target:   clamp01(req.Volume),
		duration: req.Duration,
	}
	s.active = nil

	name := ""
	if req.Clip != nil {
		name = req.Clip.Name()
	}
	s.logger.Debug("music: crossfade", "clip", name, "volume", f.target, "seconds", f.duration)

	// The negated comparison also snaps a NaN duration.
	if !(f.duration > instantFade) {
		f.finish()
		return
	}
	s.active = f
}

// Update advances the active fade by dt. Callers pass unscaled wall-clock
// time so music keeps resolving while gameplay is paused.
func (s *Scheduler) Update(dt time.Duration) {
	if s == nil || s.active == nil {
		return
	}
	if dt < 0 {
		dt = 0
	}
	if s.active.step(dt.Seconds()) {
		s.active = nil
	}
}
