package music

import "math"

// Clip identifies a loaded track. Implementations must be comparable so the
// policy can tell whether a channel already holds a track.
type Clip interface {
	Name() string
}

// Channel is one host playback voice.
type Channel interface {
	SetClip(clip Clip)
	Clip() Clip
	SetVolume(volume float64)
	Volume() float64
	Play()
	Stop()
	IsPlaying() bool
}

// Request asks for a crossfade to Clip at Volume over Duration seconds.
type Request struct {
	Clip     Clip
	Volume   float64
	Duration float64
}

// instantFade is the duration at or below which a transition snaps.
const instantFade = 0.001

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func lerp(a, b, k float64) float64 {
	return a + (b-a)*k
}

func sameClip(a, b Clip) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a == b
}
