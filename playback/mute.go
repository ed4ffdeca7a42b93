package playback

import "sync"

type volumeApplier interface {
	applyVolume()
}

// Mute silences every channel attached to it without touching the volumes
// the scheduler works with. It lasts for the session only.
type Mute struct {
	mu       sync.Mutex
	muted    bool
	channels []volumeApplier
}

func NewMute(muted bool) *Mute {
	return &Mute{muted: muted}
}

func (m *Mute) Muted() bool {
	if m == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.muted
}

// Toggle flips the mute state and reports whether sound is now muted.
func (m *Mute) Toggle() bool {
	if m == nil {
		return false
	}
	m.mu.Lock()
	m.muted = !m.muted
	muted := m.muted
	channels := append([]volumeApplier(nil), m.channels...)
	m.mu.Unlock()

	for _, c := range channels {
		c.applyVolume()
	}
	return muted
}

func (m *Mute) attach(c volumeApplier) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.channels = append(m.channels, c)
	m.mu.Unlock()
}

// gain returns the multiplier applied on top of a channel's volume.
func (m *Mute) gain() float64 {
	if m.Muted() {
		return 0
	}
	return 1
}
