package engine

import (
	"fmt"
	"math"
	"time"
)

// maxTick caps a single delta so a stalled frame (window drag, debugger)
// does not skip whole fades or countdowns.
const maxTick = 250 * time.Millisecond

// Clock turns wall-clock readings into per-tick deltas. The scaled delta
// follows the time scale (0 pauses gameplay); the unscaled delta does not.
type Clock struct {
	last      time.Time
	started   bool
	timeScale float64
}

func NewClock() *Clock {
	return &Clock{timeScale: 1}
}

func (c *Clock) TimeScale() float64 { return c.timeScale }

func (c *Clock) SetTimeScale(scale float64) {
	if scale < 0 || math.IsNaN(scale) {
		scale = 0
	}
	c.timeScale = scale
}

func (c *Clock) Paused() bool { return c.timeScale == 0 }

// Tick returns the time since the previous Tick. The first call returns
// zero deltas.
func (c *Clock) Tick(now time.Time) (scaled, unscaled time.Duration) {
	if !c.started {
		c.started = true
		c.last = now
		return 0, 0
	}
	unscaled = now.Sub(c.last)
	c.last = now
	if unscaled < 0 {
		unscaled = 0
	}
	if unscaled > maxTick {
		unscaled = maxTick
	}
	scaled = time.Duration(float64(unscaled) * c.timeScale)
	return scaled, unscaled
}

// Countdown counts seconds down to zero and stays there.
type Countdown struct {
	remaining time.Duration
	total     time.Duration
	expired   bool
}

func NewCountdown(total time.Duration) *Countdown {
	if total < 0 {
		total = 0
	}
	return &Countdown{remaining: total, total: total}
}

// Update consumes dt and reports whether the countdown expired on this call.
func (c *Countdown) Update(dt time.Duration) bool {
	if c == nil || c.expired {
		return false
	}
	c.remaining -= dt
	if c.remaining > 0 {
		return false
	}
	c.remaining = 0
	c.expired = true
	return true
}

func (c *Countdown) Reset() {
	c.remaining = c.total
	c.expired = false
}

func (c *Countdown) Remaining() time.Duration { return c.remaining }

func (c *Countdown) Expired() bool { return c.expired }

// Format renders the remaining time as MM:SS, rounding seconds down.
func (c *Countdown) Format() string {
	secs := int(c.remaining / time.Second)
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
