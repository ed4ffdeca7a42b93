package engine

import (
	"testing"
	"time"
)

func TestScheduler(t *testing.T) {
	var order []string
	s := NewScheduler(
		SystemFunc(func(time.Duration) { order = append(order, "a") }),
		nil,
		SystemFunc(func(time.Duration) { order = append(order, "b") }),
	)
	s.Add(nil)
	s.Update(time.Millisecond)
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("expected a then b, got %v", order)
	}
	if len(s.Systems()) != 2 {
		t.Fatalf("nil systems should be skipped, got %d", len(s.Systems()))
	}
	var nilScheduler *Scheduler
	nilScheduler.Update(time.Second)
}

func TestClock(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewClock()

	cases := []struct {
		name         string
		at           time.Duration
		scale        float64
		wantScaled   time.Duration
		wantUnscaled time.Duration
	}{
		{"first_tick_is_zero", 0, 1, 0, 0},
		{"normal", 16 * time.Millisecond, 1, 16 * time.Millisecond, 16 * time.Millisecond},
		{"paused", 32 * time.Millisecond, 0, 0, 16 * time.Millisecond},
		{"slow_motion", 52 * time.Millisecond, 0.5, 10 * time.Millisecond, 20 * time.Millisecond},
		{"stall_capped", 2 * time.Second, 1, maxTick, maxTick},
		{"clock_went_backwards", time.Second, 1, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c.SetTimeScale(tc.scale)
			scaled, unscaled := c.Tick(base.Add(tc.at))
			if scaled != tc.wantScaled || unscaled != tc.wantUnscaled {
				t.Fatalf("expected %v/%v, got %v/%v", tc.wantScaled, tc.wantUnscaled, scaled, unscaled)
			}
		})
	}

	c.SetTimeScale(-2)
	if !c.Paused() {
		t.Fatalf("negative time scale should pause")
	}
}

func TestCountdown(t *testing.T) {
	c := NewCountdown(61500 * time.Millisecond)
	if got := c.Format(); got != "01:01" {
		t.Fatalf("expected 01:01, got %s", got)
	}
	if c.Update(60 * time.Second) {
		t.Fatalf("countdown should not expire yet")
	}
	if got := c.Format(); got != "00:01" {
		t.Fatalf("expected 00:01, got %s", got)
	}
	if !c.Update(5 * time.Second) {
		t.Fatalf("countdown should expire on this update")
	}
	if c.Update(time.Second) {
		t.Fatalf("expiry is reported once")
	}
	if c.Remaining() != 0 || c.Format() != "00:00" || !c.Expired() {
		t.Fatalf("expired countdown should clamp to zero, got %v", c.Remaining())
	}
	c.Reset()
	if c.Expired() || c.Remaining() != 61500*time.Millisecond {
		t.Fatalf("reset should restore the total")
	}
}

func TestLooper(t *testing.T) {
	cases := []struct {
		name  string
		start float64
		end   float64
		speed float64
		dt    time.Duration
		want  float64
	}{
		{"advance", 0, 100, 40, time.Second, 40},
		{"wrap_with_overflow", 0, 100, 40, 3 * time.Second, 20},
		{"negative_start", -970, 2080, 1000, 4 * time.Second, -20},
		{"zero_speed_still", 0, 100, 0, time.Second, 0},
		{"bad_range", 5, 5, 2.5, time.Second, 5.5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := NewLooper(tc.start, tc.end, tc.speed)
			l.Update(tc.dt)
			if diff := l.Pos() - tc.want; diff > 1e-9 || diff < -1e-9 {
				t.Fatalf("expected %v, got %v", tc.want, l.Pos())
			}
		})
	}

	l := NewLooper(0, 10, 1)
	l.SetPos(-3)
	if l.Pos() != 7 {
		t.Fatalf("expected -3 projected to 7, got %v", l.Pos())
	}
}
