package music

import (
	"math"
	"testing"
	"time"
)

type testClip struct{ name string }

func (c *testClip) Name() string { return c.name }

type fakeChannel struct {
	clip    Clip
	volume  float64
	playing bool
	plays   int
}

func (c *fakeChannel) SetClip(clip Clip)        { c.clip = clip }
func (c *fakeChannel) Clip() Clip               { return c.clip }
func (c *fakeChannel) SetVolume(volume float64) { c.volume = volume }
func (c *fakeChannel) Volume() float64          { return c.volume }
func (c *fakeChannel) Play()                    { c.playing = true; c.plays++ }
func (c *fakeChannel) Stop()                    { c.playing = false }
func (c *fakeChannel) IsPlaying() bool          { return c.playing }

func newTestScheduler() (*Scheduler, *fakeChannel, *fakeChannel) {
	a, b := &fakeChannel{}, &fakeChannel{}
	return NewScheduler(a, b), a, b
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func advance(s *Scheduler, total, step float64) {
	for t := 0.0; t < total-1e-9; t += step {
		s.Update(seconds(step))
	}
}

func TestCrossfadeConvergence(t *testing.T) {
	s, a, b := newTestScheduler()
	x := &testClip{"x"}

	s.RequestTransition(Request{Clip: x, Volume: 0.8, Duration: 2.0})
	if s.Current() != b {
		t.Fatalf("expected roles swapped to b")
	}
	if !b.playing || b.clip != x || b.volume != 0 {
		t.Fatalf("incoming channel should play x from silence, got %+v", b)
	}

	s.Update(seconds(1.0))
	if !approx(b.volume, 0.4) {
		t.Fatalf("expected halfway volume 0.4, got %v", b.volume)
	}
	if !s.Fading() {
		t.Fatalf("fade should still be active")
	}

	s.Update(seconds(1.5))
	if b.volume != 0.8 {
		t.Fatalf("expected exact target 0.8, got %v", b.volume)
	}
	if a.playing || a.clip != nil {
		t.Fatalf("outgoing channel should be stopped and cleared, got %+v", a)
	}
	if s.Fading() {
		t.Fatalf("fade should be finished")
	}
}

func TestCrossfadeSymmetric(t *testing.T) {
	s, a, b := newTestScheduler()
	first, second := &testClip{"first"}, &testClip{"second"}

	s.RequestTransition(Request{Clip: first, Volume: 1, Duration: 0})
	s.RequestTransition(Request{Clip: second, Volume: 1, Duration: 4})
	if s.Current() != a || a.clip != second {
		t.Fatalf("expected a to receive the second clip")
	}

	cases := []struct {
		name    string
		step    float64
		wantIn  float64
		wantOut float64
	}{
		{"quarter", 1, 0.25, 0.75},
		{"half", 1, 0.5, 0.5},
		{"three_quarters", 1, 0.75, 0.25},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s.Update(seconds(tc.step))
			if !approx(a.volume, tc.wantIn) || !approx(b.volume, tc.wantOut) {
				t.Fatalf("expected in=%v out=%v, got in=%v out=%v", tc.wantIn, tc.wantOut, a.volume, b.volume)
			}
		})
	}
}

func TestInstantSnap(t *testing.T) {
	for _, d := range []float64{0, 0.001, -3, math.NaN()} {
		s, a, b := newTestScheduler()
		a.clip, a.volume, a.playing = &testClip{"old"}, 1, true

		s.RequestTransition(Request{Clip: &testClip{"new"}, Volume: 0.6, Duration: d})
		if b.volume != 0.6 {
			t.Fatalf("duration %v: expected immediate target volume, got %v", d, b.volume)
		}
		if a.playing || a.clip != nil {
			t.Fatalf("duration %v: outgoing channel should stop in the same tick", d)
		}
		if s.Fading() {
			t.Fatalf("duration %v: snap should leave no fade task", d)
		}
	}
}

func TestReentrantTransition(t *testing.T) {
	s, a, b := newTestScheduler()
	x, y, z := &testClip{"x"}, &testClip{"y"}, &testClip{"z"}

	s.RequestTransition(Request{Clip: x, Volume: 1, Duration: 0})
	s.RequestTransition(Request{Clip: y, Volume: 1, Duration: 2})
	s.Update(seconds(0.5))
	// a holds y at 0.25, b holds x at 0.75.
	inAtInterrupt, outAtInterrupt := a.volume, b.volume

	s.RequestTransition(Request{Clip: z, Volume: 0.9, Duration: 2})
	if s.Current() != b || b.clip != z {
		t.Fatalf("expected b to become the fade-in target for z")
	}
	if a.volume != inAtInterrupt {
		t.Fatalf("outgoing channel must keep its volume, want %v got %v", inAtInterrupt, a.volume)
	}
	if b.volume > outAtInterrupt {
		t.Fatalf("incoming channel jumped above its volume at interruption")
	}

	prevIn, prevOut := b.volume, a.volume
	for i := 0; i < 41; i++ {
		s.Update(seconds(0.05))
		for _, v := range []float64{a.volume, b.volume} {
			if v < 0 || v > 1 {
				t.Fatalf("volume %v left [0,1]", v)
			}
		}
		if b.volume < prevIn || a.volume > prevOut {
			t.Fatalf("fade must be monotonic: in %v->%v out %v->%v", prevIn, b.volume, prevOut, a.volume)
		}
		if a.volume > inAtInterrupt {
			t.Fatalf("outgoing volume exceeded its starting point")
		}
		prevIn, prevOut = b.volume, a.volume
	}
	if b.volume != 0.9 || a.playing || a.clip != nil {
		t.Fatalf("expected converged fade, in=%v out playing=%v clip=%v", b.volume, a.playing, a.clip)
	}
}

func TestLastRequestWins(t *testing.T) {
	s, a, b := newTestScheduler()
	s.RequestTransition(Request{Clip: &testClip{"x"}, Volume: 1, Duration: 10})
	s.RequestTransition(Request{Clip: &testClip{"y"}, Volume: 0.5, Duration: 1})
	advance(s, 1, 0.25)
	if s.Fading() {
		t.Fatalf("second fade should have replaced the first and finished")
	}
	if a.volume != 0.5 || b.playing {
		t.Fatalf("expected a at 0.5 and b stopped, got a=%v b playing=%v", a.volume, b.playing)
	}
}

func TestVolumeClamped(t *testing.T) {
	s, _, b := newTestScheduler()
	s.RequestTransition(Request{Clip: &testClip{"loud"}, Volume: 3, Duration: 0})
	if b.volume != 1 {
		t.Fatalf("expected target clamped to 1, got %v", b.volume)
	}
}

func TestNaNVolumeIsSilent(t *testing.T) {
	s, _, b := newTestScheduler()
	s.RequestTransition(Request{Clip: &testClip{"x"}, Volume: math.NaN(), Duration: 1})
	s.Update(seconds(0.5))
	if math.IsNaN(b.volume) || b.volume != 0 {
		t.Fatalf("expected a NaN target treated as silence, got %v", b.volume)
	}
}

func TestUpdateWithoutFade(t *testing.T) {
	s, a, b := newTestScheduler()
	s.Update(time.Second)
	if a.volume != 0 || b.volume != 0 || a.plays != 0 || b.plays != 0 {
		t.Fatalf("update without a fade must not touch channels")
	}
	var nilScheduler *Scheduler
	nilScheduler.Update(time.Second)
	nilScheduler.RequestTransition(Request{})
}
