package playback

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"

	"github.com/milk9111/rocketboost/music"
)

const beepSampleRate = beep.SampleRate(44100)

// BeepClip holds a fully decoded track at the output sample rate.
type BeepClip struct {
	path   string
	buffer *beep.Buffer
}

func (c *BeepClip) Name() string { return c.path }

func newBeepClip(path string, rate beep.SampleRate, s beep.Streamer) *BeepClip {
	buf := beep.NewBuffer(beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2})
	buf.Append(s)
	return &BeepClip{path: path, buffer: buf}
}

// speakerLock serializes mutations with the speaker's streaming goroutine.
type speakerLock struct{}

func (speakerLock) Lock()   { speaker.Lock() }
func (speakerLock) Unlock() { speaker.Unlock() }

// BeepOutput mixes its channels into the speaker.
type BeepOutput struct {
	rate  beep.SampleRate
	mixer *beep.Mixer
	lock  sync.Locker
	mute  *Mute
}

// NewBeepOutput initializes the speaker with a 100ms buffer.
func NewBeepOutput(mute *Mute) (*BeepOutput, error) {
	if err := speaker.Init(beepSampleRate, beepSampleRate.N(100*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("playback: init speaker: %w", err)
	}
	o := newBeepOutput(beepSampleRate, speakerLock{}, mute)
	speaker.Play(o.mixer)
	return o, nil
}

func newBeepOutput(rate beep.SampleRate, lock sync.Locker, mute *Mute) *BeepOutput {
	return &BeepOutput{rate: rate, mixer: &beep.Mixer{}, lock: lock, mute: mute}
}

// Decode is a Decoder for wav files, resampled to the output rate.
func (o *BeepOutput) Decode(path string, data []byte) (music.Clip, error) {
	if clipExt(path) != ".wav" {
		return nil, fmt.Errorf("unsupported clip format %q", clipExt(path))
	}
	s, format, err := wav.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode wav %q: %w", path, err)
	}
	defer s.Close()

	var src beep.Streamer = s
	if format.SampleRate != o.rate {
		src = beep.Resample(4, format.SampleRate, o.rate, s)
	}
	return newBeepClip(path, o.rate, src), nil
}

// Close silences every channel.
func (o *BeepOutput) Close() {
	o.lock.Lock()
	o.mixer.Clear()
	o.lock.Unlock()
}

// NewChannel adds a silent channel to the mixer.
func (o *BeepOutput) NewChannel() *BeepChannel {
	ch := &BeepChannel{out: o, gain: &gainStreamer{}}
	ch.ctrl = &beep.Ctrl{Streamer: ch.gain, Paused: true}
	o.lock.Lock()
	o.mixer.Add(ch.ctrl)
	o.lock.Unlock()
	o.mute.attach(ch)
	return ch
}

// BeepChannel implements music.Channel. The control and gain streamers stay
// in the mixer for the channel's lifetime; only their source changes.
type BeepChannel struct {
	out    *BeepOutput
	ctrl   *beep.Ctrl
	gain   *gainStreamer
	clip   *BeepClip
	volume float64
}

func (c *BeepChannel) SetClip(clip music.Clip) {
	var src beep.Streamer
	bc, _ := clip.(*BeepClip)
	if bc != nil {
		src = beep.Loop(-1, bc.buffer.Streamer(0, bc.buffer.Len()))
	}
	c.out.lock.Lock()
	c.gain.src = src
	c.out.lock.Unlock()
	c.clip = bc
}

func (c *BeepChannel) Clip() music.Clip {
	if c.clip == nil {
		return nil
	}
	return c.clip
}

func (c *BeepChannel) SetVolume(volume float64) {
	c.volume = clamp01(volume)
	c.applyVolume()
}

func (c *BeepChannel) Volume() float64 { return c.volume }

func (c *BeepChannel) applyVolume() {
	g := c.volume * c.out.mute.gain()
	c.out.lock.Lock()
	c.gain.level = g
	c.out.lock.Unlock()
}

func (c *BeepChannel) Play() {
	if c.clip == nil {
		return
	}
	c.out.lock.Lock()
	c.ctrl.Paused = false
	c.out.lock.Unlock()
}

func (c *BeepChannel) Stop() {
	c.out.lock.Lock()
	c.ctrl.Paused = true
	c.out.lock.Unlock()
}

func (c *BeepChannel) IsPlaying() bool {
	c.out.lock.Lock()
	defer c.out.lock.Unlock()
	return !c.ctrl.Paused && c.gain.src != nil
}

// gainStreamer scales src linearly and streams silence when src is unset
// or drained, so the mixer never drops it.
type gainStreamer struct {
	src   beep.Streamer
	level float64
}

func (g *gainStreamer) Stream(samples [][2]float64) (int, bool) {
	n := 0
	if g.src != nil {
		var ok bool
		n, ok = g.src.Stream(samples)
		if !ok {
			g.src = nil
		}
	}
	for i := 0; i < n; i++ {
		samples[i][0] *= g.level
		samples[i][1] *= g.level
	}
	for i := n; i < len(samples); i++ {
		samples[i] = [2]float64{}
	}
	return len(samples), true
}

func (g *gainStreamer) Err() error { return nil }
