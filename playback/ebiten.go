package playback

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"

	"github.com/milk9111/rocketboost/music"
)

const ebitenSampleRate = 44100

// EbitenClip is an encoded track. Each channel decodes its own stream so
// both channels can hold the same clip at once.
type EbitenClip struct {
	path string
	data []byte
}

func (c *EbitenClip) Name() string { return c.path }

// EbitenOutput owns the ebiten audio context shared by its channels.
type EbitenOutput struct {
	ctx    *audio.Context
	mute   *Mute
	logger *slog.Logger
}

// NewEbitenOutput reuses the process audio context when one already exists.
func NewEbitenOutput(mute *Mute, logger *slog.Logger) *EbitenOutput {
	ctx := audio.CurrentContext()
	if ctx == nil {
		ctx = audio.NewContext(ebitenSampleRate)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EbitenOutput{ctx: ctx, mute: mute, logger: logger}
}

// Decode is a Decoder for wav, ogg and mp3 files. Decoding is validated
// once here so a broken file fails at load time, not at swap time.
func (o *EbitenOutput) Decode(path string, data []byte) (music.Clip, error) {
	c := &EbitenClip{path: path, data: data}
	if _, err := o.stream(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (o *EbitenOutput) stream(c *EbitenClip) (io.ReadSeeker, error) {
	r := bytes.NewReader(c.data)
	sr := o.ctx.SampleRate()
	switch clipExt(c.path) {
	case ".wav":
		s, err := wav.DecodeWithSampleRate(sr, r)
		if err != nil {
			return nil, fmt.Errorf("decode wav %q: %w", c.path, err)
		}
		return audio.NewInfiniteLoop(s, s.Length()), nil
	case ".ogg":
		s, err := vorbis.DecodeWithSampleRate(sr, r)
		if err != nil {
			return nil, fmt.Errorf("decode ogg %q: %w", c.path, err)
		}
		return audio.NewInfiniteLoop(s, s.Length()), nil
	case ".mp3":
		s, err := mp3.DecodeWithSampleRate(sr, r)
		if err != nil {
			return nil, fmt.Errorf("decode mp3 %q: %w", c.path, err)
		}
		return audio.NewInfiniteLoop(s, s.Length()), nil
	default:
		// Already-decoded PCM in ebiten's native format.
		return audio.NewInfiniteLoop(r, int64(len(c.data))), nil
	}
}

// NewChannel creates a looping channel with no clip.
func (o *EbitenOutput) NewChannel() *EbitenChannel {
	ch := &EbitenChannel{out: o}
	o.mute.attach(ch)
	return ch
}

// EbitenChannel implements music.Channel over an *audio.Player.
type EbitenChannel struct {
	out    *EbitenOutput
	clip   *EbitenClip
	player *audio.Player
	volume float64
}

func (c *EbitenChannel) SetClip(clip music.Clip) {
	if c.player != nil {
		_ = c.player.Close()
		c.player = nil
	}
	c.clip = nil
	if clip == nil {
		return
	}
	ec, ok := clip.(*EbitenClip)
	if !ok {
		c.out.logger.Warn("playback: clip is not an ebiten clip", "clip", clip.Name())
		return
	}
	stream, err := c.out.stream(ec)
	if err != nil {
		c.out.logger.Warn("playback: open clip", "clip", ec.path, "err", err)
		return
	}
	player, err := c.out.ctx.NewPlayer(stream)
	if err != nil {
		c.out.logger.Warn("playback: new player", "clip", ec.path, "err", err)
		return
	}
	c.clip = ec
	c.player = player
	c.applyVolume()
}

func (c *EbitenChannel) Clip() music.Clip {
	if c.clip == nil {
		return nil
	}
	return c.clip
}

func (c *EbitenChannel) SetVolume(volume float64) {
	c.volume = clamp01(volume)
	c.applyVolume()
}

func (c *EbitenChannel) Volume() float64 { return c.volume }

func (c *EbitenChannel) applyVolume() {
	if c.player != nil {
		c.player.SetVolume(c.volume * c.out.mute.gain())
	}
}

func (c *EbitenChannel) Play() {
	if c.player != nil {
		c.player.Play()
	}
}

func (c *EbitenChannel) Stop() {
	if c.player == nil {
		return
	}
	c.player.Pause()
	_ = c.player.Rewind()
}

func (c *EbitenChannel) IsPlaying() bool {
	return c.player != nil && c.player.IsPlaying()
}
