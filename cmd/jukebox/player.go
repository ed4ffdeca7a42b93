package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/milk9111/rocketboost/engine"
	"github.com/milk9111/rocketboost/history"
	"github.com/milk9111/rocketboost/music"
	"github.com/milk9111/rocketboost/playback"
	"github.com/milk9111/rocketboost/scene"
)

// player drives the scene and music pipeline from a terminal. There is no
// gameplay here, so only the real-time systems run.
type player struct {
	screen   tcell.Screen
	scenes   *scene.Manager
	history  *history.History
	music    *music.Scheduler
	policy   *music.Policy
	mute     *playback.Mute
	systems  *engine.Scheduler
	clock    *engine.Clock
	override string
	status   string
}

type playerConfig struct {
	Catalog  *scene.Catalog
	Initial  scene.Ref
	Fallback string
	Override string
	Selector music.Selector
	Mute     *playback.Mute
	Logger   *slog.Logger
}

func newPlayer(screen tcell.Screen, cfg playerConfig, a, b music.Channel) (*player, error) {
	scenes, err := scene.NewManager(cfg.Catalog, cfg.Initial, cfg.Logger)
	if err != nil {
		return nil, err
	}
	p := &player{
		screen:   screen,
		scenes:   scenes,
		mute:     cfg.Mute,
		clock:    engine.NewClock(),
		override: cfg.Override,
	}
	p.history = history.New(scenes, history.WithFallback(cfg.Fallback), history.WithLogger(cfg.Logger))
	p.history.Seed()
	p.history.Attach(scenes)

	p.music = music.NewScheduler(a, b, music.WithLogger(cfg.Logger))
	p.policy = music.NewPolicy(p.music, cfg.Selector, scenes, cfg.Logger)
	p.policy.Attach(scenes)
	p.policy.Prime(scenes.Active())

	p.systems = engine.NewScheduler(scenes, p.music)
	return p, nil
}

func (p *player) close() {
	p.history.Close()
	p.policy.Close()
}

// handle applies one terminal event. It returns false when the player
// should quit.
func (p *player) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyEnter:
			p.advance()
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			p.back()
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case 'n':
				p.advance()
			case 'b':
				p.back()
			case 'm':
				if p.mute.Toggle() {
					p.status = "muted"
				} else {
					p.status = "sound on"
				}
			}
		}
	case *tcell.EventResize:
		p.screen.Sync()
	}
	return true
}

func (p *player) advance() {
	err := scene.Advance(p.scenes, p.override)
	switch {
	case err == nil:
		p.status = ""
	case errors.Is(err, scene.ErrNoNextScene):
		p.status = "no next scene"
	case errors.Is(err, scene.ErrLoadPending):
		p.status = "still loading"
	default:
		p.status = err.Error()
	}
}

func (p *player) back() {
	switch err := p.history.Back(); {
	case err == nil:
		p.status = ""
	case errors.Is(err, history.ErrBackInFlight):
		p.status = "already going back"
	case errors.Is(err, scene.ErrLoadPending):
		p.status = "still loading"
	default:
		p.status = "no previous scene"
	}
}

func (p *player) tick(now time.Time) {
	_, unscaled := p.clock.Tick(now)
	p.systems.Update(unscaled)
}

func (p *player) lines() []string {
	catalog := p.scenes.Catalog()
	names := make([]string, 0, p.history.Len())
	for _, ref := range p.history.Entries() {
		names = append(names, catalog.Name(ref))
	}
	out := []string{
		"scene:   " + catalog.Name(p.scenes.Active()),
		"history: " + strings.Join(names, " > "),
		"current: " + channelLine(p.music.Current()),
		"next:    " + channelLine(p.music.Next()),
	}
	if p.music.Fading() {
		out = append(out, "crossfading")
	}
	if p.status != "" {
		out = append(out, p.status)
	}
	return append(out, "", "n/enter: next  b/backspace: back  m: mute  q: quit")
}

func (p *player) draw() {
	p.screen.Clear()
	style := tcell.StyleDefault
	for y, line := range p.lines() {
		for x, r := range []rune(line) {
			p.screen.SetContent(x, y, r, nil, style)
		}
	}
	p.screen.Show()
}

func (p *player) run() {
	ticker := time.NewTicker(16 * time.Millisecond)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := p.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case ev := <-events:
			if !p.handle(ev) {
				return
			}
		case now := <-ticker.C:
			p.tick(now)
			p.draw()
		}
	}
}

func channelLine(ch music.Channel) string {
	name := "(none)"
	if c := ch.Clip(); c != nil {
		name = c.Name()
	}
	bar := strings.Repeat("#", int(ch.Volume()*20+0.5))
	return fmt.Sprintf("%-24s [%-20s] %.2f", name, bar, ch.Volume())
}
