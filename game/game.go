package game

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/rocketboost/engine"
	"github.com/milk9111/rocketboost/history"
	"github.com/milk9111/rocketboost/level"
	"github.com/milk9111/rocketboost/music"
	"github.com/milk9111/rocketboost/playback"
	"github.com/milk9111/rocketboost/scene"
)

const (
	BaseWidth  = 1280
	BaseHeight = 720

	defaultSceneTime = 60 * time.Second

	backgroundStart = 0
	backgroundEnd   = BaseWidth
	backgroundSpeed = 40
)

type Config struct {
	Catalog *scene.Catalog
	Initial scene.Ref
	Tracks  *level.Table
	Script  *level.Script

	// AudioDir is the root that clip paths in Tracks are relative to.
	AudioDir string
	Fallback string
	// Override is the scene the "next" control loads instead of the next
	// index. Empty follows catalog order.
	Override  string
	SceneTime time.Duration

	// Reload, when set, delivers changed content paths to hot-reload.
	Reload <-chan string
	// ReloadTracks re-reads the track bindings after a change.
	ReloadTracks func() (*level.Table, *level.Script, error)

	Debug   bool
	Verbose bool
	Logger  *slog.Logger
}

type Game struct {
	cfg    Config
	logger *slog.Logger

	scenes   *scene.Manager
	history  *history.History
	music    *music.Scheduler
	policy   *music.Policy
	selector *level.Selector
	mute     *playback.Mute

	clock      *engine.Clock
	realtime   *engine.Scheduler
	gameplay   *engine.Scheduler
	countdown  *engine.Countdown
	background *engine.Looper

	hud     *hud
	navUI   *ebitenui.UI
	pauseUI *ebitenui.UI
	nav     *navControls

	status   string
	statusAt time.Time
	frames   int
}

func New(cfg Config) (*Game, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.SceneTime <= 0 {
		cfg.SceneTime = defaultSceneTime
	}

	scenes, err := scene.NewManager(cfg.Catalog, cfg.Initial, logger)
	if err != nil {
		return nil, err
	}

	g := &Game{
		cfg:        cfg,
		logger:     logger,
		scenes:     scenes,
		clock:      engine.NewClock(),
		countdown:  engine.NewCountdown(cfg.SceneTime),
		background: engine.NewLooper(backgroundStart, backgroundEnd, backgroundSpeed),
		mute:       playback.NewMute(false),
	}
	scenes.OnLoad = g.onLoad

	g.history = history.New(scenes,
		history.WithFallback(cfg.Fallback),
		history.WithLogger(logger),
		history.WithVerbose(cfg.Verbose),
	)
	g.history.Seed()
	g.history.Attach(scenes)

	out := playback.NewEbitenOutput(g.mute, logger)
	g.music = music.NewScheduler(out.NewChannel(), out.NewChannel(), music.WithLogger(logger))
	g.selector = &level.Selector{
		Table:  cfg.Tracks,
		Script: cfg.Script,
		Clips:  playback.NewLibrary(cfg.AudioDir, out.Decode),
		Logger: logger,
	}
	g.policy = music.NewPolicy(g.music, g.selector, scenes, logger)
	g.policy.Attach(scenes)
	g.policy.Prime(scenes.Active())

	// Loads and music run on real time; the countdown and scrolling stop
	// while paused.
	g.realtime = engine.NewScheduler(scenes, g.music)
	g.gameplay = engine.NewScheduler(
		engine.SystemFunc(g.updateCountdown),
		g.background,
	)

	g.hud, err = newHUD()
	if err != nil {
		return nil, err
	}
	g.nav = newNavControls(g)
	g.navUI = g.nav.ui
	g.pauseUI = newPauseUI(g)
	return g, nil
}

// Close releases the pipeline subscriptions.
func (g *Game) Close() {
	g.history.Close()
	g.policy.Close()
}

func (g *Game) onLoad(ref scene.Ref, mode scene.LoadMode) error {
	if mode != scene.Single {
		return nil
	}
	g.countdown.Reset()
	g.background.Reset()
	return nil
}

func (g *Game) updateCountdown(dt time.Duration) {
	if g.countdown.Update(dt) {
		g.setStatus("Time's up!")
	}
}

func (g *Game) Update() error {
	g.frames++
	scaled, unscaled := g.clock.Tick(time.Now())

	g.handleInput()
	g.pollReload()

	if g.clock.Paused() {
		g.pauseUI.Update()
	} else {
		g.nav.refresh()
		g.navUI.Update()
	}

	g.realtime.Update(unscaled)
	g.gameplay.Update(scaled)
	return nil
}

func (g *Game) handleInput() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		g.togglePause()
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		g.toggleMute()
	case g.clock.Paused():
		// Navigation waits until the game resumes.
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		g.advance()
	case inpututil.IsKeyJustPressed(ebiten.KeyBackspace), inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		g.goBack()
	}
}

func (g *Game) advance() {
	err := scene.Advance(g.scenes, g.cfg.Override)
	switch {
	case err == nil:
	case errors.Is(err, scene.ErrNoNextScene):
		g.setStatus("No next scene.")
	case errors.Is(err, scene.ErrLoadPending):
		g.setStatus("A scene is still loading.")
	default:
		g.logger.Warn("game: advance", "err", err)
		g.setStatus("Cannot load the next scene.")
	}
}

func (g *Game) goBack() {
	switch err := g.history.Back(); {
	case err == nil:
	case errors.Is(err, scene.ErrLoadPending), errors.Is(err, history.ErrBackInFlight):
		g.setStatus("A scene is still loading.")
	default:
		g.logger.Debug("game: go back refused", "err", err)
		g.setStatus("No previous scene to go back to.")
	}
}

func (g *Game) togglePause() {
	if g.clock.Paused() {
		g.clock.SetTimeScale(1)
	} else {
		g.clock.SetTimeScale(0)
	}
}

func (g *Game) toggleMute() {
	if g.mute.Toggle() {
		g.setStatus("Muted.")
	} else {
		g.setStatus("Sound on.")
	}
}

func (g *Game) setStatus(msg string) {
	g.status = msg
	g.statusAt = time.Now()
}

func (g *Game) pollReload() {
	if g.cfg.Reload == nil || g.cfg.ReloadTracks == nil {
		return
	}
	for {
		select {
		case path, ok := <-g.cfg.Reload:
			if !ok {
				g.cfg.Reload = nil
				return
			}
			table, script, err := g.cfg.ReloadTracks()
			if err != nil {
				g.logger.Warn("game: reload tracks", "path", path, "err", err)
				continue
			}
			g.selector.Table = table
			g.selector.Script = script
			g.logger.Info("game: tracks reloaded", "path", path, "scenes", table.Scenes())
			g.policy.OnSceneBecameActive(g.scenes.Active())
		default:
			return
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.hud.drawBackground(screen, g.background.Pos())
	g.hud.drawScene(screen, g)
	if g.clock.Paused() {
		g.pauseUI.Draw(screen)
	} else {
		g.navUI.Draw(screen)
	}
	if g.cfg.Debug {
		g.hud.drawDebug(screen, fmt.Sprintf("Frames: %d    FPS: %.2f    Time scale: %.1f", g.frames, ebiten.ActualFPS(), g.clock.TimeScale()))
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return BaseWidth, BaseHeight
}
