// Command jukebox walks the scene catalog from a terminal and plays each
// scene's music through the speaker.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep/speaker"

	"github.com/milk9111/rocketboost/content"
	"github.com/milk9111/rocketboost/level"
	"github.com/milk9111/rocketboost/playback"
	"github.com/milk9111/rocketboost/scene"
)

type options struct {
	scenes   string
	tracks   string
	audio    string
	fallback string
	override string
	log      string
}

func main() {
	var opts options
	flag.StringVar(&opts.scenes, "scenes", content.DiskPath(content.ScenesFile), "scene catalog (yaml)")
	flag.StringVar(&opts.tracks, "tracks", content.DiskPath(content.TracksFile), "per-scene music bindings (yaml)")
	flag.StringVar(&opts.audio, "audio", "", "directory clip paths are relative to (wav only)")
	flag.StringVar(&opts.fallback, "fallback", "", "scene back loads when there is nothing to return to")
	flag.StringVar(&opts.override, "override", "", "scene next loads instead of the next catalog entry")
	flag.StringVar(&opts.log, "log", "", "write logs to this file; the terminal is busy")
	flag.Parse()

	// run returns before log.Fatal so the terminal and speaker are restored.
	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}

func run(opts options) error {
	logger := slog.New(slog.DiscardHandler)
	if opts.log != "" {
		f, err := os.Create(opts.log)
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
		logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	data, err := content.LoadPath(opts.scenes)
	if err != nil {
		return err
	}
	catalog, err := scene.LoadCatalog(data)
	if err != nil {
		return err
	}
	data, err = content.LoadPath(opts.tracks)
	if err != nil {
		return err
	}
	table, err := level.LoadTable(data)
	if err != nil {
		return err
	}
	logger.Debug("tracks loaded", "scenes", table.Scenes())

	mute := playback.NewMute(false)
	out, err := playback.NewBeepOutput(mute)
	if err != nil {
		return err
	}
	defer speaker.Close()
	defer out.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	selector := &level.Selector{
		Table:  table,
		Clips:  playback.NewLibrary(opts.audio, out.Decode),
		Logger: logger,
	}
	p, err := newPlayer(screen, playerConfig{
		Catalog:  catalog,
		Fallback: opts.fallback,
		Override: opts.override,
		Selector: selector,
		Mute:     mute,
		Logger:   logger,
	}, out.NewChannel(), out.NewChannel())
	if err != nil {
		return err
	}
	defer p.close()

	p.run()
	return nil
}
