package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/rocketboost/content"
	"github.com/milk9111/rocketboost/game"
	"github.com/milk9111/rocketboost/level"
	"github.com/milk9111/rocketboost/scene"
)

func main() {
	scenesPath := flag.String("scenes", content.DiskPath(content.ScenesFile), "scene catalog (yaml)")
	tracksPath := flag.String("tracks", content.DiskPath(content.TracksFile), "per-scene music bindings (yaml)")
	scriptPath := flag.String("script", content.DiskPath(content.ScriptFile), "optional tengo track selector; empty disables it")
	audioDir := flag.String("audio", "", "directory clip paths are relative to")
	initial := flag.String("level", "", "scene to start in (name or path); defaults to the first catalog entry")
	fallback := flag.String("fallback", "", "scene GoBack loads when there is nothing to return to")
	override := flag.String("override", "", "scene the next control loads instead of the next catalog entry")
	watch := flag.Bool("watch", false, "reload track bindings when they change on disk")
	debug := flag.Bool("debug", false, "enable debug mode")
	verbose := flag.Bool("verbose", false, "log every history push and pop")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	logLevel := slog.LevelInfo
	if *debug || *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	catalog, start, err := loadCatalog(*scenesPath, *initial)
	if err != nil {
		log.Fatal(err)
	}
	reloadTracks := func() (*level.Table, *level.Script, error) {
		return loadTracks(*tracksPath, *scriptPath)
	}
	table, script, err := reloadTracks()
	if err != nil {
		log.Fatal(err)
	}
	logger.Debug("tracks loaded", "scenes", table.Scenes(), "script", script != nil)

	cfg := game.Config{
		Catalog:  catalog,
		Initial:  start,
		Tracks:   table,
		Script:   script,
		AudioDir: *audioDir,
		Fallback: *fallback,
		Override: *override,
		Debug:    *debug,
		Verbose:  *verbose,
		Logger:   logger,
	}

	if *watch {
		w, err := level.NewWatcher(*tracksPath, *scriptPath)
		if err != nil {
			logger.Warn("watch disabled", "tracks", *tracksPath, "script", *scriptPath, "err", err)
		} else {
			defer w.Close()
			go func() {
				for err := range w.Errors {
					logger.Warn("watch", "err", err)
				}
			}()
			cfg.Reload = w.Events
			cfg.ReloadTracks = reloadTracks
		}
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(game.BaseWidth, game.BaseHeight)
	ebiten.SetWindowTitle("rocketboost")

	g, err := game.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer g.Close()

	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}

func loadCatalog(path, initial string) (*scene.Catalog, scene.Ref, error) {
	data, err := content.LoadPath(path)
	if err != nil {
		return nil, scene.InvalidRef, err
	}
	catalog, err := scene.LoadCatalog(data)
	if err != nil {
		return nil, scene.InvalidRef, err
	}
	if initial == "" {
		return catalog, 0, nil
	}
	ref, ok := catalog.IndexByName(initial)
	if !ok {
		return nil, scene.InvalidRef, fmt.Errorf("%w: %s", scene.ErrUnknownScene, initial)
	}
	return catalog, ref, nil
}

func loadTracks(tracksPath, scriptPath string) (*level.Table, *level.Script, error) {
	data, err := content.LoadPath(tracksPath)
	if err != nil {
		return nil, nil, err
	}
	table, err := level.LoadTable(data)
	if err != nil {
		return nil, nil, err
	}
	if scriptPath == "" {
		return table, nil, nil
	}
	src, err := content.LoadPath(scriptPath)
	if err != nil {
		return nil, nil, err
	}
	script, err := level.CompileScript(src)
	if err != nil {
		return nil, nil, err
	}
	return table, script, nil
}
