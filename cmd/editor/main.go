// Command editor opens a duckling map in an ebiten window.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/duckling/command"
	"github.com/milk9111/duckling/config"
	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/editor"
	"github.com/milk9111/duckling/logging"
	"github.com/milk9111/duckling/persist"
	"github.com/milk9111/duckling/prefabs"
	"go.uber.org/zap"
)

const appName = "duckling"

func main() {
	configPath := flag.String("config", "duckling.yaml", "Path to the editor config file")
	projectDir := flag.String("project", "", "Project directory to open (overrides project_root)")
	mapName := flag.String("map", "", "Map name to edit (overrides map)")
	logLevel := flag.String("log-level", "", "Log level (overrides log_level)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *projectDir != "" {
		cfg.ProjectRoot = *projectDir
	}
	if *mapName != "" {
		cfg.Map = *mapName
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("editor stopped", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx := context.Background()
	log.Info("editor starting", zap.String("project", cfg.ProjectRoot), zap.String("map", cfg.Map))

	storeOpts := []persist.Option{persist.WithLogger(log)}
	if cfg.Compress {
		storeOpts = append(storeOpts, persist.WithCompression())
	}
	store := persist.NewMapStore(cfg.ProjectRoot, storeOpts...)

	opts := []editor.Option{
		editor.WithLogger(log),
		editor.WithWorld(ecs.NewWorld(ecs.WithKeys(cfg.KeyGenerator()))),
		editor.WithQueue(command.NewQueue(append(cfg.QueueOptions(), command.WithLogger(log))...)),
	}
	if projects := openProjects(cfg, log); projects != nil {
		opts = append(opts, editor.WithProjects(projects))
	}
	if cb, err := editor.NewSystemClipboard(); err != nil {
		log.Warn("system clipboard unavailable, copying within the editor only", zap.Error(err))
	} else {
		opts = append(opts, editor.WithClipboard(cb))
	}

	session, err := editor.NewSession(store, cfg.Map, opts...)
	if err != nil {
		return err
	}
	if err := session.UseTemplate(cfg.Template); err != nil {
		return fmt.Errorf("template %s: %w", cfg.Template, err)
	}
	if err := session.OpenProject(ctx, persist.NewProject(cfg.ProjectRoot)); err != nil {
		return err
	}

	game, err := NewEditor(session, watchPrefabs(log), log)
	if err != nil {
		return err
	}
	defer game.Close()

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(game)
}

func openProjects(cfg config.Config, log *zap.Logger) persist.ProjectStore {
	if cfg.ProjectsBackend == config.ProjectsAppData {
		store, err := persist.OpenGdataProjects(appName)
		if err != nil {
			log.Warn("app data unavailable, recent projects are not recorded", zap.Error(err))
			return nil
		}
		return store
	}
	if cfg.RecentProjectsFile == "" {
		return nil
	}
	return persist.FileProjects{Path: cfg.RecentProjectsFile}
}

// watchPrefabs watches the on-disk prefab directory when one exists.
func watchPrefabs(log *zap.Logger) *prefabs.Watcher {
	dir := prefabs.DiskDir
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	dirs := []string{dir}
	if scripts := filepath.Join(dir, "scripts"); isDir(scripts) {
		dirs = append(dirs, scripts)
	}
	w, err := prefabs.NewWatcher(dirs...)
	if err != nil {
		log.Warn("prefab watcher unavailable", zap.Error(err))
		return nil
	}
	return w
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
