package app

import (
	"context"
	"log/slog"
	"path/filepath"

	"cminify/internal/core/watcher"
	"cminify/internal/shared/util"
)

// StartWatcher re-runs the pipeline whenever a source file next to the input
// changes. Results are delivered through the update callback.
func (a *App) StartWatcher() error {
	cfg := a.Config.Watch
	w, err := watcher.NewWatcher(watcher.Options{
		Debounce:     cfg.Debounce,
		Extensions:   cfg.Extensions,
		ExcludeDirs:  cfg.ExcludeDirs,
		ExcludeFiles: cfg.ExcludeFiles,
		Limiter:      util.NewLimiter(cfg.MaxRunsPerSecond, 1),
	}, a.HandleChanges)
	if err != nil {
		return err
	}
	a.activeWatcher = w
	return w.Watch([]string{filepath.Dir(a.Config.Input.Path)})
}

// HandleChanges ignores writes to the configured outputs and re-runs on
// anything else.
func (a *App) HandleChanges(paths []string) {
	relevant := 0
	for _, p := range paths {
		if util.SamePath(p, a.Config.Output.Minified) || util.SamePath(p, a.Config.Output.IR) {
			continue
		}
		relevant++
	}
	if relevant == 0 {
		return
	}
	slog.Info("detected changes", "count", relevant)

	out, err := a.RunOnce(context.Background())
	if err != nil {
		slog.Error("minify failed", "path", a.Config.Input.Path, "error", err)
	}
	a.emitUpdate(Update{Outcome: out, Err: err})
}
