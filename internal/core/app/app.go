package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"cminify/internal/core/config"
	domainerrors "cminify/internal/core/errors"
	"cminify/internal/core/ports"
	"cminify/internal/core/watcher"
	"cminify/internal/data/history"
	"cminify/internal/engine/dialect"
	"cminify/internal/engine/minify"
)

// Outcome is the result of one run as seen by callers of App.
type Outcome struct {
	RunID      string
	SourcePath string
	Result     *minify.Result
	Cached     bool
	Duration   time.Duration
	Timestamp  time.Time
}

// Update is delivered to the update callback after every watch-mode run.
type Update struct {
	Outcome *Outcome
	Err     error
}

type App struct {
	Config    *config.Config
	dialect   *dialect.Dialect
	formatter minify.Formatter
	verbose   bool

	cache   *lru.Cache[string, *minify.Result]
	history ports.RunStore

	runMu sync.Mutex

	updateMu sync.RWMutex
	onUpdate func(Update)
	lastRun  *Outcome

	activeWatcher *watcher.Watcher
}

// New builds an App for cfg. History is opened when enabled.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, domainerrors.New(domainerrors.CodeValidationError, "config is required")
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	cache, err := lru.New[string, *minify.Result](cfg.Cache.Entries)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeValidationError, "create result cache")
	}

	a := &App{
		Config:  cfg,
		dialect: dialect.New(cfg.DialectOptions()),
		cache:   cache,
	}

	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, domainerrors.AddContext(domainerrors.Wrap(err, domainerrors.CodeIO, "open run history"), domainerrors.CtxPath, cfg.History.Path)
		}
		a.history = store
	}
	return a, nil
}

// SetFormatter installs the IR pretty-printer. Nil disables formatting.
func (a *App) SetFormatter(f minify.Formatter) {
	a.runMu.Lock()
	defer a.runMu.Unlock()
	a.formatter = f
	a.cache.Purge()
}

// SetVerbose toggles the symbol report on results.
func (a *App) SetVerbose(v bool) {
	a.runMu.Lock()
	defer a.runMu.Unlock()
	a.verbose = v
	a.cache.Purge()
}

// SetRunStore replaces the history store, closing the previous one.
func (a *App) SetRunStore(store ports.RunStore) {
	a.runMu.Lock()
	defer a.runMu.Unlock()
	if a.history != nil && a.history != store {
		if err := a.history.Close(); err != nil {
			slog.Warn("failed to close run history", "error", err)
		}
	}
	a.history = store
}

func (a *App) Dialect() *dialect.Dialect {
	return a.dialect
}

// HistoryEnabled reports whether runs are being persisted.
func (a *App) HistoryEnabled() bool {
	return a.history != nil
}

// SetUpdateCallback registers fn to receive watch-mode results.
func (a *App) SetUpdateCallback(fn func(Update)) {
	a.updateMu.Lock()
	defer a.updateMu.Unlock()
	a.onUpdate = fn
}

func (a *App) emitUpdate(u Update) {
	a.updateMu.Lock()
	if u.Outcome != nil {
		a.lastRun = u.Outcome
	}
	fn := a.onUpdate
	a.updateMu.Unlock()
	if fn != nil {
		fn(u)
	}
}

// LastRun returns the most recent successful watch-mode outcome, if any.
func (a *App) LastRun() *Outcome {
	a.updateMu.RLock()
	defer a.updateMu.RUnlock()
	return a.lastRun
}

// RecentRuns lists up to limit stored runs of the configured input.
func (a *App) RecentRuns(ctx context.Context, limit int) ([]history.Run, error) {
	if a.history == nil {
		return nil, domainerrors.New(domainerrors.CodeNotSupported, "run history is disabled")
	}
	runs, err := a.history.RecentRuns(ctx, a.Config.Input.Path, limit)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeIO, "load run history")
	}
	return runs, nil
}

func (a *App) Close(ctx context.Context) error {
	if a.activeWatcher != nil {
		if err := a.activeWatcher.Close(); err != nil {
			slog.Warn("failed to close watcher", "error", err)
		}
		a.activeWatcher = nil
	}
	if a.history != nil {
		err := a.history.Close()
		a.history = nil
		return err
	}
	return nil
}
