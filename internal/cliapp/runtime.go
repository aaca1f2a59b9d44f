package cliapp

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	coreapp "cminify/internal/core/app"
	"cminify/internal/core/config"
	domainerrors "cminify/internal/core/errors"
	"cminify/internal/format"
	"cminify/internal/shared/observability"
)

// Run is the cminify entry point. It returns the process exit code.
func Run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseOptions(args, stderr)
	if err != nil {
		return 2
	}

	if opts.version {
		fmt.Fprintf(stdout, "cminify v%s\n", versionString)
		return 0
	}

	closeLog := configureLogging(stderr, opts.ui, opts.verbose)
	defer closeLog()

	if err := config.LoadEnvFile(".env"); err != nil {
		slog.Warn("ignoring .env file", "error", err)
	}
	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprint(stderr, renderError(err))
		return 1
	}

	shutdownTracing := initTracing(ctx, cfg)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			slog.Warn("failed to flush traces", "error", err)
		}
	}()

	app, err := coreapp.New(cfg)
	if err != nil {
		fmt.Fprint(stderr, renderError(err))
		return 1
	}
	defer func() {
		if err := app.Close(context.Background()); err != nil {
			slog.Warn("failed to close app", "error", err)
		}
	}()

	if opts.history > 0 {
		runs, err := app.RecentRuns(ctx, opts.history)
		if err != nil {
			fmt.Fprint(stderr, renderError(err))
			return 1
		}
		fmt.Fprint(stdout, renderHistory(cfg.Input.Path, runs))
		return 0
	}

	app.SetVerbose(opts.verbose)
	if cfg.Format.IsEnabled() {
		app.SetFormatter(format.NewRunner(cfg.Format, cfg.Output.IR))
	}

	out, err := app.RunOnce(ctx)
	if !opts.ui {
		if err != nil {
			fmt.Fprint(stderr, renderError(err))
		} else {
			fmt.Fprint(stdout, renderSummary(out, cfg.Output.IR, cfg.Output.Minified, opts.verbose))
		}
	}
	if !opts.watch {
		if err != nil {
			return 1
		}
		return 0
	}
	return watch(ctx, app, cfg, opts, coreapp.Update{Outcome: out, Err: err}, stdout, stderr)
}

func watch(ctx context.Context, app *coreapp.App, cfg *config.Config, opts cliOptions, first coreapp.Update, stdout, stderr io.Writer) int {
	if cfg.Observability.Enabled {
		server := NewObservabilityServer(cfg.Observability.Address, coreapp.NewHealthService(app))
		if err := server.Start(ctx); err != nil {
			slog.Error("failed to start observability server", "error", err)
			return 1
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Stop(stopCtx)
		}()
	}

	if opts.ui {
		if err := runUI(ctx, app, cfg, first); err != nil {
			slog.Error("failed to run UI", "error", err)
			return 1
		}
		return 0
	}

	app.SetUpdateCallback(func(u coreapp.Update) {
		if u.Err != nil {
			fmt.Fprint(stderr, renderError(u.Err))
			return
		}
		fmt.Fprint(stdout, renderSummary(u.Outcome, cfg.Output.IR, cfg.Output.Minified, opts.verbose))
	})
	if err := app.StartWatcher(); err != nil {
		slog.Error("failed to start watcher", "error", err)
		return 1
	}
	slog.Info("watching for changes", "path", cfg.Input.Path)

	<-ctx.Done()
	return 0
}

// loadConfig layers the config file, environment overrides and flags, in
// that order.
func loadConfig(opts cliOptions) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(opts.configPath)
	if err != nil {
		return nil, err
	}
	config.ApplyEnvOverrides(cfg)

	if len(opts.args) > 1 {
		return nil, domainerrors.New(domainerrors.CodeValidationError, fmt.Sprintf("expected at most one input file, got %d", len(opts.args)))
	}
	if len(opts.args) == 1 {
		cfg.Input.Path = opts.args[0]
	}
	if strings.TrimSpace(opts.output) != "" {
		cfg.Output.Minified = opts.output
	}
	if strings.TrimSpace(opts.ir) != "" {
		cfg.Output.IR = opts.ir
	}
	if opts.history > 0 {
		cfg.History.Enabled = true
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func initTracing(ctx context.Context, cfg *config.Config) observability.ShutdownFunc {
	if !cfg.Observability.EnableTracing {
		return func(context.Context) error { return nil }
	}
	shutdown, err := observability.InitTracing(ctx, cfg.Observability.OTLPEndpoint, versionString)
	if err != nil {
		slog.Warn("tracing disabled", "error", err)
	}
	return shutdown
}

// configureLogging writes logs to w, or to a state file in UI mode where the
// terminal belongs to the dashboard.
func configureLogging(w io.Writer, uiMode, verbose bool) func() {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	output := w
	closeFn := func() {}
	if uiMode {
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
			fmt.Fprintf(w, "warning: failed to create log dir for %s: %v\n", logPath, err)
		} else if f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600); err != nil {
			fmt.Fprintf(w, "warning: failed to open log file %s: %v\n", logPath, err)
		} else {
			output = f
			closeFn = func() { _ = f.Close() }
		}
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	return closeFn
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "cminify", "cminify.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "cminify", "cminify.log")
	}

	return "cminify.log"
}
