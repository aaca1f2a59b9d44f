package app

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	domainerrors "cminify/internal/core/errors"
	"cminify/internal/data/history"
	"cminify/internal/engine/minify"
	"cminify/internal/shared/observability"
	"cminify/internal/shared/util"
)

// RunOnce minifies the configured input and writes both outputs. Runs are
// serialized.
func (a *App) RunOnce(ctx context.Context) (*Outcome, error) {
	ctx, span := observability.Tracer.Start(ctx, "app.RunOnce", trace.WithAttributes(
		attribute.String("path", a.Config.Input.Path),
	))
	defer span.End()

	a.runMu.Lock()
	defer a.runMu.Unlock()

	out, err := a.run(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		observability.RunsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("source_bytes", out.Result.Stats.SourceBytes),
		attribute.Int("minified_bytes", out.Result.Stats.MinifiedBytes),
		attribute.Bool("cached", out.Cached),
	)
	return out, nil
}

func (a *App) run(ctx context.Context) (*Outcome, error) {
	start := time.Now()
	path := a.Config.Input.Path

	source, err := os.ReadFile(path)
	if err != nil {
		code := domainerrors.CodeIO
		if errors.Is(err, os.ErrNotExist) {
			code = domainerrors.CodeNotFound
		}
		return nil, domainerrors.AddContext(domainerrors.Wrap(err, code, "read source"), domainerrors.CtxPath, path)
	}

	key := util.ContentKey(source)
	result, cached := a.cache.Get(key)
	if !cached {
		result = minify.Minify(ctx, string(source), minify.Options{
			Dialect:   a.dialect,
			Verbose:   a.verbose,
			Formatter: a.formatter,
		})
		a.cache.Add(key, result)
		if a.formatter != nil && !result.Formatted {
			observability.FormatFailuresTotal.Inc()
		}
	} else {
		observability.CacheHitsTotal.Inc()
	}

	if err := a.writeOutputs(result); err != nil {
		return nil, err
	}

	out := &Outcome{
		SourcePath: path,
		Result:     result,
		Cached:     cached,
		Duration:   time.Since(start),
		Timestamp:  time.Now().UTC(),
	}
	a.recordRun(ctx, out)

	label := "ok"
	if cached {
		label = "cached"
	}
	observability.RunsTotal.WithLabelValues(label).Inc()
	observability.MinifyDuration.WithLabelValues(label).Observe(out.Duration.Seconds())
	observability.SourceBytes.Set(float64(result.Stats.SourceBytes))
	observability.MinifiedBytes.Set(float64(result.Stats.MinifiedBytes))
	observability.RenamedSymbols.Set(float64(result.Stats.RenamedSymbols))

	slog.Info("minified",
		"path", path,
		"bytes", result.Stats.SourceBytes,
		"minifiedBytes", result.Stats.MinifiedBytes,
		"cached", cached,
		"duration", out.Duration,
	)
	return out, nil
}

func (a *App) writeOutputs(result *minify.Result) error {
	targets := []struct {
		path    string
		content string
	}{
		{a.Config.Output.IR, result.FormattedIR},
		{a.Config.Output.Minified, result.Minified},
	}
	for _, t := range targets {
		if err := util.WriteStringWithDirs(t.path, t.content, 0o644); err != nil {
			return domainerrors.AddContext(domainerrors.Wrap(err, domainerrors.CodeIO, "write output"), domainerrors.CtxPath, t.path)
		}
	}
	return nil
}

// recordRun persists out when history is enabled. Failures are logged since
// the outputs are already written.
func (a *App) recordRun(ctx context.Context, out *Outcome) {
	if a.history == nil {
		return
	}
	stats := out.Result.Stats
	saved, err := a.history.SaveRun(ctx, history.Run{
		SourcePath:     out.SourcePath,
		Timestamp:      out.Timestamp,
		SourceBytes:    stats.SourceBytes,
		IRBytes:        stats.IRBytes,
		MinifiedBytes:  stats.MinifiedBytes,
		RenamedSymbols: stats.RenamedSymbols,
		Duration:       out.Duration,
		Cached:         out.Cached,
	})
	if err != nil {
		observability.HistoryWriteErrorsTotal.Inc()
		slog.Warn("failed to record run", "path", out.SourcePath, "error", err)
		return
	}
	out.RunID = saved.ID
}
