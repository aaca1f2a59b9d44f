package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	MinifyDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cminify_run_seconds",
		Help:    "Time spent minifying one source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"result"})

	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cminify_runs_total",
		Help: "Total number of minify runs by result (ok, cached, error).",
	}, []string{"result"})

	SourceBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cminify_source_bytes",
		Help: "Size of the most recently minified source.",
	})

	MinifiedBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cminify_minified_bytes",
		Help: "Size of the most recent minified output.",
	})

	RenamedSymbols = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cminify_renamed_symbols",
		Help: "Number of distinct names renamed in the most recent run.",
	})

	FormatFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cminify_format_failures_total",
		Help: "Total number of IR formatter invocations that failed or found no binary.",
	})

	CacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cminify_cache_hits_total",
		Help: "Total number of runs served from the result cache.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cminify_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	HistoryWriteErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cminify_history_write_errors_total",
		Help: "Total number of run records that could not be persisted.",
	})
)
