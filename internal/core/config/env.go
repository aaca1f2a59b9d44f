package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: CMINIFY_[SECTION]_[KEY] (e.g., CMINIFY_OUTPUT_MINIFIED).
func ApplyEnvOverrides(cfg *Config) {
	// Input / output
	setEnvString(&cfg.Input.Path, "CMINIFY_INPUT_PATH")
	setEnvString(&cfg.Output.Minified, "CMINIFY_OUTPUT_MINIFIED")
	setEnvString(&cfg.Output.IR, "CMINIFY_OUTPUT_IR")

	// Format
	setEnvBoolPtr(&cfg.Format.Enabled, "CMINIFY_FORMAT_ENABLED")
	setEnvList(&cfg.Format.Binaries, "CMINIFY_FORMAT_BINARIES")
	setEnvDuration(&cfg.Format.Timeout, "CMINIFY_FORMAT_TIMEOUT")

	// Dialect
	setEnvString(&cfg.Dialect.EntryPoint, "CMINIFY_DIALECT_ENTRY_POINT")
	setEnvString(&cfg.Dialect.GuardMacro, "CMINIFY_DIALECT_GUARD_MACRO")
	setEnvList(&cfg.Dialect.ExtraTypes, "CMINIFY_DIALECT_EXTRA_TYPES")
	setEnvList(&cfg.Dialect.ExtraReserved, "CMINIFY_DIALECT_EXTRA_RESERVED")

	// Watch
	setEnvDuration(&cfg.Watch.Debounce, "CMINIFY_WATCH_DEBOUNCE")
	setEnvFloat64(&cfg.Watch.MaxRunsPerSecond, "CMINIFY_WATCH_MAX_RUNS_PER_SECOND")

	// Cache
	setEnvInt(&cfg.Cache.Entries, "CMINIFY_CACHE_ENTRIES")

	// History
	setEnvBool(&cfg.History.Enabled, "CMINIFY_HISTORY_ENABLED")
	setEnvString(&cfg.History.Path, "CMINIFY_HISTORY_PATH")

	// Observability
	setEnvBool(&cfg.Observability.Enabled, "CMINIFY_OBSERVABILITY_ENABLED")
	setEnvString(&cfg.Observability.Address, "CMINIFY_OBSERVABILITY_ADDRESS")
	setEnvBool(&cfg.Observability.EnableTracing, "CMINIFY_OBSERVABILITY_ENABLE_TRACING")
	setEnvString(&cfg.Observability.OTLPEndpoint, "CMINIFY_OBSERVABILITY_OTLP_ENDPOINT")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

// setEnvList splits a comma separated value.
func setEnvList(target *[]string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		var items []string
		for _, item := range strings.Split(val, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		slog.Debug("applying env override", "key", key, "value", val)
		*target = items
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = b
		}
	}
}

func setEnvBoolPtr(target **bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = &b
		}
	}
}

func setEnvFloat64(target *float64, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = f
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		}
	}
}
