package config

import (
	"time"

	"cminify/internal/engine/dialect"
)

const (
	DefaultPath       = "./cminify.toml"
	DefaultInput      = "main.cpp"
	DefaultMinified   = "pytteliten-mini.cpp"
	DefaultIR         = "plir.cpp"
	DefaultHistoryDB  = "data/history.db"
	DefaultObsAddress = "127.0.0.1:9464"
)

type Config struct {
	Version       int           `toml:"version"`
	Input         Input         `toml:"input"`
	Output        Output        `toml:"output"`
	Format        Format        `toml:"format"`
	Dialect       Dialect       `toml:"dialect"`
	Watch         Watch         `toml:"watch"`
	Cache         Cache         `toml:"cache"`
	History       History       `toml:"history"`
	Observability Observability `toml:"observability"`
}

type Input struct {
	Path string `toml:"path"`
}

type Output struct {
	Minified string `toml:"minified"`
	IR       string `toml:"ir"`
}

// Format configures the external pretty-printer run over the IR.
type Format struct {
	Enabled  *bool         `toml:"enabled"`
	Binaries []string      `toml:"binaries"`
	Args     []string      `toml:"args"`
	Timeout  time.Duration `toml:"timeout"`
}

type Dialect struct {
	EntryPoint    string   `toml:"entry_point"`
	GuardMacro    string   `toml:"guard_macro"`
	ExtraTypes    []string `toml:"extra_types"`
	ExtraReserved []string `toml:"extra_reserved"`
}

type Watch struct {
	Debounce         time.Duration `toml:"debounce"`
	Extensions       []string      `toml:"extensions"`
	ExcludeDirs      []string      `toml:"exclude_dirs"`
	ExcludeFiles     []string      `toml:"exclude_files"`
	MaxRunsPerSecond float64       `toml:"max_runs_per_second"`
}

type Cache struct {
	Entries int `toml:"entries"`
}

type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type Observability struct {
	Enabled       bool   `toml:"enabled"`
	Address       string `toml:"address"`
	EnableTracing bool   `toml:"enable_tracing"`
	OTLPEndpoint  string `toml:"otlp_endpoint"`
}

func (f Format) IsEnabled() bool {
	if f.Enabled == nil {
		return true
	}
	return *f.Enabled
}

// DialectOptions converts the dialect section for dialect.New.
func (c *Config) DialectOptions() dialect.Options {
	return dialect.Options{
		EntryPoint:    c.Dialect.EntryPoint,
		GuardMacro:    c.Dialect.GuardMacro,
		ExtraTypes:    append([]string(nil), c.Dialect.ExtraTypes...),
		ExtraReserved: append([]string(nil), c.Dialect.ExtraReserved...),
	}
}

// Default returns a validated configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}
