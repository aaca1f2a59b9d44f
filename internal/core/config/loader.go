package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	domainerrors "cminify/internal/core/errors"
)

// Load reads the TOML file at path, applies defaults and validates.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		code := domainerrors.CodeIO
		if os.IsNotExist(err) {
			code = domainerrors.CodeNotFound
		}
		return nil, domainerrors.AddContext(domainerrors.Wrap(err, code, "read config"), domainerrors.CtxPath, path)
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, domainerrors.AddContext(domainerrors.Wrap(err, domainerrors.CodeValidationError, "decode config"), domainerrors.CtxPath, path)
	}

	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault behaves like Load but returns Default when path is the
// default location and no file exists there.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	if filepath.Clean(path) == filepath.Clean(DefaultPath) && domainerrors.IsCode(err, domainerrors.CodeNotFound) {
		return Default(), nil
	}
	return nil, err
}

// LoadEnvFile overlays variables from a .env file onto the process
// environment. Variables that are already set win. A missing file is not an
// error.
func LoadEnvFile(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return domainerrors.AddContext(domainerrors.Wrap(err, domainerrors.CodeValidationError, "load env file"), domainerrors.CtxPath, p)
		}
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	if strings.TrimSpace(cfg.Input.Path) == "" {
		cfg.Input.Path = DefaultInput
	}
	if strings.TrimSpace(cfg.Output.Minified) == "" {
		cfg.Output.Minified = DefaultMinified
	}
	if strings.TrimSpace(cfg.Output.IR) == "" {
		cfg.Output.IR = DefaultIR
	}

	if len(cfg.Format.Binaries) == 0 {
		cfg.Format.Binaries = []string{"clang-format", "./clang-format"}
	}
	if cfg.Format.Args == nil {
		cfg.Format.Args = []string{"--style=file"}
	}
	if cfg.Format.Timeout <= 0 {
		cfg.Format.Timeout = 10 * time.Second
	}

	if strings.TrimSpace(cfg.Dialect.EntryPoint) == "" {
		cfg.Dialect.EntryPoint = "main"
	}
	if strings.TrimSpace(cfg.Dialect.GuardMacro) == "" {
		cfg.Dialect.GuardMacro = "MINIFIED"
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 300 * time.Millisecond
	}
	if len(cfg.Watch.Extensions) == 0 {
		cfg.Watch.Extensions = []string{".c", ".cc", ".cpp", ".h", ".hpp"}
	}
	if cfg.Watch.ExcludeDirs == nil {
		cfg.Watch.ExcludeDirs = []string{".git"}
	}
	if cfg.Watch.ExcludeFiles == nil {
		// Outputs live next to the input; watching them would loop.
		cfg.Watch.ExcludeFiles = []string{filepath.Base(cfg.Output.Minified), filepath.Base(cfg.Output.IR)}
	}
	if cfg.Watch.MaxRunsPerSecond <= 0 {
		cfg.Watch.MaxRunsPerSecond = 2
	}

	if cfg.Cache.Entries <= 0 {
		cfg.Cache.Entries = 64
	}

	if strings.TrimSpace(cfg.History.Path) == "" {
		cfg.History.Path = DefaultHistoryDB
	}

	if strings.TrimSpace(cfg.Observability.Address) == "" {
		cfg.Observability.Address = DefaultObsAddress
	}
}
