package config

import (
	"fmt"
	"net"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	domainerrors "cminify/internal/core/errors"
	"cminify/internal/engine/dialect"
)

// Validate checks cfg after defaults were applied.
func Validate(cfg *Config) error {
	validators := []func(*Config) error{
		validateVersion,
		validatePaths,
		validateFormat,
		validateDialect,
		validateWatch,
		validateObservability,
	}
	for _, v := range validators {
		if err := v(cfg); err != nil {
			return domainerrors.Wrap(err, domainerrors.CodeValidationError, "invalid config")
		}
	}
	return nil
}

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validatePaths(cfg *Config) error {
	for key, value := range map[string]string{
		"input.path":      cfg.Input.Path,
		"output.minified": cfg.Output.Minified,
		"output.ir":       cfg.Output.IR,
	} {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s must not be empty", key)
		}
	}
	input := filepath.Clean(cfg.Input.Path)
	if input == filepath.Clean(cfg.Output.Minified) {
		return fmt.Errorf("output.minified must differ from input.path %q", cfg.Input.Path)
	}
	if input == filepath.Clean(cfg.Output.IR) {
		return fmt.Errorf("output.ir must differ from input.path %q", cfg.Input.Path)
	}
	if filepath.Clean(cfg.Output.Minified) == filepath.Clean(cfg.Output.IR) {
		return fmt.Errorf("output.minified and output.ir must differ")
	}
	return nil
}

func validateFormat(cfg *Config) error {
	for i, bin := range cfg.Format.Binaries {
		if strings.TrimSpace(bin) == "" {
			return fmt.Errorf("format.binaries[%d] must not be empty", i)
		}
	}
	return nil
}

func validateDialect(cfg *Config) error {
	if !dialect.IsName(cfg.Dialect.EntryPoint) {
		return fmt.Errorf("dialect.entry_point %q is not an identifier", cfg.Dialect.EntryPoint)
	}
	if !dialect.IsName(cfg.Dialect.GuardMacro) {
		return fmt.Errorf("dialect.guard_macro %q is not an identifier", cfg.Dialect.GuardMacro)
	}
	for _, list := range []struct {
		key   string
		names []string
	}{
		{"dialect.extra_types", cfg.Dialect.ExtraTypes},
		{"dialect.extra_reserved", cfg.Dialect.ExtraReserved},
	} {
		for i, name := range list.names {
			if !dialect.IsName(name) {
				return fmt.Errorf("%s[%d] %q is not an identifier", list.key, i, name)
			}
		}
	}
	return nil
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	for i, ext := range cfg.Watch.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("watch.extensions[%d] %q must start with '.'", i, ext)
		}
	}
	for i, pattern := range cfg.Watch.ExcludeFiles {
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("watch.exclude_files[%d] %q: %w", i, pattern, err)
		}
	}
	return nil
}

func validateObservability(cfg *Config) error {
	if !cfg.Observability.Enabled {
		return nil
	}
	if _, _, err := net.SplitHostPort(cfg.Observability.Address); err != nil {
		return fmt.Errorf("observability.address %q: %w", cfg.Observability.Address, err)
	}
	return nil
}
