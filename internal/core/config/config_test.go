package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "cminify/internal/core/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cminify.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
version = 1

[input]
path = "src/golf.cpp"

[output]
minified = "out/golf.min.cpp"
ir = "out/golf.ir.cpp"

[format]
enabled = false
timeout = "2s"

[dialect]
entry_point = "start"
extra_types = ["Board"]
extra_reserved = ["emit"]

[watch]
debounce = "1s"
exclude_files = ["*.min.cpp"]

[cache]
entries = 8

[history]
enabled = true
path = "state/runs.db"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "src/golf.cpp", cfg.Input.Path)
	assert.Equal(t, "out/golf.min.cpp", cfg.Output.Minified)
	assert.Equal(t, "out/golf.ir.cpp", cfg.Output.IR)
	assert.False(t, cfg.Format.IsEnabled())
	assert.Equal(t, 2*time.Second, cfg.Format.Timeout)
	assert.Equal(t, []string{"clang-format", "./clang-format"}, cfg.Format.Binaries)
	assert.Equal(t, "start", cfg.Dialect.EntryPoint)
	assert.Equal(t, "MINIFIED", cfg.Dialect.GuardMacro)
	assert.Equal(t, time.Second, cfg.Watch.Debounce)
	assert.Equal(t, []string{"*.min.cpp"}, cfg.Watch.ExcludeFiles)
	assert.Equal(t, 8, cfg.Cache.Entries)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, "state/runs.db", cfg.History.Path)

	opts := cfg.DialectOptions()
	assert.Equal(t, "start", opts.EntryPoint)
	assert.Equal(t, []string{"Board"}, opts.ExtraTypes)
	assert.Equal(t, []string{"emit"}, opts.ExtraReserved)
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, DefaultInput, cfg.Input.Path)
	assert.Equal(t, DefaultMinified, cfg.Output.Minified)
	assert.Equal(t, DefaultIR, cfg.Output.IR)
	assert.True(t, cfg.Format.IsEnabled())
	assert.Equal(t, []string{"--style=file"}, cfg.Format.Args)
	assert.Equal(t, 10*time.Second, cfg.Format.Timeout)
	assert.Equal(t, 300*time.Millisecond, cfg.Watch.Debounce)
	assert.Equal(t, []string{DefaultMinified, DefaultIR}, cfg.Watch.ExcludeFiles)
	assert.Equal(t, 64, cfg.Cache.Entries)
	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, DefaultObsAddress, cfg.Observability.Address)
	assert.NoError(t, Validate(cfg))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	assert.True(t, domainerrors.IsCode(err, domainerrors.CodeNotFound))
}

func TestLoadOrDefault(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := LoadOrDefault(DefaultPath)
	require.NoError(t, err)
	assert.Equal(t, DefaultInput, cfg.Input.Path)

	_, err = LoadOrDefault("custom.toml")
	assert.True(t, domainerrors.IsCode(err, domainerrors.CodeNotFound))
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad toml", "version = ["},
		{"version", "version = 3"},
		{"output overwrites input", "[input]\npath = \"a.cpp\"\n[output]\nminified = \"./a.cpp\""},
		{"outputs collide", "[output]\nminified = \"x.cpp\"\nir = \"x.cpp\""},
		{"entry point", "[dialect]\nentry_point = \"1main\""},
		{"extra type", "[dialect]\nextra_types = [\"ok\", \"not-ok\"]"},
		{"extension", "[watch]\nextensions = [\"cpp\"]"},
		{"glob", "[watch]\nexclude_files = [\"[\"]"},
		{"address", "[observability]\nenabled = true\naddress = \"nowhere\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.True(t, domainerrors.IsCode(err, domainerrors.CodeValidationError), err.Error())
		})
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("CMINIFY_INPUT_PATH", "env.cpp")
	t.Setenv("CMINIFY_FORMAT_ENABLED", "false")
	t.Setenv("CMINIFY_DIALECT_EXTRA_TYPES", "Vec, Grid ,")
	t.Setenv("CMINIFY_WATCH_DEBOUNCE", "50ms")
	t.Setenv("CMINIFY_CACHE_ENTRIES", "not-a-number")
	t.Setenv("CMINIFY_HISTORY_ENABLED", "TRUE")
	t.Setenv("CMINIFY_OBSERVABILITY_OTLP_ENDPOINT", "collector:4317")

	cfg := Default()
	ApplyEnvOverrides(cfg)

	assert.Equal(t, "env.cpp", cfg.Input.Path)
	assert.False(t, cfg.Format.IsEnabled())
	assert.Equal(t, []string{"Vec", "Grid"}, cfg.Dialect.ExtraTypes)
	assert.Equal(t, 50*time.Millisecond, cfg.Watch.Debounce)
	assert.Equal(t, 64, cfg.Cache.Entries, "unparsable values are ignored")
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, "collector:4317", cfg.Observability.OTLPEndpoint)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CMINIFY_OUTPUT_IR=from-dotenv.cpp\n"), 0o644))
	t.Setenv("CMINIFY_OUTPUT_IR", "")
	require.NoError(t, os.Unsetenv("CMINIFY_OUTPUT_IR"))

	require.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "missing.env"), path))

	cfg := Default()
	ApplyEnvOverrides(cfg)
	assert.Equal(t, "from-dotenv.cpp", cfg.Output.IR)
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (testing.T.Chdir requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
