package cliapp

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreapp "cminify/internal/core/app"
	"cminify/internal/core/config"
	"cminify/internal/data/history"
)

const noFormatConfig = `
[format]
enabled = false
`

func setupWorkspace(t *testing.T, source string) string {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile("main.cpp", []byte(source), 0o644))
	require.NoError(t, os.WriteFile("cminify.toml", []byte(noFormatConfig), 0o644))
	return dir
}

func runCLI(t *testing.T, ctx context.Context, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(ctx, args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestParseOptions(t *testing.T) {
	opts, err := parseOptions([]string{"-o", "out.cpp", "-ir", "ir.cpp", "-verbose", "-history", "3", "golf.cpp"}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, "./cminify.toml", opts.configPath)
	assert.Equal(t, "out.cpp", opts.output)
	assert.Equal(t, "ir.cpp", opts.ir)
	assert.True(t, opts.verbose)
	assert.Equal(t, 3, opts.history)
	assert.Equal(t, []string{"golf.cpp"}, opts.args)
}

func TestRunVersion(t *testing.T) {
	code, stdout, _ := runCLI(t, context.Background(), "-version")
	assert.Equal(t, 0, code)
	assert.Equal(t, "cminify v1.0.0\n", stdout)
}

func TestRunBadFlag(t *testing.T) {
	code, _, stderr := runCLI(t, context.Background(), "-nope")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "-nope")
}

func TestRunDefaults(t *testing.T) {
	setupWorkspace(t, "struct S { int x; int f(int y) { int z = y + x; return z; } };")

	code, stdout, stderr := runCLI(t, context.Background())
	require.Equal(t, 0, code, stderr)

	mini, err := os.ReadFile(config.DefaultMinified)
	require.NoError(t, err)
	assert.Equal(t, "struct D{int A;int E(int B){int C=B+A;return C;}};", string(mini))

	ir, err := os.ReadFile(config.DefaultIR)
	require.NoError(t, err)
	assert.Equal(t, "struct struct1{int field0;int func0(int arg0){int var0=arg0+field0;return var0;}};", string(ir))

	assert.Contains(t, stdout, "minified")
	assert.Contains(t, stdout, "main.cpp")
}

func TestRunFlagsOverridePaths(t *testing.T) {
	setupWorkspace(t, "")
	require.NoError(t, os.WriteFile("golf.cpp", []byte("int main() { int counter = 0; return counter; }"), 0o644))

	code, stdout, stderr := runCLI(t, context.Background(), "-verbose", "-o", "build/golf.min.cpp", "-ir", "build/golf.ir.cpp", "golf.cpp")
	require.Equal(t, 0, code, stderr)

	mini, err := os.ReadFile(filepath.Join("build", "golf.min.cpp"))
	require.NoError(t, err)
	assert.Equal(t, "int main(){int A=0;return A;}", string(mini))
	assert.FileExists(t, filepath.Join("build", "golf.ir.cpp"))
	assert.Contains(t, stdout, "Symbols")
	assert.Contains(t, stdout, "counter=2")
}

func TestRunMissingInput(t *testing.T) {
	setupWorkspace(t, "")
	require.NoError(t, os.Remove("main.cpp"))

	code, _, stderr := runCLI(t, context.Background())
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "NOT_FOUND")
}

func TestRunTooManyInputs(t *testing.T) {
	setupWorkspace(t, "")

	code, _, stderr := runCLI(t, context.Background(), "a.cpp", "b.cpp")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "VALIDATION_ERROR")
}

func TestRunMissingExplicitConfig(t *testing.T) {
	setupWorkspace(t, "int main(){}")

	code, _, stderr := runCLI(t, context.Background(), "-config", "custom.toml")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "NOT_FOUND")
}

func TestRunHistory(t *testing.T) {
	setupWorkspace(t, "int main() { return 0; }")
	t.Setenv("CMINIFY_HISTORY_ENABLED", "true")
	t.Setenv("CMINIFY_HISTORY_PATH", "state/history.db")

	for i := 0; i < 2; i++ {
		code, stdout, stderr := runCLI(t, context.Background())
		require.Equal(t, 0, code, stderr)
		assert.Contains(t, stdout, "run ")
	}

	code, stdout, stderr := runCLI(t, context.Background(), "-history", "5")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Recent runs")
	assert.Contains(t, stdout, "RATIO")
}

func TestRunWatchStopsOnCancel(t *testing.T) {
	setupWorkspace(t, "int main() { return 0; }")

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	code, stdout, stderr := runCLI(t, ctx, "-watch")
	assert.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "minified")
}

func TestRenderHistory(t *testing.T) {
	out := renderHistory("main.cpp", nil)
	assert.Contains(t, out, "no runs recorded")

	out = renderHistory("main.cpp", []history.Run{{
		SourcePath:     "main.cpp",
		Timestamp:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		SourceBytes:    200,
		MinifiedBytes:  50,
		RenamedSymbols: 7,
		Cached:         true,
	}})
	assert.Contains(t, out, "2026-03-01 12:00:00")
	assert.Contains(t, out, "25.0%")
	assert.Contains(t, out, "cached")
}

func TestObservabilityServerHandler(t *testing.T) {
	setupWorkspace(t, "int main() { return 0; }")
	cfg, err := config.LoadOrDefault(config.DefaultPath)
	require.NoError(t, err)
	app, err := coreapp.New(cfg)
	require.NoError(t, err)
	defer app.Close(context.Background())

	srv := httptest.NewServer(NewObservabilityServer("127.0.0.1:0", coreapp.NewHealthService(app)).handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var status coreapp.HealthStatus
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.Equal(t, "up", status.Status)

	metrics, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer metrics.Body.Close()
	assert.Equal(t, http.StatusOK, metrics.StatusCode)
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
