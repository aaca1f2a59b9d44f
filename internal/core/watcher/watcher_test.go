package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cminify/internal/shared/util"
)

var sourceOptions = Options{
	Debounce:     100 * time.Millisecond,
	Extensions:   []string{".cpp", ".h"},
	ExcludeDirs:  []string{"build*"},
	ExcludeFiles: []string{"*-mini.cpp"},
}

func TestNewWatcher_RejectsNilCallback(t *testing.T) {
	w, err := NewWatcher(sourceOptions, nil)
	if err == nil {
		t.Fatal("expected error for nil callback")
	}
	if !errors.Is(err, os.ErrInvalid) {
		t.Fatalf("expected os.ErrInvalid, got %v", err)
	}
	if w != nil {
		t.Fatal("expected nil watcher when callback is invalid")
	}
}

func TestNewWatcher_RejectsBadGlob(t *testing.T) {
	opts := sourceOptions
	opts.ExcludeFiles = []string{"["}
	if _, err := NewWatcher(opts, func([]string) {}); err == nil {
		t.Fatal("expected glob compile error")
	}
}

func TestWatcher(t *testing.T) {
	tmpDir := t.TempDir()

	changedFiles := make(chan []string, 4)
	w, err := NewWatcher(sourceOptions, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	testFile := filepath.Join(tmpDir, "main.cpp")
	if err := os.WriteFile(testFile, []byte("int main(){}"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case paths := <-changedFiles:
		found := false
		for _, p := range paths {
			if p == testFile {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected to find %s in changed files %v", testFile, paths)
		}
	case <-time.After(2 * time.Second):
		t.Error("Timed out waiting for file change event")
	}

	// Minified output and unrelated files must not retrigger.
	for _, name := range []string{"pytteliten-mini.cpp", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case paths := <-changedFiles:
		t.Errorf("excluded files triggered event: %v", paths)
	case <-time.After(500 * time.Millisecond):
	}

	// New directory should be recursively watched after create.
	subdir := filepath.Join(tmpDir, "include")
	if err := os.MkdirAll(subdir, 0o755); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)
	subFile := filepath.Join(subdir, "board.h")
	if err := os.WriteFile(subFile, []byte("struct Board{};"), 0o644); err != nil {
		t.Fatal(err)
	}

	foundNested := false
	timeout := time.After(2 * time.Second)
	for !foundNested {
		select {
		case paths := <-changedFiles:
			for _, p := range paths {
				if p == subFile {
					foundNested = true
					break
				}
			}
		case <-timeout:
			t.Fatal("timed out waiting for nested file event in newly created directory")
		}
	}
}

func TestWatcher_RenameTriggersChange(t *testing.T) {
	tmpDir := t.TempDir()

	changedFiles := make(chan []string, 8)
	w, err := NewWatcher(sourceOptions, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	oldPath := filepath.Join(tmpDir, "old.cpp")
	newPath := filepath.Join(tmpDir, "new.cpp")
	if err := os.WriteFile(oldPath, []byte("int main(){}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(oldPath, newPath); err != nil {
		t.Fatal(err)
	}

	timeout := time.After(2 * time.Second)
	for {
		select {
		case paths := <-changedFiles:
			for _, p := range paths {
				if p == oldPath || p == newPath {
					return
				}
			}
		case <-timeout:
			t.Fatalf("timed out waiting for rename event, old=%s new=%s", oldPath, newPath)
		}
	}
}

func TestWatcher_Filters(t *testing.T) {
	w, err := NewWatcher(sourceOptions, func([]string) {})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	cases := []struct {
		path     string
		excluded bool
	}{
		{"main.cpp", false},
		{"MAIN.CPP", false},
		{"board.h", false},
		{"main.py", true},
		{"pytteliten-mini.cpp", true},
		{"Makefile", true},
	}
	for _, tc := range cases {
		if got := w.shouldExcludeFile(tc.path); got != tc.excluded {
			t.Errorf("shouldExcludeFile(%q) = %v, want %v", tc.path, got, tc.excluded)
		}
	}

	if !w.shouldExcludeDir("/tmp/x/build-debug") {
		t.Error("expected build-debug to be excluded")
	}
	if w.shouldExcludeDir("/tmp/x/src") {
		t.Error("expected src to be watched")
	}
}

func TestWatcher_LimiterThrottlesCallbacks(t *testing.T) {
	opts := sourceOptions
	opts.Debounce = 10 * time.Millisecond
	// One run per second with no burst beyond the first.
	opts.Limiter = util.NewLimiter(1, 1)

	calls := make(chan time.Time, 4)
	w, err := NewWatcher(opts, func([]string) {
		calls <- time.Now()
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	w.scheduleChange("a.cpp")
	first := <-calls
	w.scheduleChange("b.cpp")

	select {
	case second := <-calls:
		if second.Sub(first) < 500*time.Millisecond {
			t.Fatalf("expected throttled callback, got gap %v", second.Sub(first))
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for throttled callback")
	}
}
