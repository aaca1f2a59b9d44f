package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileWithDirs(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), "nested", "dir", "out.cpp")
	if err := WriteStringWithDirs(target, "int main(){}", 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(data) != "int main(){}" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestSamePath(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		a, b     string
		expected bool
	}{
		{name: "Exact", a: "main.cpp", b: "main.cpp", expected: true},
		{name: "DotPrefix", a: "./main.cpp", b: "main.cpp", expected: true},
		{name: "Parent", a: "src/../main.cpp", b: "main.cpp", expected: true},
		{name: "Different", a: "main.cpp", b: "plir.cpp", expected: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := SamePath(tc.a, tc.b); got != tc.expected {
				t.Fatalf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestContentKey(t *testing.T) {
	t.Parallel()

	a := ContentKey([]byte("int x;"))
	if a != ContentKey([]byte("int x;")) {
		t.Fatal("expected stable key for equal content")
	}
	if a == ContentKey([]byte("int y;")) {
		t.Fatal("expected different keys for different content")
	}
	if len(a) != 64 {
		t.Fatalf("expected hex sha256, got %d chars", len(a))
	}
}
