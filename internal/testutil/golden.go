package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// UpdateGoldenEnv names the variable that rewrites golden files instead of
// comparing against them.
const UpdateGoldenEnv = "GOLDEN_UPDATE"

// Golden compares got against testdata/<name>.golden.
func Golden(t *testing.T, name string, got []byte) {
	t.Helper()

	path := filepath.Join("testdata", name+".golden")

	if os.Getenv(UpdateGoldenEnv) != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create testdata dir: %v", err)
		}
		if err := os.WriteFile(path, got, 0644); err != nil {
			t.Fatalf("failed to update golden file: %v", err)
		}
		return
	}

	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read golden file %s: %v\nGot:\n%s", path, err, got)
	}

	if !bytes.Equal(got, want) {
		line, w, g := firstDiff(string(want), string(got))
		t.Errorf("output mismatch for %s at line %d\nwant: %q\ngot:  %q\nFull output:\n%s", name, line, w, g, got)
	}
}

// GoldenString is like Golden but takes a string.
func GoldenString(t *testing.T, name string, got string) {
	t.Helper()
	Golden(t, name, []byte(got))
}

// firstDiff returns the 1-based number of the first differing line and both versions of it.
func firstDiff(want, got string) (int, string, string) {
	wl := strings.Split(want, "\n")
	gl := strings.Split(got, "\n")
	for i := 0; i < len(wl) || i < len(gl); i++ {
		var w, g string
		if i < len(wl) {
			w = wl[i]
		}
		if i < len(gl) {
			g = gl[i]
		}
		if w != g || i >= len(wl) || i >= len(gl) {
			return i + 1, w, g
		}
	}
	return 0, "", ""
}
