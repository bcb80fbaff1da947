package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestClearRoot(t *testing.T) {
	tests := []struct {
		name          string
		tracesOnly    bool
		artifactsOnly bool
		want          string
	}{
		{"default clears everything", false, false, "cache"},
		{"traces only", true, false, filepath.Join("cache", "trace")},
		{"artifacts only", false, true, filepath.Join("cache", "artifact")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clearRoot("cache", tt.tracesOnly, tt.artifactsOnly); got != tt.want {
				t.Errorf("clearRoot() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRemoveCacheEntries(t *testing.T) {
	dir := t.TempDir()
	for _, p := range []string{
		filepath.Join(dir, "trace", "ab", "x.json"),
		filepath.Join(dir, "trace", "cd", "y.json"),
		filepath.Join(dir, "artifact", "ef", "z.json"),
	} {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	count, err := removeCacheEntries(filepath.Join(dir, "trace"))
	if err != nil {
		t.Fatalf("removeCacheEntries() error: %v", err)
	}
	if count != 2 {
		t.Errorf("removed %d entries, want 2", count)
	}

	if _, err := os.Stat(filepath.Join(dir, "trace", "ab")); !os.IsNotExist(err) {
		t.Error("emptied shard directory should be pruned")
	}
	if _, err := os.Stat(filepath.Join(dir, "artifact", "ef", "z.json")); err != nil {
		t.Error("artifact layer should be untouched")
	}
}

func TestRemoveCacheEntriesMissingRoot(t *testing.T) {
	count, err := removeCacheEntries(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("removeCacheEntries() error: %v", err)
	}
	if count != 0 {
		t.Errorf("removed %d entries, want 0", count)
	}
}
