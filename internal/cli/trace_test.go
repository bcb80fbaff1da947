package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/amdtrace/amdtrace/pkg/pipeline"
)

func writeAppTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"app/main.js": `define(["app/cart", "lib/dom"], function(cart, dom) {});`,
		"app/cart.js": `define(["lib/dom"], function(dom) { return {}; });`,
		"lib/dom.js":  `define([], function() { return {}; });`,
	}
	for name, src := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(src), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestRunTraceWritesArtifacts(t *testing.T) {
	baseDir := writeAppTree(t)
	outBase := filepath.Join(t.TempDir(), "graph")

	c := testCLI()
	opts := pipeline.Options{
		Entry:   "app/main",
		BaseDir: baseDir,
		Formats: []string{"json", "dot"},
	}
	if err := c.runTrace(context.Background(), opts, outBase, true); err != nil {
		t.Fatalf("runTrace() error = %v", err)
	}

	for _, ext := range []string{".json", ".dot"} {
		if _, err := os.Stat(outBase + ext); err != nil {
			t.Errorf("missing artifact %s: %v", outBase+ext, err)
		}
	}
}

func TestRunTraceSingleFormatOutput(t *testing.T) {
	baseDir := writeAppTree(t)
	out := filepath.Join(t.TempDir(), "deps.json")

	c := testCLI()
	opts := pipeline.Options{
		Entry:   "app/main",
		BaseDir: baseDir,
		Formats: []string{"json"},
	}
	if err := c.runTrace(context.Background(), opts, out, true); err != nil {
		t.Fatalf("runTrace() error = %v", err)
	}

	if _, err := os.Stat(out); err != nil {
		t.Errorf("explicit output path not honored: %v", err)
	}
}

func TestRunTraceMissingEntry(t *testing.T) {
	baseDir := writeAppTree(t)

	c := testCLI()
	opts := pipeline.Options{
		Entry:   "app/missing",
		BaseDir: baseDir,
		Formats: []string{"json"},
	}
	if err := c.runTrace(context.Background(), opts, filepath.Join(t.TempDir(), "graph"), true); err == nil {
		t.Fatal("tracing a missing entry should error")
	}
}
