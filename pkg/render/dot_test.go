package render

import (
	"strings"
	"testing"

	"github.com/amdtrace/amdtrace/pkg/dag"
)

func TestToDOT_Basic(t *testing.T) {
	g := dag.New(nil)
	g.AddNode(dag.Node{ID: "app/main"})
	g.AddNode(dag.Node{ID: "app/util"})
	g.AddEdge(dag.Edge{From: "app/main", To: "app/util"})

	dot := ToDOT(g, Options{})

	if !strings.Contains(dot, "digraph G") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	if !strings.Contains(dot, `"app/main"`) {
		t.Error("ToDOT() output missing node app/main")
	}
	if !strings.Contains(dot, `"app/util"`) {
		t.Error("ToDOT() output missing node app/util")
	}
	if !strings.Contains(dot, `"app/main" -> "app/util"`) {
		t.Error("ToDOT() output missing edge")
	}
}

func TestToDOT_DuplicateEdges(t *testing.T) {
	g := dag.New(nil)
	g.AddNode(dag.Node{ID: "a"})
	g.AddNode(dag.Node{ID: "b"})
	g.AddEdge(dag.Edge{From: "a", To: "b"})
	g.AddEdge(dag.Edge{From: "a", To: "b"})

	dot := ToDOT(g, Options{})

	if got := strings.Count(dot, `"a" -> "b"`); got != 2 {
		t.Errorf("ToDOT() edge count = %d, want 2", got)
	}
}

func TestToDOT_Detailed(t *testing.T) {
	g := dag.New(nil)
	g.AddNode(dag.Node{
		ID:   "app/main",
		Meta: dag.Metadata{"path": "scripts/app/main.js"},
	})

	dot := ToDOT(g, Options{Detailed: true})

	if !strings.Contains(dot, "path: scripts/app/main.js") {
		t.Error("ToDOT() detailed output missing metadata")
	}
}

func TestToDOT_PluginResource(t *testing.T) {
	g := dag.New(nil)
	g.AddNode(dag.Node{
		ID:   "text!app/header.html",
		Meta: dag.Metadata{"plugin": "text", "resource": "app/header.html"},
	})

	dot := ToDOT(g, Options{})

	if !strings.Contains(dot, "dashed") {
		t.Error("ToDOT() plugin resource missing dashed style")
	}
	if !strings.Contains(dot, "lightgrey") {
		t.Error("ToDOT() plugin resource missing lightgrey fill")
	}
}

func TestFmtLabel_Simple(t *testing.T) {
	n := dag.Node{ID: "app/main", Meta: dag.Metadata{"path": "x.js"}}
	label := fmtLabel(n, false)

	if label != "app/main" {
		t.Errorf("fmtLabel() simple mode = %q, want %q", label, "app/main")
	}
}

func TestFmtLabel_Detailed(t *testing.T) {
	n := dag.Node{
		ID:   "text!app/header.html",
		Meta: dag.Metadata{"plugin": "text", "resource": "app/header.html"},
	}
	label := fmtLabel(n, true)

	if !strings.HasPrefix(label, "text!app/header.html\n") {
		t.Errorf("fmtLabel() detailed should start with id: %q", label)
	}
	if !strings.Contains(label, "plugin: text") {
		t.Errorf("fmtLabel() detailed missing plugin: %q", label)
	}
	if !strings.Contains(label, "resource: app/header.html") {
		t.Errorf("fmtLabel() detailed missing resource: %q", label)
	}
}

func TestFmtLabel_DetailedNoMeta(t *testing.T) {
	n := dag.Node{ID: "app/util"}
	if got := fmtLabel(n, true); got != "app/util" {
		t.Errorf("fmtLabel() = %q, want bare id when no metadata", got)
	}
}

func TestFmtAttrs_Regular(t *testing.T) {
	n := dag.Node{ID: "app/util"}
	attrs := fmtAttrs(n, "test-label")

	if len(attrs) != 1 {
		t.Errorf("fmtAttrs() regular node should have 1 attr, got %d", len(attrs))
	}
	if !strings.Contains(attrs[0], "label=") {
		t.Errorf("fmtAttrs() regular node missing label attr: %v", attrs)
	}
}

func TestFmtAttrs_PluginResource(t *testing.T) {
	n := dag.Node{ID: "css!theme", Meta: dag.Metadata{"plugin": "css", "resource": "theme"}}
	attrs := fmtAttrs(n, "css!theme")

	if len(attrs) != 4 {
		t.Errorf("fmtAttrs() plugin resource should have 4 attrs, got %d: %v", len(attrs), attrs)
	}

	joined := strings.Join(attrs, " ")
	if !strings.Contains(joined, "dashed") {
		t.Error("fmtAttrs() plugin resource missing dashed style")
	}
	if !strings.Contains(joined, "lightgrey") {
		t.Error("fmtAttrs() plugin resource missing lightgrey fill")
	}
}
