package store

import (
	"testing"

	"github.com/google/uuid"

	"github.com/amdtrace/amdtrace/pkg/graph"
)

func testGraph() graph.Graph {
	return graph.Graph{
		Nodes: []graph.Node{
			{ID: "app/main"},
			{ID: "lib/util"},
			{ID: "text!app/header.html", Plugin: "text", Resource: "app/header.html"},
		},
		Edges: []graph.Edge{
			{From: "app/main", To: "lib/util"},
			{From: "app/main", To: "text!app/header.html"},
		},
	}
}

func TestNewRun(t *testing.T) {
	g := testGraph()
	run := NewRun("app/main", "abc123", "/src/js", g)

	if _, err := uuid.Parse(run.ID); err != nil {
		t.Errorf("ID = %q, want a valid UUID: %v", run.ID, err)
	}
	if run.Entry != "app/main" {
		t.Errorf("Entry = %q, want %q", run.Entry, "app/main")
	}
	if run.ConfigHash != "abc123" {
		t.Errorf("ConfigHash = %q, want %q", run.ConfigHash, "abc123")
	}
	if run.BaseDir != "/src/js" {
		t.Errorf("BaseDir = %q, want %q", run.BaseDir, "/src/js")
	}
	if run.Nodes != 3 {
		t.Errorf("Nodes = %d, want 3", run.Nodes)
	}
	if run.Edges != 2 {
		t.Errorf("Edges = %d, want 2", run.Edges)
	}
	if run.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestNewRunUniqueIDs(t *testing.T) {
	g := testGraph()
	a := NewRun("app/main", "h", "", g)
	b := NewRun("app/main", "h", "", g)
	if a.ID == b.ID {
		t.Errorf("two runs got the same ID %q", a.ID)
	}
}

func TestShortID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want string
	}{
		{"UUID", "11c9ab14-7d04-432f-bf1a-2ab153de2d7c", "11c9ab14"},
		{"Short", "abc", "abc"},
		{"Empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Run{ID: tt.id}
			if got := r.ShortID(); got != tt.want {
				t.Errorf("ShortID() = %q, want %q", got, tt.want)
			}
		})
	}
}
