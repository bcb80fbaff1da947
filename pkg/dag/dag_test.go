package dag

import (
	"errors"
	"testing"
)

func TestAddNode(t *testing.T) {
	tests := []struct {
		name    string
		nodes   []Node
		wantErr error
	}{
		{
			name:  "Single",
			nodes: []Node{{ID: "app/main"}},
		},
		{
			name:  "Several",
			nodes: []Node{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		},
		{
			name:    "EmptyID",
			nodes:   []Node{{ID: ""}},
			wantErr: ErrInvalidNodeID,
		},
		{
			name:    "Duplicate",
			nodes:   []Node{{ID: "a"}, {ID: "a"}},
			wantErr: ErrDuplicateNodeID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(nil)
			var err error
			for _, n := range tt.nodes {
				err = g.AddNode(n)
				if err != nil {
					break
				}
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("AddNode error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddNodeInitializesMeta(t *testing.T) {
	g := New(nil)
	if err := g.AddNode(Node{ID: "a"}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	n, ok := g.Node("a")
	if !ok {
		t.Fatal("node a not found")
	}
	if n.Meta == nil {
		t.Error("Meta is nil, want empty map")
	}
}

func TestAddEdge(t *testing.T) {
	tests := []struct {
		name    string
		edge    Edge
		wantErr error
	}{
		{
			name: "Valid",
			edge: Edge{From: "a", To: "b"},
		},
		{
			name: "SelfLoop",
			edge: Edge{From: "a", To: "a"},
		},
		{
			name:    "UnknownSource",
			edge:    Edge{From: "missing", To: "b"},
			wantErr: ErrUnknownSourceNode,
		},
		{
			name:    "UnknownTarget",
			edge:    Edge{From: "a", To: "missing"},
			wantErr: ErrUnknownTargetNode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(nil)
			g.AddNode(Node{ID: "a"})
			g.AddNode(Node{ID: "b"})

			err := g.AddEdge(tt.edge)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("AddEdge error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDuplicateEdgesPreserved(t *testing.T) {
	g := New(nil)
	g.AddNode(Node{ID: "a"})
	g.AddNode(Node{ID: "b"})
	for range 3 {
		if err := g.AddEdge(Edge{From: "a", To: "b"}); err != nil {
			t.Fatalf("AddEdge: %v", err)
		}
	}

	if got := g.EdgeCount(); got != 3 {
		t.Errorf("EdgeCount = %d, want 3", got)
	}
	if got := g.OutDegree("a"); got != 3 {
		t.Errorf("OutDegree(a) = %d, want 3", got)
	}
	if got := g.InDegree("b"); got != 3 {
		t.Errorf("InDegree(b) = %d, want 3", got)
	}
	if got := len(g.Children("a")); got != 3 {
		t.Errorf("len(Children(a)) = %d, want 3", got)
	}
}

func TestNodesInsertionOrder(t *testing.T) {
	g := New(nil)
	ids := []string{"app/main", "lib/util", "app/view", "text!tmpl.html"}
	for _, id := range ids {
		if err := g.AddNode(Node{ID: id}); err != nil {
			t.Fatalf("AddNode(%q): %v", id, err)
		}
	}

	nodes := g.Nodes()
	if len(nodes) != len(ids) {
		t.Fatalf("len(Nodes) = %d, want %d", len(nodes), len(ids))
	}
	for i, n := range nodes {
		if n.ID != ids[i] {
			t.Errorf("Nodes[%d] = %q, want %q", i, n.ID, ids[i])
		}
	}
}

func TestChildrenRequestOrder(t *testing.T) {
	g := New(nil)
	g.AddNode(Node{ID: "main"})
	g.AddNode(Node{ID: "b"})
	g.AddNode(Node{ID: "a"})
	g.AddEdge(Edge{From: "main", To: "b"})
	g.AddEdge(Edge{From: "main", To: "a"})
	g.AddEdge(Edge{From: "main", To: "b"})

	want := []string{"b", "a", "b"}
	got := g.Children("main")
	if len(got) != len(want) {
		t.Fatalf("Children = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Children[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParents(t *testing.T) {
	g := New(nil)
	g.AddNode(Node{ID: "a"})
	g.AddNode(Node{ID: "b"})
	g.AddNode(Node{ID: "shared"})
	g.AddEdge(Edge{From: "a", To: "shared"})
	g.AddEdge(Edge{From: "b", To: "shared"})

	parents := g.Parents("shared")
	if len(parents) != 2 || parents[0] != "a" || parents[1] != "b" {
		t.Errorf("Parents(shared) = %v, want [a b]", parents)
	}
	if got := g.Parents("a"); got != nil {
		t.Errorf("Parents(a) = %v, want nil", got)
	}
	if got := g.Parents("missing"); got != nil {
		t.Errorf("Parents(missing) = %v, want nil", got)
	}
}

func TestSourcesAndSinks(t *testing.T) {
	g := New(nil)
	g.AddNode(Node{ID: "entry"})
	g.AddNode(Node{ID: "mid"})
	g.AddNode(Node{ID: "leaf1"})
	g.AddNode(Node{ID: "leaf2"})
	g.AddEdge(Edge{From: "entry", To: "mid"})
	g.AddEdge(Edge{From: "mid", To: "leaf1"})
	g.AddEdge(Edge{From: "mid", To: "leaf2"})

	sources := g.Sources()
	if len(sources) != 1 || sources[0].ID != "entry" {
		t.Errorf("Sources = %v, want [entry]", nodeIDs(sources))
	}

	sinks := g.Sinks()
	if len(sinks) != 2 || sinks[0].ID != "leaf1" || sinks[1].ID != "leaf2" {
		t.Errorf("Sinks = %v, want [leaf1 leaf2]", nodeIDs(sinks))
	}
}

func TestRemoveEdge(t *testing.T) {
	g := New(nil)
	g.AddNode(Node{ID: "a"})
	g.AddNode(Node{ID: "b"})
	g.AddNode(Node{ID: "c"})
	g.AddEdge(Edge{From: "a", To: "b"})
	g.AddEdge(Edge{From: "a", To: "b"})
	g.AddEdge(Edge{From: "a", To: "c"})

	g.RemoveEdge("a", "b")

	if got := g.EdgeCount(); got != 1 {
		t.Errorf("EdgeCount = %d, want 1", got)
	}
	if got := g.Children("a"); len(got) != 1 || got[0] != "c" {
		t.Errorf("Children(a) = %v, want [c]", got)
	}
	if got := g.Parents("b"); len(got) != 0 {
		t.Errorf("Parents(b) = %v, want empty", got)
	}

	// Removing a missing edge is a no-op.
	g.RemoveEdge("a", "b")
	if got := g.EdgeCount(); got != 1 {
		t.Errorf("EdgeCount after no-op remove = %d, want 1", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		build   func() *DAG
		wantErr error
	}{
		{
			name:  "Empty",
			build: func() *DAG { return New(nil) },
		},
		{
			name: "Acyclic",
			build: func() *DAG {
				g := New(nil)
				g.AddNode(Node{ID: "a"})
				g.AddNode(Node{ID: "b"})
				g.AddNode(Node{ID: "c"})
				g.AddEdge(Edge{From: "a", To: "b"})
				g.AddEdge(Edge{From: "a", To: "c"})
				g.AddEdge(Edge{From: "b", To: "c"})
				return g
			},
		},
		{
			name: "SelfLoop",
			build: func() *DAG {
				g := New(nil)
				g.AddNode(Node{ID: "a"})
				g.AddEdge(Edge{From: "a", To: "a"})
				return g
			},
			wantErr: ErrGraphHasCycle,
		},
		{
			name: "TwoNodeCycle",
			build: func() *DAG {
				g := New(nil)
				g.AddNode(Node{ID: "a"})
				g.AddNode(Node{ID: "b"})
				g.AddEdge(Edge{From: "a", To: "b"})
				g.AddEdge(Edge{From: "b", To: "a"})
				return g
			},
			wantErr: ErrGraphHasCycle,
		},
		{
			name: "CycleInComponent",
			build: func() *DAG {
				g := New(nil)
				g.AddNode(Node{ID: "root"})
				g.AddNode(Node{ID: "x"})
				g.AddNode(Node{ID: "y"})
				g.AddNode(Node{ID: "z"})
				g.AddEdge(Edge{From: "root", To: "x"})
				g.AddEdge(Edge{From: "x", To: "y"})
				g.AddEdge(Edge{From: "y", To: "z"})
				g.AddEdge(Edge{From: "z", To: "x"})
				return g
			},
			wantErr: ErrGraphHasCycle,
		},
		{
			name: "DiamondIsNotCycle",
			build: func() *DAG {
				g := New(nil)
				g.AddNode(Node{ID: "main"})
				g.AddNode(Node{ID: "a"})
				g.AddNode(Node{ID: "b"})
				g.AddNode(Node{ID: "shared"})
				g.AddEdge(Edge{From: "main", To: "a"})
				g.AddEdge(Edge{From: "main", To: "b"})
				g.AddEdge(Edge{From: "a", To: "shared"})
				g.AddEdge(Edge{From: "b", To: "shared"})
				return g
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build().Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func nodeIDs(nodes []*Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
