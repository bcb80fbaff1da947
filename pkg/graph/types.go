package graph

import (
	"encoding/json"
	"fmt"

	"github.com/amdtrace/amdtrace/pkg/amd"
	"github.com/amdtrace/amdtrace/pkg/dag"
	"github.com/amdtrace/amdtrace/pkg/trace"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Output formats understood by the render layer.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
)

// Internal metadata keys for serialization.
const (
	metaPlugin   = "plugin"   // Loader-plugin prefix of a plugin-prefixed module
	metaResource = "resource" // Resource part of a plugin-prefixed module
)

// =============================================================================
// Graph - Dependency Graph Serialization
// =============================================================================

// Graph is the canonical serialization format for traced module graphs.
// Used for file output, API responses, storage, and caching.
//
// The format is human-readable and designed for round-trip fidelity:
// trace → export → re-import produces identical results. Nodes appear in
// discovery order, so the first node is always the entry module and the
// output is deterministic for a given trace.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// =============================================================================
// Node - Traced Module
// =============================================================================

// Node is the serialized form of a traced module.
type Node struct {
	ID       string         `json:"id" bson:"id"`
	Plugin   string         `json:"plugin,omitempty" bson:"plugin,omitempty"`     // Loader-plugin prefix, e.g. "text"
	Resource string         `json:"resource,omitempty" bson:"resource,omitempty"` // Resource part of a plugin-prefixed id
	Meta     map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
}

// IsPluginResource returns true if this module was requested through a
// loader plugin ("text!app/header.html").
func (n *Node) IsPluginResource() bool { return n.Plugin != "" }

// =============================================================================
// Edge - Directed Dependency
// =============================================================================

// Edge represents a directed dependency request in the module graph.
// A module that requests the same dependency twice produces two edges.
type Edge struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
}

// =============================================================================
// Trace → DAG Conversion
// =============================================================================

// FromTrace converts a completed trace into a DAG, preserving discovery
// order for nodes and request order for edges. Plugin-prefixed modules
// get plugin and resource metadata attached to their nodes.
//
// A completed trace is edge-closed (every edge target is also a module),
// so conversion only fails on a graph that was mutated after tracing.
func FromTrace(t *trace.Graph) (*dag.DAG, error) {
	d := dag.New(nil)

	for _, id := range t.Modules() {
		n := dag.Node{ID: id}
		if ref := amd.ParseID(id); ref.Plugin != "" {
			n.Meta = dag.Metadata{metaPlugin: ref.Plugin, metaResource: ref.ID}
		}
		if err := d.AddNode(n); err != nil {
			return nil, fmt.Errorf("add node %s: %w", id, err)
		}
	}

	for _, id := range t.Modules() {
		for _, dep := range t.Deps(id) {
			if err := d.AddEdge(dag.Edge{From: id, To: dep}); err != nil {
				return nil, fmt.Errorf("add edge %s→%s: %w", id, dep, err)
			}
		}
	}

	return d, nil
}

// =============================================================================
// DAG ↔ Graph Conversion
// =============================================================================

// FromDAG converts a DAG to its serialization format.
// Nodes keep their insertion order and edges their request order, so the
// output is deterministic. Plugin and resource fields are lifted out of
// node metadata into dedicated fields.
func FromDAG(g *dag.DAG) Graph {
	nodes := g.Nodes()

	out := Graph{
		Nodes: make([]Node, len(nodes)),
		Edges: make([]Edge, len(g.Edges())),
	}

	for i, n := range nodes {
		out.Nodes[i] = nodeFromDAG(n)
	}

	for i, e := range g.Edges() {
		out.Edges[i] = Edge{From: e.From, To: e.To}
	}

	return out
}

// ToDAG converts a Graph to a DAG.
// Returns an error if the structure is inconsistent (duplicate node IDs,
// edges referencing unknown nodes). Plugin and resource fields are stored
// back into node metadata for round-trip fidelity.
func ToDAG(gj Graph) (*dag.DAG, error) {
	d := dag.New(nil)

	for _, nj := range gj.Nodes {
		n := dag.Node{
			ID:   nj.ID,
			Meta: copyMeta(nj.Meta),
		}
		if n.Meta == nil {
			n.Meta = dag.Metadata{}
		}
		if nj.Plugin != "" {
			n.Meta[metaPlugin] = nj.Plugin
			n.Meta[metaResource] = nj.Resource
		}
		if err := d.AddNode(n); err != nil {
			return nil, fmt.Errorf("add node %s: %w", nj.ID, err)
		}
	}

	for _, ej := range gj.Edges {
		if err := d.AddEdge(dag.Edge{From: ej.From, To: ej.To}); err != nil {
			return nil, fmt.Errorf("add edge %s→%s: %w", ej.From, ej.To, err)
		}
	}

	return d, nil
}

// copyMeta creates a shallow copy of metadata to avoid mutation.
func copyMeta(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	result := make(map[string]any, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}

// UnmarshalGraph deserializes JSON bytes to a Graph.
func UnmarshalGraph(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, err
	}
	return g, nil
}

// =============================================================================
// Internal Helpers
// =============================================================================

// nodeFromDAG converts a dag.Node to a serialization Node.
// This is the single point of conversion for all DAG→Node operations.
// Plugin and resource are lifted from metadata into dedicated fields.
func nodeFromDAG(n *dag.Node) Node {
	node := Node{
		ID:   n.ID,
		Meta: cleanMeta(n.Meta),
	}

	if n.Meta != nil {
		if plugin, ok := n.Meta[metaPlugin].(string); ok {
			node.Plugin = plugin
		}
		if resource, ok := n.Meta[metaResource].(string); ok {
			node.Resource = resource
		}
	}

	return node
}

// cleanMeta returns a copy of metadata without internal keys.
// Returns nil if the result would be empty.
func cleanMeta(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	hasPublicKeys := false
	for k := range m {
		if k != metaPlugin && k != metaResource {
			hasPublicKeys = true
			break
		}
	}
	if !hasPublicKeys {
		return nil
	}
	result := make(map[string]any, len(m))
	for k, v := range m {
		if k != metaPlugin && k != metaResource {
			result[k] = v
		}
	}
	return result
}
