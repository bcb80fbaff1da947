// Package dag provides the directed multigraph used to analyze and render
// traced module graphs.
//
// # Overview
//
// The tracer's own output type keeps exact traversal semantics; this package
// is the analysis-friendly shape built from it: explicit nodes and edges,
// adjacency in both directions, sources and sinks, and structural
// validation. Rendering and serialization consume this structure.
//
// # Basic Usage
//
// Create a new graph with [New], add nodes with [DAG.AddNode], and edges
// with [DAG.AddEdge]. Nodes must have unique IDs, and edges can only connect
// existing nodes:
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "app/main"})
//	g.AddNode(dag.Node{ID: "app/util"})
//	g.AddEdge(dag.Edge{From: "app/main", To: "app/util"})
//
// Query the graph structure with [DAG.Children], [DAG.Parents], [DAG.Sources],
// [DAG.Sinks], and related methods.
//
// # Cycles
//
// AMD module graphs may contain circular dependencies, so construction never
// rejects a cycle. [DAG.Validate] reports [ErrGraphHasCycle] for callers
// that want to warn about or refuse cyclic graphs.
//
// # Metadata
//
// Nodes, edges, and the graph itself support arbitrary metadata via
// [Metadata] maps. This is used to store module attributes (plugin prefix,
// mapped file path) and trace provenance (entry id, configuration hash).
// Metadata maps are never nil after creation - empty maps are automatically
// initialized.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use. Callers must synchronize
// access if multiple goroutines read or modify the same graph.
package dag
