// Package graph provides serialization types for traced module graphs.
//
// This package defines the canonical wire format for amdtrace's graph data,
// used for JSON files, API responses, caching, and archival storage.
//
// # Architecture
//
// The package sits at the serialization boundary between internal
// representations and external formats:
//
//   - [Graph]: Serialization type (this package)
//   - pkg/trace.Graph: Raw trace result (module ids and dependency lists)
//   - pkg/dag.DAG: Analysis representation (metadata, traversal queries)
//
// Use [FromTrace] to lift a trace result into a DAG, and [FromDAG]/[ToDAG]
// to move between the DAG and the wire format.
//
// # Graph Serialization
//
// Graphs use a simple node-link JSON format:
//
//	{
//	  "nodes": [{"id": "app/main"}, {"id": "text!app/header.html", "plugin": "text", "resource": "app/header.html"}],
//	  "edges": [{"from": "app/main", "to": "text!app/header.html"}]
//	}
//
// Nodes appear in discovery order, so the first node is the entry module.
// Parallel edges are preserved: a module that requests the same dependency
// twice produces two edges.
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("deps.json")    // File → DAG
//	graph.WriteGraphFile(dag, "output.json")    // DAG → File
//	data, _ := graph.MarshalGraph(dag)          // DAG → []byte
//	parsed, _ := graph.UnmarshalGraph(data)     // []byte → Graph
//
// # Node Metadata
//
// The meta object supports arbitrary key-value data. Plugin-prefixed
// modules additionally carry dedicated plugin and resource fields, lifted
// out of metadata during serialization.
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
