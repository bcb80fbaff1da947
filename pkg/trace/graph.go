package trace

// Graph is the dependency graph produced by a trace: an insertion-ordered
// mapping from resolved module identifier to the ordered list of resolved
// identifiers it declares as dependencies.
//
// A module is a key of the Graph if and only if it has been fully processed.
// Edge lists preserve source-declaration order and duplicates, so the Graph
// is a multigraph on edges and simple on nodes.
type Graph struct {
	order []string
	deps  map[string][]string
}

// NewGraph returns an empty Graph.
func NewGraph() *Graph {
	return &Graph{deps: make(map[string][]string)}
}

// Add creates the node for id with an empty edge list. Adding an existing
// node is a no-op.
func (g *Graph) Add(id string) {
	if _, ok := g.deps[id]; ok {
		return
	}
	g.order = append(g.order, id)
	g.deps[id] = []string{}
}

// AddDep appends dep to id's edge list. The node for id must exist; the dep
// target need not (it becomes a node when it is processed). Duplicate edges
// are preserved.
func (g *Graph) AddDep(id, dep string) {
	g.deps[id] = append(g.deps[id], dep)
}

// Has reports whether id is a fully processed node.
func (g *Graph) Has(id string) bool {
	_, ok := g.deps[id]
	return ok
}

// Deps returns id's edge list in declaration order. The returned slice is
// shared with the Graph; callers must not mutate it.
func (g *Graph) Deps(id string) []string {
	return g.deps[id]
}

// Modules returns all node identifiers in processing (discovery) order.
func (g *Graph) Modules() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.order)
}

// EdgeCount returns the total number of recorded edges, duplicates included.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, deps := range g.deps {
		n += len(deps)
	}
	return n
}
