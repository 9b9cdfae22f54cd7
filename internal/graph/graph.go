package graph

// Graph is the whole set of nodes supplied for one compilation.
type Graph struct {
	Nodes []*Node
}

// New creates a graph from nodes, keeping their order.
func New(nodes ...*Node) *Graph {
	return &Graph{Nodes: nodes}
}

// Lookup returns the first node with the given id.
func (g *Graph) Lookup(id string) (*Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return nil, false
}

// Index builds an id → node map. When ids repeat, the first node wins.
func (g *Graph) Index() map[string]*Node {
	idx := make(map[string]*Node, len(g.Nodes))
	for _, n := range g.Nodes {
		if _, exists := idx[n.ID]; !exists {
			idx[n.ID] = n
		}
	}
	return idx
}

// Visible returns the nodes not contained in excluded, in enumeration order.
func (g *Graph) Visible(excluded map[string]struct{}) []*Node {
	out := make([]*Node, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		if _, skip := excluded[n.ID]; skip {
			continue
		}
		out = append(out, n)
	}
	return out
}
