package compiler

import "github.com/specialistvlad/shadergrid/internal/graph"

// Sort orders the visible nodes of g so that every node comes after the nodes
// it reads from. It uses Kahn's algorithm with a FIFO queue seeded in
// enumeration order, so nodes that become ready together keep their original
// relative order.
//
// Edges are taken from input connections between visible nodes only. Each
// wired loop pair in pairs (loopEnd id → loopStart id) adds one edge from the
// loopStart to its loopEnd, since the loopEnd's own carry connection points
// into the excluded body.
func Sort(g *graph.Graph, internal map[string]struct{}, pairs map[string]string) ([]*graph.Node, error) {
	visible := g.Visible(internal)

	pos := make(map[string]int, len(visible))
	for i, n := range visible {
		if _, dup := pos[n.ID]; !dup {
			pos[n.ID] = i
		}
	}

	indegree := make([]int, len(visible))
	dependents := make([][]int, len(visible))
	addEdge := func(from string, to int) {
		if j, ok := pos[from]; ok {
			dependents[j] = append(dependents[j], to)
			indegree[to]++
		}
	}

	for i, n := range visible {
		for _, in := range n.Inputs {
			if in.Connected() {
				addEdge(in.Connection.NodeID, i)
			}
		}
		if initiator, ok := pairs[n.ID]; ok {
			addEdge(initiator, i)
		}
	}

	queue := make([]int, 0, len(visible))
	for i := range visible {
		if indegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	order := make([]*graph.Node, 0, len(visible))
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		order = append(order, visible[i])
		for _, d := range dependents[i] {
			indegree[d]--
			if indegree[d] == 0 {
				queue = append(queue, d)
			}
		}
	}

	if len(order) < len(visible) {
		return nil, newError(CycleError, "", "", "Graph contains a cycle")
	}
	return order, nil
}
