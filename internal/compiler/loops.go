package compiler

import (
	"slices"

	"github.com/specialistvlad/shadergrid/internal/graph"
)

// LoopRegions is the outcome of loop discovery.
type LoopRegions struct {
	// Internal holds every node id compiled only inside an unrolled body.
	Internal map[string]struct{}
	// Modal maps a modal loop node id to its listed body ids.
	Modal map[string][]string
	// Chains maps a loopEnd id to its body ids in initiator→terminator order.
	Chains map[string][]string
	// Pairs maps a loopEnd id to the loopStart that closes its chain. Chains
	// that ran out of connections before reaching a loopStart have no entry.
	Pairs map[string]string
}

// IsInternal reports whether id is compiled only inside a loop body.
func (r *LoopRegions) IsInternal(id string) bool {
	_, ok := r.Internal[id]
	return ok
}

// ResolveLoops discovers modal loop bodies and wired loop chains.
//
// A wired chain is found by walking backwards from a loopEnd's carry input,
// always through the first connected input of each visited node, until a
// loopStart is reached or no connected input is left. The walk refuses to
// visit a node twice and reports the loop instead of spinning forever.
func ResolveLoops(g *graph.Graph) (*LoopRegions, error) {
	regions := &LoopRegions{
		Internal: make(map[string]struct{}),
		Modal:    make(map[string][]string),
		Chains:   make(map[string][]string),
		Pairs:    make(map[string]string),
	}
	idx := g.Index()

	for _, n := range g.Nodes {
		switch n.Type {
		case graph.TypeLoop:
			body, _ := n.StringListParam(graph.ParamBody)
			regions.Modal[n.ID] = body
			for _, id := range body {
				regions.Internal[id] = struct{}{}
			}

		case graph.TypeLoopEnd:
			chain, initiator, err := walkChain(n, idx)
			if err != nil {
				return nil, err
			}
			regions.Chains[n.ID] = chain
			if initiator != "" {
				regions.Pairs[n.ID] = initiator
			}
			for _, id := range chain {
				regions.Internal[id] = struct{}{}
			}
		}
	}
	return regions, nil
}

// walkChain returns the body of the wired loop ending at term and the id of
// the loopStart that closes it, if any.
func walkChain(term *graph.Node, idx map[string]*graph.Node) ([]string, string, error) {
	in, ok := term.Input(graph.KeyCarry)
	if !ok || !in.Connected() {
		return nil, "", nil
	}

	visited := map[string]struct{}{term.ID: {}}
	var body []string
	initiator := ""
	current := in.Connection.NodeID
	for {
		n, ok := idx[current]
		if !ok {
			break
		}
		if n.Type == graph.TypeLoopStart {
			initiator = n.ID
			break
		}
		if _, seen := visited[n.ID]; seen {
			return nil, "", newError(StructuralError, term.ID, graph.KeyCarry,
				"Loop chain for node %q revisits node %q", term.ID, n.ID)
		}
		visited[n.ID] = struct{}{}
		body = append(body, n.ID)

		next, ok := n.FirstConnected()
		if !ok {
			break
		}
		current = next.Connection.NodeID
	}

	slices.Reverse(body)
	return body, initiator, nil
}
