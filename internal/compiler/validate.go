package compiler

import (
	"github.com/specialistvlad/shadergrid/internal/graph"
	"github.com/specialistvlad/shadergrid/internal/registry"
)

// Validate checks the visible part of g, that is every node not in internal.
// Connections are resolved against the full node set, since a visible node
// may read from a node that sits inside a loop region. All problems are
// collected; an empty result means the graph is valid.
func Validate(g *graph.Graph, reg *registry.Registry, internal map[string]struct{}) []*Error {
	var errs []*Error
	visible := g.Visible(internal)
	idx := g.Index()

	outputs := 0
	for _, n := range visible {
		if n.Type == graph.TypeOutput {
			outputs++
		}
	}
	switch {
	case outputs == 0:
		errs = append(errs, newError(StructuralError, "", "", "Graph must have an output node"))
	case outputs > 1:
		errs = append(errs, newError(StructuralError, "", "", "Graph can only have one output node"))
	}

	for _, n := range visible {
		def, known := reg.Lookup(n.Type)
		if !known {
			errs = append(errs, newError(StructuralError, n.ID, "", "Node %q has unknown type %q", n.ID, n.Type))
		}

		for _, in := range n.Inputs {
			if !in.Connected() {
				continue
			}
			conn := in.Connection
			src, ok := idx[conn.NodeID]
			if !ok {
				errs = append(errs, newError(ConnectionError, n.ID, in.Key,
					"Node %q input %q is connected to non-existent node %q", n.ID, in.Key, conn.NodeID))
				continue
			}
			got, ok := effectiveOutputType(reg, idx, src, conn.OutputKey)
			if !ok {
				errs = append(errs, newError(ConnectionError, n.ID, in.Key,
					"Node %q has no output %q", src.ID, conn.OutputKey))
				continue
			}
			if !known || skipTypeCheck(n) {
				continue
			}
			want := declaredInputType(def, n, in.Key)
			if want == "" || compatible(got, want) {
				continue
			}
			if isCarryOutput(src, conn.OutputKey) && adapts(got, want) {
				continue
			}
			errs = append(errs, newError(TypeError, n.ID, in.Key,
				"Type mismatch on node %q input %q: expected %s, got %s", n.ID, in.Key, want, got))
		}
	}
	return errs
}

// validateStructure reports problems that make loop discovery or code
// generation ill-defined: repeated node ids, loop bodies that list a node
// twice or name a missing node or the loop itself, and loop bodies with
// unknown node types.
func validateStructure(g *graph.Graph, reg *registry.Registry, regions *LoopRegions) []*Error {
	var errs []*Error
	idx := g.Index()

	seen := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		if _, dup := seen[n.ID]; dup {
			errs = append(errs, newError(StructuralError, n.ID, "", "Duplicate node id %q", n.ID))
		}
		seen[n.ID] = struct{}{}
	}

	for _, n := range g.Nodes {
		var body []string
		switch n.Type {
		case graph.TypeLoop:
			body = regions.Modal[n.ID]
		case graph.TypeLoopEnd:
			body = regions.Chains[n.ID]
		default:
			continue
		}
		listed := make(map[string]struct{}, len(body))
		for _, id := range body {
			if _, dup := listed[id]; dup {
				errs = append(errs, newError(StructuralError, n.ID, "", "Loop node %q lists body node %q more than once", n.ID, id))
				continue
			}
			listed[id] = struct{}{}
			if id == n.ID {
				errs = append(errs, newError(StructuralError, n.ID, "", "Loop node %q lists itself as a body node", n.ID))
				continue
			}
			bn, ok := idx[id]
			if !ok {
				errs = append(errs, newError(StructuralError, n.ID, "", "Loop node %q references non-existent body node %q", n.ID, id))
				continue
			}
			if _, ok := reg.Lookup(bn.Type); !ok {
				errs = append(errs, newError(StructuralError, bn.ID, "", "Node %q has unknown type %q", bn.ID, bn.Type))
			}
		}
	}
	return errs
}
