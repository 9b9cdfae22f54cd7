package compiler

import (
	"github.com/specialistvlad/shadergrid/internal/glsl"
	"github.com/specialistvlad/shadergrid/internal/graph"
	"github.com/specialistvlad/shadergrid/internal/registry"
)

// effectiveOutputType is the instance type of an output socket when the node
// declares one. Otherwise the value-carrying output of a loop role follows the
// type of its carry, and every other output has the type from the node's
// definition. Validator and generator both go through here so they agree.
func effectiveOutputType(reg *registry.Registry, idx map[string]*graph.Node, n *graph.Node, key string) (graph.SocketType, bool) {
	return outputType(reg, idx, n, key, 0)
}

// maxCarryDepth bounds the walk through loops whose carry is fed by another
// loop's output.
const maxCarryDepth = 64

func outputType(reg *registry.Registry, idx map[string]*graph.Node, n *graph.Node, key string, depth int) (graph.SocketType, bool) {
	if out, ok := n.Output(key); ok && out.Type != "" {
		return out.Type, true
	}
	def, ok := reg.Lookup(n.Type)
	if !ok {
		return "", false
	}
	s, ok := def.Output(key)
	if !ok {
		return "", false
	}
	if isCarryOutput(n, key) {
		if t := inferCarryType(reg, idx, n, depth); t != "" {
			return t, true
		}
	}
	return s.Type, true
}

// isCarryOutput reports whether key is the output through which a loop role
// node hands on its carry.
func isCarryOutput(n *graph.Node, key string) bool {
	switch n.Type {
	case graph.TypeLoop, graph.TypeLoopEnd:
		return key == graph.KeyResult
	case graph.TypeLoopStart:
		return key == graph.KeyCarry
	}
	return false
}

// inferCarryType is the type carried by a loop role node: the instance type
// of its carry socket, else the type wired into it. It is empty when neither
// says anything.
func inferCarryType(reg *registry.Registry, idx map[string]*graph.Node, n *graph.Node, depth int) graph.SocketType {
	if depth > maxCarryDepth {
		return ""
	}
	in, ok := n.Input(graph.KeyCarry)
	if !ok {
		return ""
	}
	if n.Type == graph.TypeLoop && in.Type != "" {
		return in.Type
	}
	if !in.Connected() {
		return in.Type
	}
	src, ok := idx[in.Connection.NodeID]
	if !ok {
		return ""
	}
	t, ok := outputType(reg, idx, src, in.Connection.OutputKey, depth+1)
	if !ok || t.Components() == 0 {
		return ""
	}
	return t
}

// loopCarryType is inferCarryType with the vec2 default used when nothing is
// known.
func loopCarryType(reg *registry.Registry, idx map[string]*graph.Node, n *graph.Node) graph.SocketType {
	if t := inferCarryType(reg, idx, n, 0); t != "" {
		return t
	}
	return graph.Vec2
}

// declaredInputType is the statically declared type of an input, falling back
// to the instance socket for keys the definition does not know.
func declaredInputType(def *registry.Definition, n *graph.Node, key string) graph.SocketType {
	if def != nil {
		if s, ok := def.Input(key); ok {
			return s.Type
		}
	}
	if in, ok := n.Input(key); ok {
		return in.Type
	}
	return ""
}

// compatible implements the one allowed implicit coercion: a float may feed a
// vec3 input.
func compatible(from, to graph.SocketType) bool {
	return from == to || (from == graph.Float && to == graph.Vec3)
}

// adapts reports whether a loop carry of type from may feed an input of type
// to. Carry types are inferred from wiring, so loop role outputs go through
// the pairwise conversion table instead of the single coercion.
func adapts(from, to graph.SocketType) bool {
	_, ok := glsl.Convert("", from, to)
	return ok
}

// dynamicSockets reports whether n's socket set is defined per instance.
func dynamicSockets(n *graph.Node) bool {
	return n.Type == graph.TypeExpr
}

// skipTypeCheck is true for nodes whose input types are inferred from wiring.
func skipTypeCheck(n *graph.Node) bool {
	switch n.Type {
	case graph.TypeExpr, graph.TypeLoopStart, graph.TypeLoopEnd:
		return true
	}
	return false
}

// socket is one input as seen by the generator.
type socket struct {
	key      string
	typ      graph.SocketType
	instance *graph.InputSocket
	def      *registry.SocketDef
}

// inputSockets merges the definition's inputs with the instance's, in
// definition order first and then any instance-only keys in instance order.
// Dynamic nodes only use their instance sockets.
func inputSockets(def *registry.Definition, n *graph.Node) []socket {
	var out []socket
	seen := make(map[string]struct{})
	if def != nil && !dynamicSockets(n) {
		for i := range def.Inputs {
			d := &def.Inputs[i]
			inst, _ := n.Input(d.Key)
			out = append(out, socket{key: d.Key, typ: d.Type, instance: inst, def: d})
			seen[d.Key] = struct{}{}
		}
	}
	for _, in := range n.Inputs {
		if _, ok := seen[in.Key]; ok {
			continue
		}
		seen[in.Key] = struct{}{}
		out = append(out, socket{key: in.Key, typ: in.Type, instance: in})
	}
	return out
}

// outputKeys lists the node's outputs in the same merged order as inputSockets.
func outputKeys(def *registry.Definition, n *graph.Node) []string {
	var keys []string
	seen := make(map[string]struct{})
	if def != nil && (!dynamicSockets(n) || len(n.Outputs) == 0) {
		for _, d := range def.Outputs {
			keys = append(keys, d.Key)
			seen[d.Key] = struct{}{}
		}
	}
	for _, o := range n.Outputs {
		if _, ok := seen[o.Key]; ok {
			continue
		}
		seen[o.Key] = struct{}{}
		keys = append(keys, o.Key)
	}
	return keys
}
