package compiler

import (
	"github.com/specialistvlad/shadergrid/internal/glsl"
	"github.com/specialistvlad/shadergrid/internal/graph"
	"github.com/specialistvlad/shadergrid/internal/registry"
)

// iteration is the resolution scope of one unrolled loop iteration.
type iteration struct {
	kind      byte
	loopID    string
	index     int
	carry     string
	carryType graph.SocketType
	// initiator is the loopStart whose carry output stands for the running
	// carry inside a wired loop body. Empty for modal loops.
	initiator string
	// local holds the variables produced by body nodes earlier in this
	// iteration, keyed by node id and output key.
	local map[string]map[string]string
}

func (it *iteration) suffix() string {
	return glsl.IterationSuffix(it.kind, it.loopID, it.index)
}

// resolvedInput is an input expression together with the type it has.
type resolvedInput struct {
	key  string
	expr string
	typ  graph.SocketType
}

// resolveInputs computes an emittable expression for every input of n. In
// priority order an input takes: the variable of its connected source, with a
// float broadcast when the input is a vector; inside a loop body, the running
// carry for unconnected carry-typed inputs; for dynamic nodes, a literal baked
// from an instance parameter; and finally its default literal.
func (gen *generator) resolveInputs(n *graph.Node, def *registry.Definition, it *iteration) (map[string]string, []resolvedInput) {
	sockets := inputSockets(def, n)
	vars := make(map[string]string, len(sockets))
	ordered := make([]resolvedInput, 0, len(sockets))

	for _, s := range sockets {
		expr := gen.resolveSocket(n, s, it)
		vars[s.key] = expr
		ordered = append(ordered, resolvedInput{key: s.key, expr: expr, typ: s.typ})
	}
	return vars, ordered
}

func (gen *generator) resolveSocket(n *graph.Node, s socket, it *iteration) string {
	want := s.typ
	if s.instance.Connected() {
		if expr, from, ok := gen.lookupSource(s.instance.Connection, it); ok {
			if widened, ok := glsl.Broadcast(expr, from, want); ok {
				return widened
			}
			if gen.carriesLoopValue(s.instance.Connection) {
				if converted, ok := glsl.Convert(expr, from, want); ok {
					return converted
				}
			}
			return expr
		}
		gen.logger.Warn("Connected source has no compiled value, using literal.",
			"node", n.ID, "input", s.key, "source", s.instance.Connection.NodeID)
	} else if it != nil && want == it.carryType {
		return it.carry
	}

	if dynamicSockets(n) && literalSlot(n, s.key) {
		if v, ok := n.Param(s.key); ok {
			lit, _ := glsl.Literal(want, v)
			return lit
		}
	}

	var value any
	if s.instance != nil && s.instance.Default != nil {
		value = s.instance.Default
	} else if s.def != nil {
		value = s.def.Default
	}
	lit, _ := glsl.Literal(want, value)
	return lit
}

// lookupSource finds the variable a connection reads from and its type.
func (gen *generator) lookupSource(conn *graph.Connection, it *iteration) (string, graph.SocketType, bool) {
	if it != nil {
		if it.initiator != "" && conn.NodeID == it.initiator {
			return it.carry, it.carryType, true
		}
		if outs, ok := it.local[conn.NodeID]; ok {
			if v, ok := outs[conn.OutputKey]; ok {
				return v, gen.varTypes[v], true
			}
		}
	}
	if outs, ok := gen.vars[conn.NodeID]; ok {
		if v, ok := outs[conn.OutputKey]; ok {
			return v, gen.varTypes[v], true
		}
	}
	return "", "", false
}

// carriesLoopValue reports whether conn reads the carry or result of a loop
// role node, whose type follows the wiring and is converted to fit the reader.
func (gen *generator) carriesLoopValue(conn *graph.Connection) bool {
	src, ok := gen.idx[conn.NodeID]
	return ok && isCarryOutput(src, conn.OutputKey)
}

// literalSlot reports whether a dynamic node marks key as taking its value
// from the node's parameters.
func literalSlot(n *graph.Node, key string) bool {
	slots, _ := n.StringListParam(graph.ParamLiterals)
	for _, s := range slots {
		if s == key {
			return true
		}
	}
	return false
}
