package compiler

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/specialistvlad/shadergrid/internal/glsl"
	"github.com/specialistvlad/shadergrid/internal/graph"
	"github.com/specialistvlad/shadergrid/internal/registry"
)

// strategy is how a single node is compiled. The order of the constants is
// the order in which they are tried.
type strategy int

const (
	strategyLoop strategy = iota
	strategyLoopStart
	strategyLoopEnd
	strategyBypass
	strategyOverride
	strategyDefault
)

func (s strategy) String() string {
	return [...]string{"loop", "loopStart", "loopEnd", "bypass", "override", "default"}[s]
}

func selectStrategy(n *graph.Node) strategy {
	switch {
	case n.Type == graph.TypeLoop:
		return strategyLoop
	case n.Type == graph.TypeLoopStart:
		return strategyLoopStart
	case n.Type == graph.TypeLoopEnd:
		return strategyLoopEnd
	case n.Bypass:
		return strategyBypass
	case n.CodeOverride != "":
		return strategyOverride
	default:
		return strategyDefault
	}
}

type generator struct {
	reg     *registry.Registry
	idx     map[string]*graph.Node
	regions *LoopRegions
	logger  *slog.Logger

	helpers *glsl.OrderedSet
	blocks  []string
	// vars maps node id → output key → variable for every node compiled in
	// the main pass.
	vars map[string]map[string]string
	// varTypes records the declared type of every emitted variable.
	varTypes map[string]graph.SocketType
}

// Generate emits the fragment shader for the nodes in sorted and returns it
// together with the output variables of every compiled node.
func Generate(sorted []*graph.Node, g *graph.Graph, reg *registry.Registry, regions *LoopRegions) (string, map[string]map[string]string, error) {
	return generate(sorted, g, reg, regions, slog.Default())
}

func generate(sorted []*graph.Node, g *graph.Graph, reg *registry.Registry, regions *LoopRegions, logger *slog.Logger) (string, map[string]map[string]string, error) {
	gen := &generator{
		reg:      reg,
		idx:      g.Index(),
		regions:  regions,
		logger:   logger,
		helpers:  glsl.NewOrderedSet(),
		vars:     make(map[string]map[string]string, len(sorted)),
		varTypes: make(map[string]graph.SocketType),
	}

	for _, n := range sorted {
		def, ok := reg.Lookup(n.Type)
		if !ok {
			return "", nil, fmt.Errorf("node %q has unknown type %q", n.ID, n.Type)
		}
		gen.addHelper(def)

		st := selectStrategy(n)
		gen.logger.Debug("Compiling node.", "node", n.ID, "type", n.Type, "strategy", st.String())

		var code string
		var err error
		switch st {
		case strategyLoop:
			code, err = gen.compileModalLoop(n, def)
		case strategyLoopStart:
			code = gen.compileLoopStart(n, def)
		case strategyLoopEnd:
			code, err = gen.compileLoopEnd(n, def)
		case strategyBypass:
			code = gen.compileBypass(n, def)
		case strategyOverride:
			code = gen.compileOverride(n, def)
		default:
			code = gen.compileDefault(n, def)
		}
		if err != nil {
			return "", nil, err
		}
		gen.blocks = append(gen.blocks, block(n, code))
	}

	return assemble(gen.helpers.Items(), gen.blocks), gen.vars, nil
}

func (gen *generator) addHelper(def *registry.Definition) {
	if h := strings.TrimSpace(def.Helper); h != "" {
		gen.helpers.Add(h)
	}
}

// record stores the output variables of a main-pass node.
func (gen *generator) record(n *graph.Node, outputs map[string]string) {
	vars := make(map[string]string, len(outputs))
	for key, v := range outputs {
		vars[key] = v
		if t, ok := effectiveOutputType(gen.reg, gen.idx, n, key); ok {
			if _, known := gen.varTypes[v]; !known {
				gen.varTypes[v] = t
			}
		}
	}
	gen.vars[n.ID] = vars
}

func (gen *generator) compileDefault(n *graph.Node, def *registry.Definition) string {
	inputs, _ := gen.resolveInputs(n, def, nil)
	out := def.Generate(n, inputs)
	gen.record(n, out.Outputs)
	return out.Code
}

// compileOverride emits the author's code verbatim. The generator still runs
// so the recorded output names match what downstream nodes expect.
func (gen *generator) compileOverride(n *graph.Node, def *registry.Definition) string {
	inputs, _ := gen.resolveInputs(n, def, nil)
	out := def.Generate(n, inputs)
	gen.record(n, out.Outputs)
	return n.CodeOverride
}

// compileBypass forwards the first input to every output through the fixed
// conversion table. When the table has no rule for that pair, a second,
// different input is used instead.
func (gen *generator) compileBypass(n *graph.Node, def *registry.Definition) string {
	_, ordered := gen.resolveInputs(n, def, nil)
	if len(ordered) == 0 {
		return gen.compileDefault(n, def)
	}

	first := ordered[0]
	var lines []string
	outputs := make(map[string]string)
	for _, key := range outputKeys(def, n) {
		t, ok := effectiveOutputType(gen.reg, gen.idx, n, key)
		if !ok {
			continue
		}
		expr, ok := glsl.Convert(first.expr, first.typ, t)
		if !ok && len(ordered) > 1 && ordered[1].expr != first.expr {
			second := ordered[1]
			expr, _ = glsl.Convert(second.expr, second.typ, t)
		}
		name := glsl.Var(n.ID, key)
		lines = append(lines, registry.Declare(t, name, expr))
		outputs[key] = name
		gen.varTypes[name] = t
	}
	gen.record(n, outputs)
	return strings.Join(lines, "\n")
}

// block prefixes a node's code with a comment naming the node.
func block(n *graph.Node, code string) string {
	code = strings.TrimSpace(code)
	header := fmt.Sprintf("// %s %s", n.Type, strconv.QuoteToASCII(n.ID))
	if code == "" {
		return header
	}
	return header + "\n" + code
}
