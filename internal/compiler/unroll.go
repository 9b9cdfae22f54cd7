package compiler

import (
	"fmt"
	"math"
	"strings"

	"github.com/specialistvlad/shadergrid/internal/glsl"
	"github.com/specialistvlad/shadergrid/internal/graph"
	"github.com/specialistvlad/shadergrid/internal/registry"
)

const (
	minIterations     = 1
	maxIterations     = 16
	defaultIterations = 4
)

// iterations reads the requested iteration count of a loop node, rounded and
// clamped to [1, 16].
func iterations(n *graph.Node) int {
	v, ok := n.NumberParam(graph.ParamIters)
	if !ok || math.IsNaN(v) {
		return defaultIterations
	}
	v = math.Round(v)
	if v < minIterations {
		return minIterations
	}
	if v > maxIterations {
		return maxIterations
	}
	return int(v)
}

// compileLoopStart declares the initial carry of a wired loop. The variable
// takes the type of whatever is wired into it.
func (gen *generator) compileLoopStart(n *graph.Node, def *registry.Definition) string {
	t := loopCarryType(gen.reg, gen.idx, n)
	var expr string
	if in, ok := n.Input(graph.KeyCarry); ok && in.Connected() {
		if v, from, ok := gen.lookupSource(in.Connection, nil); ok {
			if converted, ok := glsl.Convert(v, from, t); ok {
				expr = converted
			}
		}
	}
	if expr == "" {
		inputs, _ := gen.resolveInputs(n, def, nil)
		expr = inputs[graph.KeyCarry]
		if expr == "" {
			expr = glsl.Zero(t)
		}
	}

	name := glsl.Var(n.ID, graph.KeyCarry)
	gen.vars[n.ID] = map[string]string{graph.KeyCarry: name}
	gen.varTypes[name] = t
	return registry.Declare(t, name, expr)
}

// compileModalLoop unrolls the body listed on a loop node.
func (gen *generator) compileModalLoop(n *graph.Node, def *registry.Definition) (string, error) {
	carryType := loopCarryType(gen.reg, gen.idx, n)
	inputs, _ := gen.resolveInputs(n, def, nil)
	init := inputs[graph.KeyCarry]
	if init == "" {
		init = glsl.Zero(carryType)
	}

	it := &iteration{kind: glsl.ModalLoop, loopID: n.ID, carryType: carryType}
	return gen.unroll(n, gen.regions.Modal[n.ID], it, init)
}

// compileLoopEnd unrolls the body discovered between a loopStart and this
// node. The carry type is inferred from the wire entering the carry input.
func (gen *generator) compileLoopEnd(n *graph.Node, def *registry.Definition) (string, error) {
	carryType := loopCarryType(gen.reg, gen.idx, n)

	init := glsl.Zero(carryType)
	initiator := gen.regions.Pairs[n.ID]
	if initiator != "" {
		if v, ok := gen.vars[initiator][graph.KeyCarry]; ok {
			if converted, ok := glsl.Convert(v, gen.varTypes[v], carryType); ok {
				init = converted
			}
		}
	}

	it := &iteration{kind: glsl.WiredLoop, loopID: n.ID, carryType: carryType, initiator: initiator}
	return gen.unroll(n, gen.regions.Chains[n.ID], it, init)
}

// unroll emits the carry variable, one block per iteration and the result
// variable for loop node n.
func (gen *generator) unroll(n *graph.Node, body []string, it *iteration, init string) (string, error) {
	carry := glsl.Var(n.ID, graph.KeyCarry)
	it.carry = carry
	gen.varTypes[carry] = it.carryType

	lines := []string{registry.Declare(it.carryType, carry, init)}
	count := iterations(n)
	gen.logger.Debug("Unrolling loop.", "node", n.ID, "iterations", count, "body", len(body), "carry_type", string(it.carryType))

	for i := 0; i < count; i++ {
		it.index = i
		it.local = make(map[string]map[string]string, len(body))

		code, next, nextType, err := gen.iterate(body, it)
		if err != nil {
			return "", err
		}
		lines = append(lines, fmt.Sprintf("// iteration %d", i))
		if code != "" {
			lines = append(lines, code)
		}
		if next != "" {
			expr, ok := glsl.Convert(next, nextType, it.carryType)
			if !ok {
				expr = next
			}
			lines = append(lines, fmt.Sprintf("%s = %s;", carry, expr))
		}
	}

	resultType, ok := effectiveOutputType(gen.reg, gen.idx, n, graph.KeyResult)
	if !ok || resultType.Components() == 0 {
		resultType = it.carryType
	}
	expr, ok := glsl.Convert(carry, it.carryType, resultType)
	if !ok {
		expr = carry
	}
	result := glsl.Var(n.ID, graph.KeyResult)
	lines = append(lines, registry.Declare(resultType, result, expr))

	gen.vars[n.ID] = map[string]string{graph.KeyResult: result}
	gen.varTypes[result] = resultType
	return strings.Join(lines, "\n"), nil
}

// iterate compiles every body node once for the current iteration. It returns
// the emitted code and the first output of the last body node, which becomes
// the next carry.
func (gen *generator) iterate(body []string, it *iteration) (string, string, graph.SocketType, error) {
	var lines []string
	var next string
	var nextType graph.SocketType
	suffix := it.suffix()

	for _, id := range body {
		bn, ok := gen.idx[id]
		if !ok {
			return "", "", "", fmt.Errorf("loop %q: body node %q not found", it.loopID, id)
		}
		def, ok := gen.reg.Lookup(bn.Type)
		if !ok {
			return "", "", "", fmt.Errorf("loop %q: body node %q has unknown type %q", it.loopID, id, bn.Type)
		}
		gen.addHelper(def)

		inputs, _ := gen.resolveInputs(bn, def, it)
		out := def.Generate(bn, inputs)
		lines = append(lines, glsl.Rewrite(strings.TrimSpace(out.Code), bn.ID, suffix))

		renamed := make(map[string]string, len(out.Outputs))
		for key, v := range out.Outputs {
			name := glsl.Rewrite(v, bn.ID, suffix)
			renamed[key] = name
			if t, ok := effectiveOutputType(gen.reg, gen.idx, bn, key); ok {
				gen.varTypes[name] = t
			}
		}
		it.local[bn.ID] = renamed

		next, nextType = "", ""
		for _, key := range outputKeys(def, bn) {
			if v, ok := renamed[key]; ok {
				next, nextType = v, gen.varTypes[v]
				break
			}
		}
	}
	return strings.Join(lines, "\n"), next, nextType, nil
}
