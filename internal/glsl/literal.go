// Package glsl contains the small text primitives the code generator is built
// from: literals, coercions between socket types, identifier encoding and the
// insertion-ordered set used for helper functions.
package glsl

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/specialistvlad/shadergrid/internal/graph"
)

// Float formats f as a GLSL float literal. The result always carries a decimal
// point so that GLSL ES never reads it as an int.
func Float(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "0.0"
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Zero returns the zero literal for t.
func Zero(t graph.SocketType) string {
	switch t {
	case graph.Float:
		return "0.0"
	case graph.Int:
		return "0"
	case graph.Bool:
		return "false"
	case graph.Vec2, graph.Vec3, graph.Vec4:
		return string(t) + "(0.0)"
	default:
		return "0.0"
	}
}

// Literal renders v as a literal of type t. Scalars are broadcast into vectors,
// short component lists are zero-padded. Values it cannot interpret yield the
// zero literal and ok=false.
func Literal(t graph.SocketType, v any) (lit string, ok bool) {
	comps, ok := components(v)
	if !ok || len(comps) == 0 {
		return Zero(t), false
	}

	switch t {
	case graph.Int:
		return strconv.FormatInt(int64(math.Round(comps[0])), 10), true
	case graph.Bool:
		return strconv.FormatBool(comps[0] != 0), true
	case graph.Float:
		return Float(comps[0]), true
	}

	n := t.Components()
	if n == 0 {
		return Zero(t), false
	}
	if len(comps) == 1 {
		return fmt.Sprintf("%s(%s)", t, Float(comps[0])), true
	}
	parts := make([]string, n)
	for i := range parts {
		if i < len(comps) {
			parts[i] = Float(comps[i])
		} else {
			parts[i] = "0.0"
		}
	}
	return fmt.Sprintf("%s(%s)", t, strings.Join(parts, ", ")), true
}

// components flattens the value kinds found in node params and socket defaults
// into a list of floats.
func components(v any) ([]float64, bool) {
	switch x := v.(type) {
	case nil:
		return nil, false
	case float64:
		return []float64{x}, true
	case float32:
		return []float64{float64(x)}, true
	case int:
		return []float64{float64(x)}, true
	case int64:
		return []float64{float64(x)}, true
	case bool:
		if x {
			return []float64{1}, true
		}
		return []float64{0}, true
	case []float64:
		return x, true
	case []any:
		out := make([]float64, 0, len(x))
		for _, e := range x {
			c, ok := components(e)
			if !ok || len(c) != 1 {
				return nil, false
			}
			out = append(out, c[0])
		}
		return out, true
	default:
		return nil, false
	}
}
