package glsl

import (
	"fmt"

	"github.com/specialistvlad/shadergrid/internal/graph"
)

// Broadcast widens a float expression to t. It reports false when from is not
// a float or t is not a vector.
func Broadcast(expr string, from, to graph.SocketType) (string, bool) {
	if from != graph.Float || !to.IsVector() {
		return expr, false
	}
	return fmt.Sprintf("%s(%s)", to, expr), true
}

var swizzles = [...]string{"", "x", "xy", "xyz"}

// Convert applies the fixed pairwise conversion between the float/vector
// types: component extraction when narrowing, broadcast from float, and
// zero padding when widening with an alpha of 1.0 for vec4.
func Convert(expr string, from, to graph.SocketType) (string, bool) {
	if from == to {
		return expr, true
	}
	fn, tn := from.Components(), to.Components()
	if fn == 0 || tn == 0 {
		return expr, false
	}
	if fn == 1 {
		return fmt.Sprintf("%s(%s)", to, expr), true
	}
	if tn < fn {
		return fmt.Sprintf("%s.%s", expr, swizzles[tn]), true
	}

	// Widening between vectors.
	switch {
	case fn == 2 && tn == 3:
		return fmt.Sprintf("vec3(%s, 0.0)", expr), true
	case fn == 2 && tn == 4:
		return fmt.Sprintf("vec4(%s, 0.0, 1.0)", expr), true
	case fn == 3 && tn == 4:
		return fmt.Sprintf("vec4(%s, 1.0)", expr), true
	}
	return expr, false
}
