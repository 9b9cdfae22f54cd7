// Package mathops provides arithmetic and geometry nodes.
package mathops

import (
	"fmt"

	"github.com/specialistvlad/shadergrid/internal/graph"
	"github.com/specialistvlad/shadergrid/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

const rotateHelper = `vec2 sg_rotate2d(vec2 p, float a) {
  float c = cos(a);
  float s = sin(a);
  return mat2(c, -s, s, c) * p;
}`

func binary(op string) *registry.Definition {
	return &registry.Definition{
		Inputs: []registry.SocketDef{
			{Key: "a", Type: graph.Vec3},
			{Key: "b", Type: graph.Vec3},
		},
		Outputs: []registry.SocketDef{{Key: "out", Type: graph.Vec3}},
		Generate: registry.Single("out", graph.Vec3, func(_ *graph.Node, in map[string]string) string {
			return fmt.Sprintf("%s %s %s", in["a"], op, in["b"])
		}),
	}
}

// Register registers the math node types.
func (m *Module) Register(r *registry.Registry) {
	r.Register("add", binary("+"))
	r.Register("multiply", binary("*"))

	r.Register("mix", &registry.Definition{
		Inputs: []registry.SocketDef{
			{Key: "a", Type: graph.Vec3},
			{Key: "b", Type: graph.Vec3, Default: []float64{1, 1, 1}},
			{Key: "t", Type: graph.Float, Default: 0.5},
		},
		Outputs: []registry.SocketDef{{Key: "out", Type: graph.Vec3}},
		Generate: registry.Single("out", graph.Vec3, func(_ *graph.Node, in map[string]string) string {
			return fmt.Sprintf("mix(%s, %s, %s)", in["a"], in["b"], in["t"])
		}),
	})

	r.Register("sin", &registry.Definition{
		Inputs:  []registry.SocketDef{{Key: "x", Type: graph.Float}},
		Outputs: []registry.SocketDef{{Key: "out", Type: graph.Float}},
		Generate: registry.Single("out", graph.Float, func(_ *graph.Node, in map[string]string) string {
			return fmt.Sprintf("sin(%s)", in["x"])
		}),
	})

	r.Register("length", &registry.Definition{
		Inputs:  []registry.SocketDef{{Key: "v", Type: graph.Vec2}},
		Outputs: []registry.SocketDef{{Key: "out", Type: graph.Float}},
		Generate: registry.Single("out", graph.Float, func(_ *graph.Node, in map[string]string) string {
			return fmt.Sprintf("length(%s)", in["v"])
		}),
	})

	r.Register("rotate2d", &registry.Definition{
		Inputs: []registry.SocketDef{
			{Key: "p", Type: graph.Vec2},
			{Key: "angle", Type: graph.Float, Default: 0.3},
		},
		Outputs: []registry.SocketDef{{Key: "out", Type: graph.Vec2}},
		Helper:  rotateHelper,
		Generate: registry.Single("out", graph.Vec2, func(_ *graph.Node, in map[string]string) string {
			return fmt.Sprintf("sg_rotate2d(%s, %s)", in["p"], in["angle"])
		}),
	})
}
