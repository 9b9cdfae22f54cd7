// Package input provides the source nodes of a shader graph: the fragment
// coordinate, the renderer uniforms and constants.
package input

import (
	"github.com/specialistvlad/shadergrid/internal/glsl"
	"github.com/specialistvlad/shadergrid/internal/graph"
	"github.com/specialistvlad/shadergrid/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

func uniform(key string, t graph.SocketType, expr string) *registry.Definition {
	return &registry.Definition{
		Outputs: []registry.SocketDef{{Key: key, Type: t}},
		Generate: registry.Single(key, t, func(*graph.Node, map[string]string) string {
			return expr
		}),
	}
}

// constant reads the node's "value" parameter as a literal of type t.
func constant(t graph.SocketType) *registry.Definition {
	return &registry.Definition{
		Outputs: []registry.SocketDef{{Key: "value", Type: t}},
		Generate: registry.Single("value", t, func(n *graph.Node, _ map[string]string) string {
			v, _ := n.Param("value")
			lit, _ := glsl.Literal(t, v)
			return lit
		}),
	}
}

// Register registers the input node types.
func (m *Module) Register(r *registry.Registry) {
	r.Register("uv", uniform("uv", graph.Vec2, "vUv"))
	r.Register("time", uniform("time", graph.Float, "u_time"))
	r.Register("resolution", uniform("resolution", graph.Vec2, "u_resolution"))
	r.Register("mouse", uniform("mouse", graph.Vec2, "u_mouse / max(u_resolution, vec2(1.0))"))
	r.Register("float", constant(graph.Float))
	r.Register("vec3", constant(graph.Vec3))
}
