// Package loop registers the loop role nodes. Their code is produced by the
// compiler's unroller; the generators here only name the outputs so that a
// code override still knows what downstream nodes read.
package loop

import (
	"github.com/specialistvlad/shadergrid/internal/glsl"
	"github.com/specialistvlad/shadergrid/internal/graph"
	"github.com/specialistvlad/shadergrid/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

func passthrough(in, out string) registry.GenerateFunc {
	return registry.Single(out, graph.Vec2, func(_ *graph.Node, inputs map[string]string) string {
		if v, ok := inputs[in]; ok {
			return v
		}
		return glsl.Zero(graph.Vec2)
	})
}

// Register registers the loop node types.
func (m *Module) Register(r *registry.Registry) {
	// The modal loop declares no static inputs: its carry socket and type come
	// from the instance.
	r.Register(graph.TypeLoop, &registry.Definition{
		Outputs:  []registry.SocketDef{{Key: graph.KeyResult, Type: graph.Vec2}},
		Generate: passthrough(graph.KeyCarry, graph.KeyResult),
	})
	r.Register(graph.TypeLoopStart, &registry.Definition{
		Inputs:   []registry.SocketDef{{Key: graph.KeyCarry, Type: graph.Vec2}},
		Outputs:  []registry.SocketDef{{Key: graph.KeyCarry, Type: graph.Vec2}},
		Generate: passthrough(graph.KeyCarry, graph.KeyCarry),
	})
	r.Register(graph.TypeLoopEnd, &registry.Definition{
		Inputs:   []registry.SocketDef{{Key: graph.KeyCarry, Type: graph.Vec2}},
		Outputs:  []registry.SocketDef{{Key: graph.KeyResult, Type: graph.Vec2}},
		Generate: passthrough(graph.KeyCarry, graph.KeyResult),
	})
}
