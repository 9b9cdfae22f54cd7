// Package output registers the terminal node of every graph.
package output

import (
	"fmt"

	"github.com/specialistvlad/shadergrid/internal/graph"
	"github.com/specialistvlad/shadergrid/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the output node type.
func (m *Module) Register(r *registry.Registry) {
	r.Register(graph.TypeOutput, &registry.Definition{
		Inputs: []registry.SocketDef{{Key: "color", Type: graph.Vec3}},
		Generate: func(_ *graph.Node, in map[string]string) registry.Generated {
			return registry.Generated{
				Code:    fmt.Sprintf("gl_FragColor = vec4(%s, 1.0);", in["color"]),
				Outputs: map[string]string{},
			}
		},
	})
}
