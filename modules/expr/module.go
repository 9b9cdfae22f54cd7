// Package expr registers the free-form expression node. Its sockets are
// declared per instance and its "expr" parameter is a GLSL expression in which
// {key} stands for the input with that key.
package expr

import (
	"github.com/specialistvlad/shadergrid/internal/glsl"
	"github.com/specialistvlad/shadergrid/internal/graph"
	"github.com/specialistvlad/shadergrid/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// ParamExpr is the parameter holding the expression template.
const ParamExpr = "expr"

const defaultOutput = "out"

// Generate expands the template once per instance output. The first output
// gets the template itself; further outputs read a parameter named after
// their key. An output without a template is the zero literal of its type.
func Generate(n *graph.Node, inputs map[string]string) registry.Generated {
	outputs := n.Outputs
	if len(outputs) == 0 {
		outputs = []*graph.OutputSocket{{Key: defaultOutput, Type: graph.Float}}
	}

	var code string
	vars := make(map[string]string, len(outputs))
	for i, o := range outputs {
		t := o.Type
		if t == "" {
			t = graph.Float
		}
		name := glsl.Var(n.ID, o.Key)

		template, _ := n.StringParam(ParamExpr)
		if i > 0 {
			template, _ = n.StringParam(o.Key)
		}
		expr := glsl.Expand(template, inputs)
		if template == "" {
			expr = glsl.Zero(t)
		}
		if code != "" {
			code += "\n"
		}
		code += registry.Declare(t, name, expr)
		vars[o.Key] = name
	}
	return registry.Generated{Code: code, Outputs: vars}
}

// Register registers the expr node type.
func (m *Module) Register(r *registry.Registry) {
	r.Register(graph.TypeExpr, &registry.Definition{
		Outputs:  []registry.SocketDef{{Key: defaultOutput, Type: graph.Float}},
		Generate: Generate,
	})
}
