package registry

import (
	"fmt"

	"github.com/specialistvlad/shadergrid/internal/glsl"
	"github.com/specialistvlad/shadergrid/internal/graph"
)

// SocketDef declares one socket of a node type. Default is only meaningful for
// inputs and follows the same rules as graph.InputSocket.Default.
type SocketDef struct {
	Key     string
	Type    graph.SocketType
	Default any
}

// Generated is what a generator returns: the GLSL statements for one node and
// the variable each output key was written to.
type Generated struct {
	Code    string
	Outputs map[string]string
}

// GenerateFunc produces code for node n. inputs maps every input socket key to
// an expression that can be emitted as-is.
type GenerateFunc func(n *graph.Node, inputs map[string]string) Generated

// Definition is the four-part descriptor of a node type.
type Definition struct {
	Inputs   []SocketDef
	Outputs  []SocketDef
	Helper   string
	Generate GenerateFunc
}

// Input returns the declared input with the given key.
func (d *Definition) Input(key string) (SocketDef, bool) {
	for _, s := range d.Inputs {
		if s.Key == key {
			return s, true
		}
	}
	return SocketDef{}, false
}

// Output returns the declared output with the given key.
func (d *Definition) Output(key string) (SocketDef, bool) {
	for _, s := range d.Outputs {
		if s.Key == key {
			return s, true
		}
	}
	return SocketDef{}, false
}

// Declare renders a single variable declaration statement.
func Declare(t graph.SocketType, name, expr string) string {
	return fmt.Sprintf("%s %s = %s;", t, name, expr)
}

// Single builds the common generator for a node with one output computed from
// a single expression. build receives the resolved inputs and returns the
// right-hand side.
func Single(outKey string, outType graph.SocketType, build func(n *graph.Node, in map[string]string) string) GenerateFunc {
	return func(n *graph.Node, in map[string]string) Generated {
		name := glsl.Var(n.ID, outKey)
		t := outType
		if o, ok := n.Output(outKey); ok && o.Type != "" {
			t = o.Type
		}
		return Generated{
			Code:    Declare(t, name, build(n, in)),
			Outputs: map[string]string{outKey: name},
		}
	}
}
