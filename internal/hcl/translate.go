package hcl

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/shadergrid/internal/ctxlog"
	"github.com/specialistvlad/shadergrid/internal/glsl"
	"github.com/specialistvlad/shadergrid/internal/graph"
	"github.com/specialistvlad/shadergrid/internal/registry"
)

// translateNode converts a node block into a graph node.
func translateNode(ctx context.Context, b *nodeBlock) (*graph.Node, error) {
	logger := ctxlog.FromContext(ctx).With("node", b.ID, "type", b.Type)
	logger.Debug("Translating node block.")

	params, err := evalParams(b.Params)
	if err != nil {
		return nil, fmt.Errorf("node %q: %w", b.ID, err)
	}

	n := &graph.Node{ID: b.ID, Type: b.Type, Params: params}
	if b.Bypass != nil {
		n.Bypass = *b.Bypass
	}
	if b.Code != nil {
		n.CodeOverride = *b.Code
	}

	seen := make(map[string]struct{})
	for _, ib := range b.Inputs {
		if _, dup := seen[ib.Key]; dup {
			return nil, fmt.Errorf("node %q: duplicate input %q", b.ID, ib.Key)
		}
		seen[ib.Key] = struct{}{}

		in, err := translateInput(ib)
		if err != nil {
			return nil, fmt.Errorf("node %q, input %q: %w", b.ID, ib.Key, err)
		}
		n.Inputs = append(n.Inputs, in)
	}

	seen = make(map[string]struct{})
	for _, ob := range b.Outputs {
		if _, dup := seen[ob.Key]; dup {
			return nil, fmt.Errorf("node %q: duplicate output %q", b.ID, ob.Key)
		}
		seen[ob.Key] = struct{}{}

		t, err := socketType(ob.Type)
		if err != nil {
			return nil, fmt.Errorf("node %q, output %q: %w", b.ID, ob.Key, err)
		}
		if ob.Expression != nil {
			logger.Warn("Ignoring expression on a graph node output.", "output", ob.Key)
		}
		n.Outputs = append(n.Outputs, &graph.OutputSocket{Key: ob.Key, Type: t})
	}
	return n, nil
}

func translateInput(b *inputBlock) (*graph.InputSocket, error) {
	t, err := socketType(b.Type)
	if err != nil {
		return nil, err
	}
	def, err := evalDefault(b.Default)
	if err != nil {
		return nil, err
	}
	conn, err := connection(b.From)
	if err != nil {
		return nil, err
	}
	return &graph.InputSocket{Key: b.Key, Type: t, Default: def, Connection: conn}, nil
}

// NodeType is a custom node type declared in a manifest.
type NodeType struct {
	Name        string
	Description string
	Definition  *registry.Definition
}

// translateNodeType builds a template definition from a node_type block.
// Every output carries an expression in which {key} stands for the input with
// that key.
func translateNodeType(ctx context.Context, b *nodeTypeBlock) (*NodeType, error) {
	logger := ctxlog.FromContext(ctx).With("node_type", b.Name)
	logger.Debug("Translating node_type block.")

	if strings.TrimSpace(b.Name) == "" {
		return nil, fmt.Errorf("node_type must have a name")
	}

	def := &registry.Definition{}
	if b.Helper != nil {
		def.Helper = *b.Helper
	}
	for _, ib := range b.Inputs {
		t, err := socketType(ib.Type)
		if err != nil {
			return nil, fmt.Errorf("node_type %q, input %q: %w", b.Name, ib.Key, err)
		}
		if t == "" {
			return nil, fmt.Errorf("node_type %q, input %q: type is required", b.Name, ib.Key)
		}
		if isExprDefined(ib.From) {
			return nil, fmt.Errorf("node_type %q, input %q: from is only allowed on graph nodes", b.Name, ib.Key)
		}
		value, err := evalDefault(ib.Default)
		if err != nil {
			return nil, fmt.Errorf("node_type %q, input %q: %w", b.Name, ib.Key, err)
		}
		def.Inputs = append(def.Inputs, registry.SocketDef{Key: ib.Key, Type: t, Default: value})
	}

	templates := make(map[string]string, len(b.Outputs))
	for _, ob := range b.Outputs {
		t, err := socketType(ob.Type)
		if err != nil {
			return nil, fmt.Errorf("node_type %q, output %q: %w", b.Name, ob.Key, err)
		}
		if t == "" {
			return nil, fmt.Errorf("node_type %q, output %q: type is required", b.Name, ob.Key)
		}
		if ob.Expression == nil || strings.TrimSpace(*ob.Expression) == "" {
			return nil, fmt.Errorf("node_type %q, output %q: expression is required", b.Name, ob.Key)
		}
		def.Outputs = append(def.Outputs, registry.SocketDef{Key: ob.Key, Type: t})
		templates[ob.Key] = *ob.Expression
	}
	def.Generate = templateGenerator(def.Outputs, templates)

	nt := &NodeType{Name: b.Name, Definition: def}
	if b.Description != nil {
		nt.Description = *b.Description
	}
	return nt, nil
}

// templateGenerator declares one variable per output from its expression
// template.
func templateGenerator(outputs []registry.SocketDef, templates map[string]string) registry.GenerateFunc {
	return func(n *graph.Node, inputs map[string]string) registry.Generated {
		lines := make([]string, 0, len(outputs))
		vars := make(map[string]string, len(outputs))
		for _, o := range outputs {
			t := o.Type
			if inst, ok := n.Output(o.Key); ok && inst.Type != "" {
				t = inst.Type
			}
			name := glsl.Var(n.ID, o.Key)
			lines = append(lines, registry.Declare(t, name, glsl.Expand(templates[o.Key], inputs)))
			vars[o.Key] = name
		}
		return registry.Generated{Code: strings.Join(lines, "\n"), Outputs: vars}
	}
}

// Module registers manifest node types next to the built-in ones.
type Module struct {
	Types []*NodeType
}

// Register registers every manifest node type.
func (m *Module) Register(r *registry.Registry) {
	for _, nt := range m.Types {
		r.Register(nt.Name, nt.Definition)
	}
}
