package testutil

import (
	"context"
	"testing"

	"github.com/specialistvlad/shadergrid/internal/graph"
	"github.com/specialistvlad/shadergrid/internal/registry"
	"github.com/specialistvlad/shadergrid/modules"
	"github.com/stretchr/testify/require"
)

// Registry returns a validated registry holding the built-in node types plus
// any extra modules.
func Registry(t *testing.T, extra ...registry.Module) *registry.Registry {
	t.Helper()
	reg := registry.New(append(modules.Core(), extra...)...)
	require.NoError(t, reg.ValidateRegistry(context.Background()))
	return reg
}

// SimpleModule registers a single definition under Name.
type SimpleModule struct {
	Name       string
	Definition *registry.Definition
}

// Register implements the registry.Module interface.
func (m *SimpleModule) Register(r *registry.Registry) {
	r.Register(m.Name, m.Definition)
}

// Passthrough is a one-input, one-output definition of type t that copies
// its input, useful as a neutral body node.
func Passthrough(t graph.SocketType) *registry.Definition {
	return &registry.Definition{
		Inputs:  []registry.SocketDef{{Key: "in", Type: t}},
		Outputs: []registry.SocketDef{{Key: "out", Type: t}},
		Generate: registry.Single("out", t, func(_ *graph.Node, in map[string]string) string {
			return in["in"]
		}),
	}
}
