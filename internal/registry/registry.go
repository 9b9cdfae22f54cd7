package registry

import (
	"fmt"
	"log/slog"
	"sort"
)

// Module is the interface that every node library implements to register its
// node types.
type Module interface {
	Register(r *Registry)
}

// Registry holds the definitions for a single application instance.
type Registry struct {
	definitions map[string]*Definition
}

// New creates a registry and registers the given modules into it.
func New(modules ...Module) *Registry {
	r := &Registry{definitions: make(map[string]*Definition)}
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// Register adds the definition for a node type. Registering the same type tag
// twice is a programmer error and panics.
func (r *Registry) Register(nodeType string, def *Definition) {
	if _, exists := r.definitions[nodeType]; exists {
		panic(fmt.Sprintf("node type '%s' already registered", nodeType))
	}
	slog.Debug("Registering node type.", "type", nodeType, "inputs", len(def.Inputs), "outputs", len(def.Outputs))
	r.definitions[nodeType] = def
}

// Lookup returns the definition for a node type.
func (r *Registry) Lookup(nodeType string) (*Definition, bool) {
	def, ok := r.definitions[nodeType]
	return def, ok
}

// Types returns every registered type tag, sorted.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.definitions))
	for t := range r.definitions {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Len returns the number of registered node types.
func (r *Registry) Len() int {
	return len(r.definitions)
}
