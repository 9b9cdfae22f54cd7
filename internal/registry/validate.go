package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/shadergrid/internal/ctxlog"
	"github.com/specialistvlad/shadergrid/internal/glsl"
	"github.com/specialistvlad/shadergrid/internal/graph"
)

// ValidateRegistry checks every definition for the mistakes that would
// otherwise only show up as broken shader text: missing generators, unknown or
// missing socket types, duplicated socket keys and defaults that cannot be
// rendered as a literal of their socket type.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, nodeType := range r.Types() {
		def := r.definitions[nodeType]
		if def.Generate == nil {
			errs = append(errs, fmt.Sprintf("node type '%s': definition has no generator", nodeType))
		}

		seen := make(map[string]struct{})
		for _, in := range def.Inputs {
			errs = append(errs, checkSocket(nodeType, "input", in, seen)...)
			if in.Default == nil {
				continue
			}
			if _, ok := glsl.Literal(in.Type, in.Default); !ok {
				errs = append(errs, fmt.Sprintf("node type '%s', input '%s': default %v cannot be rendered as %s", nodeType, in.Key, in.Default, in.Type))
			}
		}

		seen = make(map[string]struct{})
		for _, out := range def.Outputs {
			errs = append(errs, checkSocket(nodeType, "output", out, seen)...)
		}

		if nodeType == graph.TypeExpr && len(def.Inputs) > 0 {
			logger.Warn("Dynamic node type declares static inputs; they are ignored by the type checker.", "type", nodeType)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	logger.Debug("Registry validation passed.", "types", len(r.definitions))
	return nil
}

func checkSocket(nodeType, kind string, s SocketDef, seen map[string]struct{}) []string {
	var errs []string
	if s.Key == "" {
		errs = append(errs, fmt.Sprintf("node type '%s': %s with empty key", nodeType, kind))
	}
	if _, dup := seen[s.Key]; dup {
		errs = append(errs, fmt.Sprintf("node type '%s': duplicate %s '%s'", nodeType, kind, s.Key))
	}
	seen[s.Key] = struct{}{}
	if _, ok := graph.ParseSocketType(string(s.Type)); !ok {
		errs = append(errs, fmt.Sprintf("node type '%s', %s '%s': unknown socket type '%s'", nodeType, kind, s.Key, s.Type))
	}
	return errs
}
