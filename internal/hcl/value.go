package hcl

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/shadergrid/internal/graph"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// isExprDefined reports whether an optional attribute was written in the
// file. gohcl fills missing optional expressions with a static null.
func isExprDefined(expr hcl.Expression) bool {
	if expr == nil {
		return false
	}
	if _, ok := expr.(*hclsyntax.ScopeTraversalExpr); ok {
		return true
	}
	val, diags := expr.Value(nil)
	return diags.HasErrors() || !val.IsNull()
}

// ctyValueToInterface converts a cty value into plain Go values: numbers
// become float64, lists and tuples []any, objects and maps map[string]any.
func ctyValueToInterface(val cty.Value) (any, error) {
	if !val.IsKnown() || val.IsNull() {
		return nil, nil
	}
	ty := val.Type()
	if ty.IsPrimitiveType() {
		switch ty {
		case cty.String:
			return val.AsString(), nil
		case cty.Number:
			f, _ := val.AsBigFloat().Float64()
			return f, nil
		case cty.Bool:
			return val.True(), nil
		default:
			return nil, fmt.Errorf("unsupported primitive type: %s", ty.FriendlyName())
		}
	}
	if ty.IsObjectType() || ty.IsMapType() {
		out := make(map[string]any)
		for it := val.ElementIterator(); it.Next(); {
			k, v := it.Element()
			inner, err := ctyValueToInterface(v)
			if err != nil {
				return nil, err
			}
			out[k.AsString()] = inner
		}
		return out, nil
	}
	if ty.IsTupleType() || ty.IsListType() || ty.IsSetType() {
		out := make([]any, 0, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			_, v := it.Element()
			inner, err := ctyValueToInterface(v)
			if err != nil {
				return nil, err
			}
			out = append(out, inner)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported cty.Type for conversion: %s", ty.FriendlyName())
}

// evalParams evaluates a node's params attribute into a map.
func evalParams(expr hcl.Expression) (map[string]any, error) {
	if !isExprDefined(expr) {
		return map[string]any{}, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	if !val.Type().IsObjectType() && !val.Type().IsMapType() {
		return nil, fmt.Errorf("params must be an object, got %s", val.Type().FriendlyName())
	}
	raw, err := ctyValueToInterface(val)
	if err != nil {
		return nil, err
	}
	params, _ := raw.(map[string]any)
	if params == nil {
		params = map[string]any{}
	}
	return params, nil
}

// evalDefault decodes a socket default: a number becomes float64, a list of
// numbers []float64.
func evalDefault(expr hcl.Expression) (any, error) {
	if !isExprDefined(expr) {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return nil, nil
	}

	if num, err := convert.Convert(val, cty.Number); err == nil {
		var f float64
		if err := gocty.FromCtyValue(num, &f); err != nil {
			return nil, err
		}
		return f, nil
	}

	list, err := convert.Convert(val, cty.List(cty.Number))
	if err != nil {
		return nil, fmt.Errorf("default must be a number or a list of numbers, got %s", val.Type().FriendlyName())
	}
	var comps []float64
	if err := gocty.FromCtyValue(list, &comps); err != nil {
		return nil, err
	}
	if len(comps) > 4 {
		return nil, fmt.Errorf("default has %d components, at most 4 are allowed", len(comps))
	}
	return comps, nil
}

// socketType reads a socket type written either as a bare keyword (vec3) or
// as a string ("vec3"). A missing type yields the empty type.
func socketType(expr hcl.Expression) (graph.SocketType, error) {
	if !isExprDefined(expr) {
		return "", nil
	}

	var keyword string
	if trav, ok := expr.(*hclsyntax.ScopeTraversalExpr); ok {
		if len(trav.Traversal) != 1 {
			return "", fmt.Errorf("invalid type keyword: traversal path is not a single identifier")
		}
		keyword = trav.Traversal.RootName()
	} else {
		val, diags := expr.Value(nil)
		if diags.HasErrors() {
			return "", diags
		}
		if !val.Type().Equals(cty.String) {
			return "", fmt.Errorf("socket type must be a keyword or a string, got %s", val.Type().FriendlyName())
		}
		keyword = val.AsString()
	}

	t, ok := graph.ParseSocketType(keyword)
	if !ok {
		return "", fmt.Errorf("unknown socket type %q", keyword)
	}
	return t, nil
}

// connection reads the from attribute of an input. It is either a reference
// such as start.carry or a string "start.carry"; the last dot separates the
// node id from the output key.
func connection(expr hcl.Expression) (*graph.Connection, error) {
	if !isExprDefined(expr) {
		return nil, nil
	}

	if trav, diags := hcl.AbsTraversalForExpr(expr); !diags.HasErrors() {
		if len(trav) != 2 {
			return nil, fmt.Errorf("reference must have the form <node>.<output>")
		}
		attr, ok := trav[1].(hcl.TraverseAttr)
		if !ok {
			return nil, fmt.Errorf("reference must have the form <node>.<output>")
		}
		return &graph.Connection{NodeID: trav.RootName(), OutputKey: attr.Name}, nil
	}

	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	if !val.Type().Equals(cty.String) || val.IsNull() {
		return nil, fmt.Errorf("from must be a reference or a string, got %s", val.Type().FriendlyName())
	}
	s := val.AsString()
	i := strings.LastIndex(s, ".")
	if i <= 0 || i == len(s)-1 {
		return nil, fmt.Errorf("invalid connection %q: expected <node>.<output>", s)
	}
	return &graph.Connection{NodeID: s[:i], OutputKey: s[i+1:]}, nil
}
