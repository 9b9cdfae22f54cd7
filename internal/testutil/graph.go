package testutil

import (
	"strings"

	"github.com/specialistvlad/shadergrid/internal/graph"
)

// NodeOption configures a node built by Node.
type NodeOption func(*graph.Node)

// Node builds a node with the given id and type tag.
func Node(id, nodeType string, opts ...NodeOption) *graph.Node {
	n := &graph.Node{ID: id, Type: nodeType, Params: map[string]any{}}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// From connects input key to ref, written as "<node>.<output>". The last dot
// separates the node id from the output key.
func From(key, ref string) NodeOption {
	return func(n *graph.Node) {
		i := strings.LastIndex(ref, ".")
		input(n, key).Connection = &graph.Connection{NodeID: ref[:i], OutputKey: ref[i+1:]}
	}
}

// In declares input key with an instance type and default.
func In(key string, t graph.SocketType, def any) NodeOption {
	return func(n *graph.Node) {
		s := input(n, key)
		s.Type = t
		s.Default = def
	}
}

// Out declares output key with an instance type.
func Out(key string, t graph.SocketType) NodeOption {
	return func(n *graph.Node) {
		for _, o := range n.Outputs {
			if o.Key == key {
				o.Type = t
				return
			}
		}
		n.Outputs = append(n.Outputs, &graph.OutputSocket{Key: key, Type: t})
	}
}

// Param sets a node parameter.
func Param(key string, v any) NodeOption {
	return func(n *graph.Node) { n.Params[key] = v }
}

// Bypass marks the node as bypassed.
func Bypass() NodeOption {
	return func(n *graph.Node) { n.Bypass = true }
}

// Code sets a literal code override.
func Code(code string) NodeOption {
	return func(n *graph.Node) { n.CodeOverride = code }
}

func input(n *graph.Node, key string) *graph.InputSocket {
	if s, ok := n.Input(key); ok {
		return s
	}
	s := &graph.InputSocket{Key: key}
	n.Inputs = append(n.Inputs, s)
	return s
}
