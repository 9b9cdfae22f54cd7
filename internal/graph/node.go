package graph

// Connection points an input socket at the node and output key feeding it.
type Connection struct {
	NodeID    string
	OutputKey string
}

// InputSocket is a named, typed input slot. Default is either a float64 or a
// []float64 and is used when the socket is not connected.
type InputSocket struct {
	Key        string
	Type       SocketType
	Default    any
	Connection *Connection
}

// Connected reports whether the socket has an incoming connection.
func (s *InputSocket) Connected() bool {
	return s != nil && s.Connection != nil
}

// OutputSocket is a named output slot. A non-empty Type overrides the type
// declared by the node's definition.
type OutputSocket struct {
	Key  string
	Type SocketType
}

// Node is a single computation in the graph.
type Node struct {
	ID     string
	Type   string
	Params map[string]any

	Inputs  []*InputSocket
	Outputs []*OutputSocket

	// Bypass turns the node into a typed pass-through.
	Bypass bool
	// CodeOverride, when set, is emitted verbatim instead of the generated code.
	CodeOverride string
}

// Input returns the input socket with the given key.
func (n *Node) Input(key string) (*InputSocket, bool) {
	for _, in := range n.Inputs {
		if in.Key == key {
			return in, true
		}
	}
	return nil, false
}

// Output returns the output socket with the given key.
func (n *Node) Output(key string) (*OutputSocket, bool) {
	for _, out := range n.Outputs {
		if out.Key == key {
			return out, true
		}
	}
	return nil, false
}

// FirstConnected returns the first input socket, in declaration order, that
// has a connection.
func (n *Node) FirstConnected() (*InputSocket, bool) {
	for _, in := range n.Inputs {
		if in.Connected() {
			return in, true
		}
	}
	return nil, false
}

// Param returns a raw parameter value.
func (n *Node) Param(key string) (any, bool) {
	if n.Params == nil {
		return nil, false
	}
	v, ok := n.Params[key]
	return v, ok
}

// NumberParam returns a numeric parameter. Integer-valued Go types are accepted
// alongside float64 since callers build params by hand as often as they load
// them from files.
func (n *Node) NumberParam(key string) (float64, bool) {
	v, ok := n.Param(key)
	if !ok {
		return 0, false
	}
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	default:
		return 0, false
	}
}

// StringParam returns a string parameter.
func (n *Node) StringParam(key string) (string, bool) {
	v, ok := n.Param(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// StringListParam returns a list-of-strings parameter. Both []string and
// []any holding strings are accepted.
func (n *Node) StringListParam(key string) ([]string, bool) {
	v, ok := n.Param(key)
	if !ok {
		return nil, false
	}
	switch x := v.(type) {
	case []string:
		return x, true
	case []any:
		out := make([]string, 0, len(x))
		for _, e := range x {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}
