package compiler

import "fmt"

// Kind classifies a compilation error.
type Kind int

const (
	// StructuralError covers missing or duplicate output nodes, unknown node
	// types and malformed loop declarations.
	StructuralError Kind = iota + 1
	// ConnectionError covers dangling connections and missing source outputs.
	ConnectionError
	// TypeError covers incompatible socket types.
	TypeError
	// CycleError is reported when the visible graph is not acyclic.
	CycleError
	// InternalError wraps any unexpected failure during compilation.
	InternalError
)

func (k Kind) String() string {
	switch k {
	case StructuralError:
		return "structural"
	case ConnectionError:
		return "connection"
	case TypeError:
		return "type"
	case CycleError:
		return "cycle"
	case InternalError:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is a single compilation diagnostic. Message is meant to be shown to
// the user verbatim.
type Error struct {
	Kind    Kind
	NodeID  string
	Input   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, nodeID, input, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		NodeID:  nodeID,
		Input:   input,
		Message: fmt.Sprintf(format, args...),
	}
}
