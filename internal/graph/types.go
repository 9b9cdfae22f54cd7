package graph

// SocketType is the GLSL type carried by a socket.
type SocketType string

const (
	Float SocketType = "float"
	Vec2  SocketType = "vec2"
	Vec3  SocketType = "vec3"
	Vec4  SocketType = "vec4"
	Int   SocketType = "int"
	Bool  SocketType = "bool"
)

// Components returns the number of float components of t, or 0 when t is not
// part of the float/vector family.
func (t SocketType) Components() int {
	switch t {
	case Float:
		return 1
	case Vec2:
		return 2
	case Vec3:
		return 3
	case Vec4:
		return 4
	default:
		return 0
	}
}

// IsVector reports whether t is one of vec2, vec3 or vec4.
func (t SocketType) IsVector() bool {
	return t.Components() > 1
}

// VectorOf returns the float/vector type with n components.
func VectorOf(n int) (SocketType, bool) {
	switch n {
	case 1:
		return Float, true
	case 2:
		return Vec2, true
	case 3:
		return Vec3, true
	case 4:
		return Vec4, true
	default:
		return "", false
	}
}

// ParseSocketType maps a type keyword to a SocketType.
func ParseSocketType(s string) (SocketType, bool) {
	switch t := SocketType(s); t {
	case Float, Vec2, Vec3, Vec4, Int, Bool:
		return t, true
	default:
		return "", false
	}
}

// Well-known node type tags with a role in compilation.
const (
	TypeOutput    = "output"
	TypeLoop      = "loop"
	TypeLoopStart = "loopStart"
	TypeLoopEnd   = "loopEnd"
	TypeExpr      = "expr"
)

// Socket and parameter keys shared by the loop roles.
const (
	KeyCarry      = "carry"
	KeyResult     = "result"
	ParamBody     = "body"
	ParamIters    = "iterations"
	ParamLiterals = "literals"
)
