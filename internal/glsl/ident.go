package glsl

import (
	"fmt"
	"regexp"
	"strings"
)

// Ident encodes an arbitrary node id into GLSL identifier characters. The
// encoding is injective: letters and digits are kept, '_' becomes "_u" and
// every other byte becomes "_x" followed by two hex digits. It never produces
// two consecutive underscores, which GLSL reserves.
func Ident(id string) string {
	var b strings.Builder
	b.Grow(len(id))
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case isAlnum(c):
			b.WriteByte(c)
		case c == '_':
			b.WriteString("_u")
		default:
			fmt.Fprintf(&b, "_x%02x", c)
		}
	}
	return b.String()
}

// cleanKey keeps only the letters and digits of a socket key.
func cleanKey(key string) string {
	var b strings.Builder
	for i := 0; i < len(key); i++ {
		if isAlnum(key[i]) {
			b.WriteByte(key[i])
		}
	}
	if b.Len() == 0 {
		return "v"
	}
	return b.String()
}

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// Prefix is the identifier prefix owned by the node with the given id.
func Prefix(nodeID string) string {
	return "n" + Ident(nodeID) + "_"
}

// Var returns the variable name for a node's value under key. Everything after
// the node's prefix is free of underscores, which keeps names of distinct
// (node, key) pairs distinct.
func Var(nodeID, key string) string {
	return Prefix(nodeID) + cleanKey(key)
}

// Loop kinds used in iteration suffixes.
const (
	ModalLoop byte = 'm'
	WiredLoop byte = 'w'
)

// IterationSuffix is appended to a body node's identifiers in one unrolled
// iteration. Modal and wired loops use different letters so both can coexist
// in one shader.
func IterationSuffix(kind byte, loopID string, iteration int) string {
	return fmt.Sprintf("_%c%s_%d", kind, Ident(loopID), iteration)
}

var identRe = regexp.MustCompile(`\b[A-Za-z_][A-Za-z0-9_]*\b`)

// Rewrite appends suffix to every identifier in code that was produced for the
// given node by Var, leaving references to other nodes, helpers and builtins
// untouched.
func Rewrite(code, nodeID, suffix string) string {
	prefix := Prefix(nodeID)
	return identRe.ReplaceAllStringFunc(code, func(tok string) string {
		rest, ok := strings.CutPrefix(tok, prefix)
		if !ok || rest == "" || strings.Contains(rest, "_") {
			return tok
		}
		return tok + suffix
	})
}
