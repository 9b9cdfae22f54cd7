// Package registry is the Definition Registry: the lookup from a node type
// tag to the fixed descriptor the compiler needs for that type.
//
// A Definition has exactly four parts: the declared input sockets, the
// declared output sockets, an optional helper-function source block shared by
// every instance, and the generator that turns a node plus its resolved input
// expressions into GLSL statements. The compiler never looks beyond these four
// parts and never mutates a registered Definition.
//
// Node libraries register themselves through the Module interface during
// startup. The registry is then validated once so that a malformed definition
// is reported as a programmer error instead of surfacing as a broken shader.
package registry
