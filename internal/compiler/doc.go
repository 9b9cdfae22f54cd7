// Package compiler turns a shader graph into GLSL source text.
//
// Compilation is a fixed pipeline over an immutable graph.Graph:
//
//	ResolveLoops → Validate → Sort → Generate
//
// ResolveLoops finds the nodes that only exist inside unrolled loop bodies,
// either listed on a modal "loop" node or implied by the wiring between a
// "loopStart"/"loopEnd" pair. Validate and Sort work on the remaining visible
// nodes. Generate walks the sorted nodes once, unrolling loop bodies in place,
// and assembles the fragment shader.
//
// A Compiler holds no state between calls. The same graph always produces the
// same bytes: helper functions are emitted in first-seen order and every
// variable name is derived from a node id, an output key and, inside loops, the
// loop id and iteration index.
package compiler
