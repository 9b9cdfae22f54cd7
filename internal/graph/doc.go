// Package graph holds the data model of a shader graph: nodes, their typed
// input and output sockets, and the connections between them.
//
// A Graph has no separate edge list. Edges are implied by the Connection on
// each input socket, pointing back at the node and output key that feeds it.
// The order of Graph.Nodes is the enumeration order, and every consumer that
// needs a deterministic walk (sorting, code generation) relies on it.
//
// Socket collections on a Node are ordered slices rather than maps so that
// "the first connected input" is a stable notion across runs.
package graph
