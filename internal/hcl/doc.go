// Package hcl loads shader graphs and custom node types from HCL files.
//
// A graph file is a list of node blocks:
//
//	node "rot" {
//	  type   = "rotate2d"
//	  params = { iterations = 8 }
//
//	  input "p" {
//	    from = start.carry
//	  }
//	  input "angle" {
//	    type    = float
//	    default = 0.4
//	  }
//	  output "out" {
//	    type = vec3
//	  }
//	}
//
// Manifest files declare node types whose code is a GLSL expression template:
//
//	node_type "invert" {
//	  input "c" {
//	    type    = vec3
//	    default = [1, 1, 1]
//	  }
//	  output "out" {
//	    type       = vec3
//	    expression = "vec3(1.0) - {c}"
//	  }
//	}
package hcl
