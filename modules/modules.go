// Package modules lists the node libraries compiled into the shadergrid
// binary. Each subpackage registers one family of node types.
package modules

import (
	"github.com/specialistvlad/shadergrid/internal/registry"
	"github.com/specialistvlad/shadergrid/modules/color"
	"github.com/specialistvlad/shadergrid/modules/expr"
	"github.com/specialistvlad/shadergrid/modules/input"
	"github.com/specialistvlad/shadergrid/modules/loop"
	"github.com/specialistvlad/shadergrid/modules/mathops"
	"github.com/specialistvlad/shadergrid/modules/noise"
	"github.com/specialistvlad/shadergrid/modules/output"
)

// Core returns the built-in node libraries.
func Core() []registry.Module {
	return []registry.Module{
		&input.Module{},
		&mathops.Module{},
		&noise.Module{},
		&color.Module{},
		&loop.Module{},
		&expr.Module{},
		&output.Module{},
	}
}
