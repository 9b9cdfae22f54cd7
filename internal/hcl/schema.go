package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes every top-level block a file may contain.
type fileRoot struct {
	Nodes     []*nodeBlock     `hcl:"node,block"`
	NodeTypes []*nodeTypeBlock `hcl:"node_type,block"`
	Remain    hcl.Body         `hcl:",remain"`
}

type nodeBlock struct {
	ID      string         `hcl:"id,label"`
	Type    string         `hcl:"type"`
	Bypass  *bool          `hcl:"bypass,optional"`
	Code    *string        `hcl:"code,optional"`
	Params  hcl.Expression `hcl:"params,optional"`
	Inputs  []*inputBlock  `hcl:"input,block"`
	Outputs []*outputBlock `hcl:"output,block"`
}

type inputBlock struct {
	Key     string         `hcl:"key,label"`
	Type    hcl.Expression `hcl:"type,optional"`
	Default hcl.Expression `hcl:"default,optional"`
	From    hcl.Expression `hcl:"from,optional"`
}

type outputBlock struct {
	Key        string         `hcl:"key,label"`
	Type       hcl.Expression `hcl:"type,optional"`
	Expression *string        `hcl:"expression,optional"`
}

type nodeTypeBlock struct {
	Name        string         `hcl:"name,label"`
	Description *string        `hcl:"description,optional"`
	Helper      *string        `hcl:"helper,optional"`
	Inputs      []*inputBlock  `hcl:"input,block"`
	Outputs     []*outputBlock `hcl:"output,block"`
}
