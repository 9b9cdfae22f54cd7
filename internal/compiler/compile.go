package compiler

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/specialistvlad/shadergrid/internal/graph"
	"github.com/specialistvlad/shadergrid/internal/registry"
)

// Result is the outcome of one compilation. It is always complete: on failure
// Success is false, the shaders are empty and Errors explains why.
type Result struct {
	VertexShader   string
	FragmentShader string
	Success        bool
	Errors         []*Error
	// NodeOutputVars maps node id → output key → generated variable name for
	// every node compiled outside a loop body.
	NodeOutputVars map[string]map[string]string
}

// Messages returns the error messages in order.
func (r *Result) Messages() []string {
	out := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		out = append(out, e.Message)
	}
	return out
}

func failure(errs ...*Error) *Result {
	return &Result{
		Errors:         errs,
		NodeOutputVars: map[string]map[string]string{},
	}
}

// Compiler compiles graphs against a fixed registry.
type Compiler struct {
	reg    *registry.Registry
	logger *slog.Logger
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a compiler for the node types in reg.
func New(reg *registry.Registry, opts ...Option) *Compiler {
	c := &Compiler{reg: reg, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile is a shorthand for New(reg).Compile(g).
func Compile(g *graph.Graph, reg *registry.Registry) *Result {
	return New(reg).Compile(g)
}

// Compile runs the full pipeline on g. It never panics and never returns nil;
// an unexpected failure is reported as a single InternalError.
func (c *Compiler) Compile(g *graph.Graph) (res *Result) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Compilation panicked.", "panic", r)
			res = failure(newError(InternalError, "", "", "Internal compiler error: %v", r))
		}
	}()

	if g == nil {
		g = graph.New()
	}

	regions, err := ResolveLoops(g)
	if err != nil {
		return failure(asError(err))
	}
	c.logger.Debug("Loop regions resolved.", "internal", len(regions.Internal), "modal", len(regions.Modal), "wired", len(regions.Chains))

	errs := validateStructure(g, c.reg, regions)
	errs = append(errs, Validate(g, c.reg, regions.Internal)...)
	if len(errs) > 0 {
		c.logger.Debug("Validation failed.", "errors", len(errs))
		return failure(errs...)
	}

	sorted, err := Sort(g, regions.Internal, regions.Pairs)
	if err != nil {
		c.logger.Debug("Sorting failed.", "error", err)
		return failure(asError(err))
	}

	fragment, vars, err := generate(sorted, g, c.reg, regions, c.logger)
	if err != nil {
		return failure(asError(err))
	}

	c.logger.Debug("Compilation finished.", "nodes", len(sorted), "bytes", len(fragment), "duration", time.Since(start))
	return &Result{
		VertexShader:   VertexShader,
		FragmentShader: fragment,
		Success:        true,
		NodeOutputVars: vars,
	}
}

// asError keeps compiler errors as they are and wraps anything else as an
// InternalError.
func asError(err error) *Error {
	if e, ok := err.(*Error); ok {
		return e
	}
	return newError(InternalError, "", "", "Internal compiler error: %s", fmt.Sprint(err))
}
