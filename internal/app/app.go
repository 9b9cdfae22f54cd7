package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/specialistvlad/shadergrid/internal/compiler"
	"github.com/specialistvlad/shadergrid/internal/ctxlog"
	"github.com/specialistvlad/shadergrid/internal/hcl"
	"github.com/specialistvlad/shadergrid/internal/registry"
	builtin "github.com/specialistvlad/shadergrid/modules"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	loader   *hcl.Loader
	registry *registry.Registry
	compiler *compiler.Compiler
	metrics  *metrics

	// generation is bumped for every requested compilation.
	generation atomic.Uint64
	// publishMu serialises publishing; lastPublished only grows.
	publishMu     sync.Mutex
	lastPublished uint64
}

// NewApp builds an App. Shader text goes to outW, logs to logW. The registry
// holds the given modules (the core modules when none are given) plus every
// node type declared in the configured manifests.
func NewApp(outW, logW io.Writer, cfg *Config, modules ...registry.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	loader := hcl.NewLoader()
	var manifests []*hcl.NodeType
	if len(cfg.ManifestPaths) > 0 {
		doc, err := loader.Load(ctx, cfg.ManifestPaths...)
		if err != nil {
			return nil, fmt.Errorf("failed to load node type manifests: %w", err)
		}
		if len(doc.Graph.Nodes) > 0 {
			logger.Warn("Ignoring node blocks in manifest files.", "count", len(doc.Graph.Nodes))
		}
		manifests = doc.NodeTypes
	}

	if len(modules) == 0 {
		modules = builtin.Core()
	}
	reg := registry.New(modules...)
	logger.Debug("All Go modules registered.", "count", len(modules), "types", reg.Len())

	seen := make(map[string]struct{}, len(manifests))
	for _, nt := range manifests {
		if _, ok := reg.Lookup(nt.Name); ok {
			return nil, fmt.Errorf("node type manifest %q conflicts with a built-in node type", nt.Name)
		}
		if _, dup := seen[nt.Name]; dup {
			return nil, fmt.Errorf("node type %q is declared more than once", nt.Name)
		}
		seen[nt.Name] = struct{}{}
	}
	(&hcl.Module{Types: manifests}).Register(reg)
	logger.Debug("Manifest node types registered.", "count", len(manifests))

	if err := reg.ValidateRegistry(ctx); err != nil {
		return nil, err
	}
	logger.Debug("Registry validation passed.")

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		loader:   loader,
		registry: reg,
		compiler: compiler.New(reg, compiler.WithLogger(logger)),
		metrics:  newMetrics(),
	}, nil
}

// Registry returns the application's registry.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Context returns parent with the app's logger attached.
func (a *App) Context(parent context.Context) context.Context {
	return ctxlog.WithLogger(parent, a.logger)
}
