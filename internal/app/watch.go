package app

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/shadergrid/internal/compiler"
	"github.com/specialistvlad/shadergrid/internal/ctxlog"
	"github.com/specialistvlad/shadergrid/internal/preview"
	"github.com/specialistvlad/shadergrid/internal/watch"
	"golang.org/x/sync/errgroup"
)

// Publisher receives every compilation that was not superseded.
type Publisher interface {
	Publish(ctx context.Context, payload *preview.Payload) error
}

// Watch compiles the graph, then recompiles whenever one of its files changes
// until ctx is cancelled. Every result that is still the newest one when it
// is ready is written to the configured outputs and handed to pub, which may
// be nil. The health and metrics server runs alongside when a port is set.
func (a *App) Watch(ctx context.Context, pub Publisher) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	g, gctx := errgroup.WithContext(ctx)

	if a.config.HealthcheckPort > 0 {
		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", a.config.HealthcheckPort))
		if err != nil {
			return fmt.Errorf("failed to start health check server: %w", err)
		}
		g.Go(func() error { return a.serveHealthcheck(gctx, ln) })
	} else {
		a.logger.Warn("Health check server not started: disabled")
	}

	w, err := watch.New(func(ctx context.Context, paths []string) {
		a.logger.Info("Graph files changed.", "paths", paths)
		g.Go(func() error {
			a.recompile(ctx, pub)
			return nil
		})
	}, a.config.Debounce, a.config.GraphPath)
	if err != nil {
		return err
	}
	g.Go(func() error { return w.Run(gctx) })

	g.Go(func() error {
		a.recompile(gctx, pub)
		return nil
	})

	a.logger.Info("👀 Watching graph.", "path", a.config.GraphPath)
	return g.Wait()
}

// recompile runs one compilation under a fresh generation and publishes it
// unless a newer generation was requested meanwhile.
func (a *App) recompile(ctx context.Context, pub Publisher) {
	gen := a.generation.Add(1)
	id := uuid.NewString()
	ctx = ctxlog.With(ctx, "compile_id", id, "generation", gen)
	logger := ctxlog.FromContext(ctx)

	payload := &preview.Payload{ID: id, Generation: gen}
	res, err := a.Compile(ctx)
	payload.CompiledAt = time.Now().UTC()
	if err != nil {
		logger.Error("Failed to load graph.", "error", err)
		payload.Errors = []string{err.Error()}
	} else {
		fill(payload, res)
	}

	a.publishMu.Lock()
	defer a.publishMu.Unlock()
	if gen != a.generation.Load() || gen <= a.lastPublished {
		logger.Debug("Dropping stale compilation.", "latest", a.generation.Load())
		a.metrics.staleDropped.Inc()
		return
	}
	a.lastPublished = gen

	if res != nil && res.Success && (a.config.OutputPath != "" || a.config.VertexOutputPath != "") {
		if err := a.writeShaders(ctx, res); err != nil {
			logger.Error("Failed to write shaders.", "error", err)
		}
	}
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, payload); err != nil {
		logger.Error("Failed to publish compilation.", "error", err)
		return
	}
	a.metrics.published.Inc()
}

func fill(p *preview.Payload, res *compiler.Result) {
	p.Success = res.Success
	p.VertexShader = res.VertexShader
	p.FragmentShader = res.FragmentShader
	p.Errors = res.Messages()
	p.NodeOutputVars = res.NodeOutputVars
}
