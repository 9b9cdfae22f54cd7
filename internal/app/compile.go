package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/specialistvlad/shadergrid/internal/compiler"
	"github.com/specialistvlad/shadergrid/internal/ctxlog"
)

// ErrCompileFailed is returned by Run when the graph loads but does not
// compile.
var ErrCompileFailed = errors.New("compilation failed")

// Compile loads the configured graph and compiles it. The error is only set
// when the graph files cannot be read or parsed; compile diagnostics are in the
// result.
func (a *App) Compile(ctx context.Context) (*compiler.Result, error) {
	logger := ctxlog.FromContext(ctx)
	start := time.Now()
	defer func() { a.metrics.compileDuration.Observe(time.Since(start).Seconds()) }()

	doc, err := a.loader.Load(ctx, a.config.GraphPath)
	if err != nil {
		a.metrics.compilations.WithLabelValues("load_error").Inc()
		return nil, fmt.Errorf("failed to load graph: %w", err)
	}
	if len(doc.NodeTypes) > 0 {
		logger.Warn("Ignoring node_type blocks in graph files; list them under manifests.", "count", len(doc.NodeTypes))
	}
	logger.Debug("Graph loaded.", "nodes", len(doc.Graph.Nodes))

	res := a.compiler.Compile(doc.Graph)
	a.metrics.observe(res)
	if res.Success {
		logger.Info("Graph compiled.", "nodes", len(doc.Graph.Nodes), "fragment_bytes", len(res.FragmentShader), "duration", time.Since(start))
	} else {
		logger.Warn("Graph failed to compile.", "errors", len(res.Errors))
	}
	return res, nil
}

// Run compiles the graph once and writes the shaders. The fragment shader
// goes to OutputPath, or to the app's output writer when no path is set.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	res, err := a.Compile(ctx)
	if err != nil {
		return err
	}
	if !res.Success {
		for _, msg := range res.Messages() {
			a.logger.Error("Compile error.", "message", msg)
		}
		return fmt.Errorf("%w: %s", ErrCompileFailed, strings.Join(res.Messages(), "; "))
	}
	if err := a.writeShaders(ctx, res); err != nil {
		return err
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) writeShaders(ctx context.Context, res *compiler.Result) error {
	logger := ctxlog.FromContext(ctx)
	if a.config.OutputPath == "" {
		if _, err := fmt.Fprintln(a.outW, res.FragmentShader); err != nil {
			return fmt.Errorf("failed to write fragment shader: %w", err)
		}
	} else if err := writeFile(a.config.OutputPath, res.FragmentShader); err != nil {
		return fmt.Errorf("failed to write fragment shader: %w", err)
	} else {
		logger.Debug("Fragment shader written.", "path", a.config.OutputPath)
	}

	if a.config.VertexOutputPath != "" {
		if err := writeFile(a.config.VertexOutputPath, res.VertexShader); err != nil {
			return fmt.Errorf("failed to write vertex shader: %w", err)
		}
		logger.Debug("Vertex shader written.", "path", a.config.VertexOutputPath)
	}
	return nil
}

// writeFile replaces path through a temporary file in the same directory, so
// a preview reading the file never sees a partial shader.
func writeFile(path, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".shadergrid-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.WriteString(content + "\n"); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
