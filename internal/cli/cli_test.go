package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const graphHCL = `
node "t" {
  type = "time"
}

node "wave" {
  type = "sin"
  input "x" {
    from = t.time
  }
}

node "out" {
  type = "output"
  input "color" {
    from = wave.out
  }
}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	err := Execute(context.Background(), args, out, &bytes.Buffer{})
	return out.String(), err
}

func TestCompileCommand(t *testing.T) {
	t.Parallel()

	t.Run("Success: positional graph path", func(t *testing.T) {
		t.Parallel()
		graph := writeFile(t, t.TempDir(), "graph.hcl", graphHCL)

		out, err := execute(t, "compile", graph)
		require.NoError(t, err)
		assert.Contains(t, out, "float nwave_out = sin(nt_time);")
	})

	t.Run("Success: graph from config file, output flag wins", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		graph := writeFile(t, dir, "graph.hcl", graphHCL)
		target := filepath.Join(dir, "flag.frag")
		cfg := writeFile(t, dir, "shadergrid.yaml", "graph: "+graph+"\noutput: "+filepath.Join(dir, "file.frag")+"\n")

		out, err := execute(t, "--config", cfg, "compile", "-o", target)
		require.NoError(t, err)
		assert.Empty(t, out)
		assert.FileExists(t, target)
		assert.NoFileExists(t, filepath.Join(dir, "file.frag"))
	})

	t.Run("Failure: compile errors exit with 1", func(t *testing.T) {
		t.Parallel()
		graph := writeFile(t, t.TempDir(), "graph.hcl", `node "t" { type = "time" }`)

		_, err := execute(t, "compile", graph)
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, ExitCompile, exitErr.Code)
		assert.Contains(t, exitErr.Message, "Graph must have an output node")
	})

	t.Run("Failure: missing graph path exits with 2", func(t *testing.T) {
		t.Parallel()
		_, err := execute(t, "compile")
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, ExitUsage, exitErr.Code)
	})

	t.Run("Failure: invalid log level exits with 2", func(t *testing.T) {
		t.Parallel()
		graph := writeFile(t, t.TempDir(), "graph.hcl", graphHCL)
		_, err := execute(t, "--log-level", "loud", "compile", graph)
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, ExitUsage, exitErr.Code)
		assert.Contains(t, exitErr.Message, "invalid log-level")
	})
}

func TestTypesCommand(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "types/glow.hcl", `
node_type "glow" {
  input "d" {
    type = float
  }
  output "out" {
    type       = vec3
    expression = "vec3(0.02 / {d})"
  }
}`)

	out, err := execute(t, "--manifests", filepath.Join(dir, "types"), "types")
	require.NoError(t, err)
	assert.Contains(t, out, "TYPE")
	assert.Regexp(t, `rotate2d\s+p vec2, angle float\s+out vec2`, out)
	assert.Regexp(t, `glow\s+d float\s+out vec3`, out)
	assert.Regexp(t, `uv\s+-\s+uv vec2`, out)
}
