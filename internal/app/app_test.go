package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/specialistvlad/shadergrid/internal/preview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	t.Run("Success: applies defaults", func(t *testing.T) {
		t.Parallel()
		cfg, err := NewConfig(Config{GraphPath: "g.hcl"})
		require.NoError(t, err)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "text", cfg.LogFormat)
		assert.Equal(t, preview.DefaultEvent, cfg.PreviewEvent)
		assert.Equal(t, 150*time.Millisecond, cfg.Debounce)
	})

	t.Run("Failure: invalid values", func(t *testing.T) {
		t.Parallel()
		cases := map[string]Config{
			"missing graph": {},
			"bad level":     {GraphPath: "g", LogLevel: "verbose"},
			"bad format":    {GraphPath: "g", LogFormat: "xml"},
			"bad port":      {GraphPath: "g", HealthcheckPort: 70000},
			"bad debounce":  {GraphPath: "g", Debounce: -time.Second},
		}
		for name, cfg := range cases {
			_, err := NewConfig(cfg)
			assert.Error(t, err, name)
		}
	})
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{
		"shadergrid.yaml": "graph: shaders/main.hcl\nmanifests: [types]\nlog_level: debug\ndebounce: 250ms\nhealthcheck_port: 9090\n",
		"bad.yaml":        "graph: a.hcl\nunknown_key: 1\n",
	})

	cfg, err := LoadConfigFile(filepath.Join(dir, "shadergrid.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "shaders/main.hcl", cfg.GraphPath)
	assert.Equal(t, []string{"types"}, cfg.ManifestPaths)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 250*time.Millisecond, cfg.Debounce)
	assert.Equal(t, 9090, cfg.HealthcheckPort)

	_, err = LoadConfigFile(filepath.Join(dir, "bad.yaml"))
	assert.Error(t, err)

	_, err = LoadConfigFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestApp_Run(t *testing.T) {
	t.Parallel()

	t.Run("Success: prints the fragment shader", func(t *testing.T) {
		t.Parallel()
		dir := writeFiles(t, map[string]string{"graph.hcl": lengthGraph})
		a, out, _ := setupApp(t, Config{GraphPath: filepath.Join(dir, "graph.hcl")})

		require.NoError(t, a.Run(context.Background()))
		assert.Contains(t, out.String(), "float nlen_out = length(nuv_uv);")
		assert.Contains(t, out.String(), "gl_FragColor = vec4(vec3(nlen_out), 1.0);")
	})

	t.Run("Success: writes both shaders to files", func(t *testing.T) {
		t.Parallel()
		dir := writeFiles(t, map[string]string{"graph.hcl": lengthGraph})
		frag := filepath.Join(dir, "out", "shader.frag")
		vert := filepath.Join(dir, "out", "shader.vert")
		a, out, _ := setupApp(t, Config{GraphPath: filepath.Join(dir, "graph.hcl"), OutputPath: frag, VertexOutputPath: vert})

		require.NoError(t, a.Run(context.Background()))
		assert.Empty(t, out.String())

		fragSrc, err := os.ReadFile(frag)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(fragSrc), "precision highp float;"))
		vertSrc, err := os.ReadFile(vert)
		require.NoError(t, err)
		assert.Contains(t, string(vertSrc), "attribute vec2 a_position;")
	})

	t.Run("Failure: compile errors", func(t *testing.T) {
		t.Parallel()
		dir := writeFiles(t, map[string]string{"graph.hcl": `node "uv" { type = "uv" }`})
		a, _, logs := setupApp(t, Config{GraphPath: filepath.Join(dir, "graph.hcl")})

		err := a.Run(context.Background())
		require.ErrorIs(t, err, ErrCompileFailed)
		assert.Contains(t, err.Error(), "Graph must have an output node")
		assert.Contains(t, logs.String(), "Graph must have an output node")
	})

	t.Run("Failure: unparsable graph", func(t *testing.T) {
		t.Parallel()
		dir := writeFiles(t, map[string]string{"graph.hcl": `node "uv" {`})
		a, _, _ := setupApp(t, Config{GraphPath: filepath.Join(dir, "graph.hcl")})

		err := a.Run(context.Background())
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrCompileFailed)
		assert.Contains(t, err.Error(), "failed to load graph")
	})
}

func TestNewApp_Manifests(t *testing.T) {
	t.Parallel()

	t.Run("Success: manifest types compile", func(t *testing.T) {
		t.Parallel()
		dir := writeFiles(t, map[string]string{
			"types/invert.hcl": `
node_type "invert" {
  input "c" {
    type    = vec3
    default = [0.2, 0.4, 0.6]
  }
  output "out" {
    type       = vec3
    expression = "vec3(1.0) - {c}"
  }
}`,
			"graph.hcl": `
node "inv" {
  type = "invert"
}

node "out" {
  type = "output"
  input "color" {
    from = inv.out
  }
}`,
		})
		a, out, _ := setupApp(t, Config{GraphPath: filepath.Join(dir, "graph.hcl"), ManifestPaths: []string{filepath.Join(dir, "types")}})

		_, ok := a.Registry().Lookup("invert")
		require.True(t, ok)
		require.NoError(t, a.Run(context.Background()))
		assert.Contains(t, out.String(), "vec3 ninv_out = vec3(1.0) - (vec3(0.2, 0.4, 0.6));")
	})

	t.Run("Failure: manifest shadows a built-in type", func(t *testing.T) {
		t.Parallel()
		dir := writeFiles(t, map[string]string{
			"types/uv.hcl": `
node_type "uv" {
  output "uv" {
    type       = vec2
    expression = "vUv"
  }
}`,
		})
		conf, err := NewConfig(Config{GraphPath: "g.hcl", ManifestPaths: []string{filepath.Join(dir, "types")}})
		require.NoError(t, err)
		_, err = NewApp(&safeBuffer{}, &safeBuffer{}, conf)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "conflicts with a built-in node type")
	})
}

func TestApp_MetricsAndHealth(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{"graph.hcl": lengthGraph})
	a, _, _ := setupApp(t, Config{GraphPath: filepath.Join(dir, "graph.hcl")})
	_, err := a.Compile(context.Background())
	require.NoError(t, err)

	srv := httptest.NewServer(a.handler())
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body := new(strings.Builder)
	_, err = io.Copy(body, resp.Body)
	require.NoError(t, err)
	assert.Contains(t, body.String(), `shadergrid_compilations_total{result="success"} 1`)
}

type fakePublisher struct {
	mu       sync.Mutex
	payloads []*preview.Payload
}

func (p *fakePublisher) Publish(_ context.Context, payload *preview.Payload) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return nil
}

func (p *fakePublisher) snapshot() []*preview.Payload {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*preview.Payload(nil), p.payloads...)
}

func TestApp_Watch(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{"graph.hcl": lengthGraph})
	graphFile := filepath.Join(dir, "graph.hcl")
	a, _, _ := setupApp(t, Config{GraphPath: graphFile, Debounce: 20 * time.Millisecond})

	pub := &fakePublisher{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Watch(ctx, pub) }()

	// --- Initial compilation ---
	require.Eventually(t, func() bool { return len(pub.snapshot()) == 1 }, 5*time.Second, 10*time.Millisecond)
	first := pub.snapshot()[0]
	assert.True(t, first.Success)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, uint64(1), first.Generation)

	// --- Broken edit is published as a failure ---
	require.NoError(t, os.WriteFile(graphFile, []byte(`node "uv" { type = "uv" }`), 0o644))
	require.Eventually(t, func() bool { return len(pub.snapshot()) >= 2 }, 5*time.Second, 10*time.Millisecond)
	last := pub.snapshot()[len(pub.snapshot())-1]
	assert.False(t, last.Success)
	assert.Equal(t, []string{"Graph must have an output node"}, last.Errors)
	assert.Greater(t, last.Generation, first.Generation)
	assert.NotEqual(t, first.ID, last.ID)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancellation")
	}
}

func TestApp_RecompileDropsStaleResults(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{"graph.hcl": lengthGraph})
	a, _, _ := setupApp(t, Config{GraphPath: filepath.Join(dir, "graph.hcl")})
	pub := &fakePublisher{}

	// Generation 5 was already published by a faster compile.
	a.lastPublished = 5
	a.generation.Store(4)
	a.recompile(context.Background(), pub)
	assert.Empty(t, pub.snapshot())

	a.recompile(context.Background(), pub)
	published := pub.snapshot()
	require.Len(t, published, 1)
	assert.Equal(t, uint64(6), published[0].Generation)
}
