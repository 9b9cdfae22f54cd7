package noise

import (
	"testing"

	"github.com/specialistvlad/shadergrid/internal/graph"
	"github.com/specialistvlad/shadergrid/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOctaves(t *testing.T) {
	node := func(v any) *graph.Node {
		return &graph.Node{ID: "f", Params: map[string]any{"octaves": v}}
	}
	assert.Equal(t, defaultOctaves, octaves(&graph.Node{ID: "f"}))
	assert.Equal(t, 1, octaves(node(0)))
	assert.Equal(t, 3, octaves(node(2.5)))
	assert.Equal(t, maxOctaves, octaves(node(40)))
	assert.Equal(t, defaultOctaves, octaves(node("lots")))
}

func TestFbmGenerate(t *testing.T) {
	r := registry.New(&Module{})
	def, ok := r.Lookup("fbm")
	require.True(t, ok)

	n := &graph.Node{ID: "f", Params: map[string]any{"octaves": 12}}
	got := def.Generate(n, map[string]string{"p": "nuv_uv", "scale": "3.0"})

	assert.Equal(t, "float nf_out = sg_fbm(nuv_uv * 3.0, 8);", got.Code)
	assert.Contains(t, def.Helper, "float sg_fbm(vec2 p, int octaves)")
}
