package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/shadergrid/internal/graph"
	"github.com/specialistvlad/shadergrid/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := NewLoader().Parse(context.Background(), []byte(src), "test.hcl")
	require.NoError(t, err)
	return doc
}

func TestLoader_Nodes(t *testing.T) {
	t.Parallel()

	t.Run("Success: Parses sockets, connections and params", func(t *testing.T) {
		t.Parallel()
		doc := parse(t, `
		node "uv" {
			type = "uv"
		}

		node "rot" {
			type   = "rotate2d"
			bypass = true
			params = {
				iterations = 8
				body       = ["a", "b"]
			}

			input "p" {
				from = uv.uv
			}
			input "angle" {
				type    = float
				default = 0.4
			}
			output "out" {
				type = "vec3"
			}
		}

		node "out" {
			type = "output"
			code = "gl_FragColor = vec4(1.0);"
			input "color" {
				from    = "rot.out"
				default = [1, 0.5, 0]
			}
		}`)

		// --- Assert ---
		require.Len(t, doc.Graph.Nodes, 3)
		assert.Equal(t, []string{"uv", "rot", "out"}, []string{doc.Graph.Nodes[0].ID, doc.Graph.Nodes[1].ID, doc.Graph.Nodes[2].ID})

		rot := doc.Graph.Nodes[1]
		assert.True(t, rot.Bypass)
		assert.Equal(t, map[string]any{"iterations": 8.0, "body": []any{"a", "b"}}, rot.Params)

		want := []*graph.InputSocket{
			{Key: "p", Connection: &graph.Connection{NodeID: "uv", OutputKey: "uv"}},
			{Key: "angle", Type: graph.Float, Default: 0.4},
		}
		if diff := cmp.Diff(want, rot.Inputs); diff != "" {
			t.Errorf("inputs mismatch (-want +got):\n%s", diff)
		}
		require.Len(t, rot.Outputs, 1)
		assert.Equal(t, graph.Vec3, rot.Outputs[0].Type)

		out := doc.Graph.Nodes[2]
		assert.Equal(t, "gl_FragColor = vec4(1.0);", out.CodeOverride)
		color, ok := out.Input("color")
		require.True(t, ok)
		assert.Equal(t, &graph.Connection{NodeID: "rot", OutputKey: "out"}, color.Connection)
		assert.Equal(t, []float64{1, 0.5, 0}, color.Default)
	})

	t.Run("Failure: Invalid node blocks", func(t *testing.T) {
		t.Parallel()
		cases := []struct {
			name string
			src  string
			want string
		}{
			{
				name: "unknown socket type",
				src:  "node \"a\" {\n type = \"uv\"\n input \"x\" { type = mat3 }\n}",
				want: `unknown socket type "mat3"`,
			},
			{
				name: "bad reference",
				src:  "node \"a\" {\n type = \"uv\"\n input \"x\" { from = \"nodot\" }\n}",
				want: "expected <node>.<output>",
			},
			{
				name: "duplicate input",
				src:  "node \"a\" {\n type = \"uv\"\n input \"x\" {}\n input \"x\" {}\n}",
				want: `duplicate input "x"`,
			},
			{
				name: "params not an object",
				src:  "node \"a\" {\n type = \"uv\"\n params = [1]\n}",
				want: "params must be an object",
			},
			{
				name: "too many default components",
				src:  "node \"a\" {\n type = \"uv\"\n input \"x\" { default = [1, 2, 3, 4, 5] }\n}",
				want: "at most 4",
			},
			{
				name: "missing type attribute",
				src:  `node "a" {}`,
				want: "failed to decode",
			},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := NewLoader().Parse(context.Background(), []byte(tc.src), "bad.hcl")
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.want)
			})
		}
	})
}

func TestLoader_NodeTypes(t *testing.T) {
	t.Parallel()

	doc := parse(t, `
	node_type "invert" {
		description = "Inverts a colour."
		helper      = "vec3 sg_invert(vec3 c) { return vec3(1.0) - c; }"

		input "c" {
			type    = vec3
			default = [1, 1, 1]
		}
		output "out" {
			type       = vec3
			expression = "sg_invert({c})"
		}
	}`)

	require.Len(t, doc.NodeTypes, 1)
	nt := doc.NodeTypes[0]
	assert.Equal(t, "invert", nt.Name)
	assert.Equal(t, "Inverts a colour.", nt.Description)

	reg := registry.New(&Module{Types: doc.NodeTypes})
	require.NoError(t, reg.ValidateRegistry(context.Background()))
	def, ok := reg.Lookup("invert")
	require.True(t, ok)
	assert.Equal(t, []registry.SocketDef{{Key: "c", Type: graph.Vec3, Default: []float64{1, 1, 1}}}, def.Inputs)

	out := def.Generate(&graph.Node{ID: "inv"}, map[string]string{"c": "ncol_value"})
	assert.Equal(t, "vec3 ninv_out = sg_invert((ncol_value));", out.Code)
	assert.Equal(t, map[string]string{"out": "ninv_out"}, out.Outputs)

	t.Run("Failure: output without expression", func(t *testing.T) {
		_, err := NewLoader().Parse(context.Background(), []byte(`
		node_type "bad" {
			output "out" { type = float }
		}`), "bad.hcl")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expression is required")
	})
}

func TestLoader_Load(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.hcl"), []byte(`node "first" { type = "uv" }`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "b.hcl"), []byte(`node "second" { type = "time" }`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	doc, err := NewLoader().Load(context.Background(), dir, filepath.Join(dir, "missing.hcl"))
	require.NoError(t, err)
	require.Len(t, doc.Graph.Nodes, 2)
	assert.Equal(t, "first", doc.Graph.Nodes[0].ID)
	assert.Equal(t, "second", doc.Graph.Nodes[1].ID)

	t.Run("Failure: syntax error names the file", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.hcl")
		require.NoError(t, os.WriteFile(bad, []byte(`node "x" {`), 0o644))
		_, err := NewLoader().Load(context.Background(), bad)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad.hcl")
	})
}
