// Package noise provides value noise and fractal noise nodes.
package noise

import (
	"fmt"
	"math"

	"github.com/specialistvlad/shadergrid/internal/glsl"
	"github.com/specialistvlad/shadergrid/internal/graph"
	"github.com/specialistvlad/shadergrid/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// helper is shared by both node types so that the helper set deduplicates it
// when a graph uses both.
const helper = `float sg_hash21(vec2 p) {
  p = fract(p * vec2(123.34, 456.21));
  p += dot(p, p + 45.32);
  return fract(p.x * p.y);
}

float sg_noise(vec2 p) {
  vec2 i = floor(p);
  vec2 f = fract(p);
  vec2 u = f * f * (3.0 - 2.0 * f);
  float a = sg_hash21(i);
  float b = sg_hash21(i + vec2(1.0, 0.0));
  float c = sg_hash21(i + vec2(0.0, 1.0));
  float d = sg_hash21(i + vec2(1.0, 1.0));
  return mix(mix(a, b, u.x), mix(c, d, u.x), u.y);
}

float sg_fbm(vec2 p, int octaves) {
  float v = 0.0;
  float amp = 0.5;
  for (int i = 0; i < 8; i++) {
    if (i >= octaves) break;
    v += amp * sg_noise(p);
    p *= 2.0;
    amp *= 0.5;
  }
  return v;
}`

const (
	defaultOctaves = 5
	maxOctaves     = 8
)

// octaves reads the "octaves" parameter, clamped to the fixed loop bound of
// sg_fbm.
func octaves(n *graph.Node) int {
	v, ok := n.NumberParam("octaves")
	if !ok || math.IsNaN(v) {
		return defaultOctaves
	}
	return int(math.Max(1, math.Min(maxOctaves, math.Round(v))))
}

// Register registers the noise node types.
func (m *Module) Register(r *registry.Registry) {
	r.Register("noise", &registry.Definition{
		Inputs: []registry.SocketDef{
			{Key: "p", Type: graph.Vec2},
			{Key: "scale", Type: graph.Float, Default: 4.0},
		},
		Outputs: []registry.SocketDef{{Key: "out", Type: graph.Float}},
		Helper:  helper,
		Generate: registry.Single("out", graph.Float, func(_ *graph.Node, in map[string]string) string {
			return fmt.Sprintf("sg_noise(%s * %s)", in["p"], in["scale"])
		}),
	})

	r.Register("fbm", &registry.Definition{
		Inputs: []registry.SocketDef{
			{Key: "p", Type: graph.Vec2},
			{Key: "scale", Type: graph.Float, Default: 3.0},
		},
		Outputs: []registry.SocketDef{{Key: "out", Type: graph.Float}},
		Helper:  helper,
		Generate: registry.Single("out", graph.Float, func(n *graph.Node, in map[string]string) string {
			oct, _ := glsl.Literal(graph.Int, float64(octaves(n)))
			return fmt.Sprintf("sg_fbm(%s * %s, %s)", in["p"], in["scale"], oct)
		}),
	})
}
