// Package color provides colour space and palette nodes.
package color

import (
	"fmt"

	"github.com/specialistvlad/shadergrid/internal/graph"
	"github.com/specialistvlad/shadergrid/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

const hsvHelper = `vec3 sg_hsv2rgb(vec3 c) {
  vec3 p = abs(fract(c.xxx + vec3(1.0, 2.0 / 3.0, 1.0 / 3.0)) * 6.0 - 3.0);
  return c.z * mix(vec3(1.0), clamp(p - 1.0, 0.0, 1.0), c.y);
}`

// paletteHelper is the cosine palette a + b * cos(2π(c·t + d)).
const paletteHelper = `vec3 sg_palette(float t, vec3 a, vec3 b, vec3 c, vec3 d) {
  return a + b * cos(6.28318 * (c * t + d));
}`

// Register registers the colour node types.
func (m *Module) Register(r *registry.Registry) {
	r.Register("hsv2rgb", &registry.Definition{
		Inputs:  []registry.SocketDef{{Key: "hsv", Type: graph.Vec3, Default: []float64{0, 1, 1}}},
		Outputs: []registry.SocketDef{{Key: "rgb", Type: graph.Vec3}},
		Helper:  hsvHelper,
		Generate: registry.Single("rgb", graph.Vec3, func(_ *graph.Node, in map[string]string) string {
			return fmt.Sprintf("sg_hsv2rgb(%s)", in["hsv"])
		}),
	})

	r.Register("palette", &registry.Definition{
		Inputs: []registry.SocketDef{
			{Key: "t", Type: graph.Float},
			{Key: "a", Type: graph.Vec3, Default: []float64{0.5, 0.5, 0.5}},
			{Key: "b", Type: graph.Vec3, Default: []float64{0.5, 0.5, 0.5}},
			{Key: "c", Type: graph.Vec3, Default: []float64{1, 1, 1}},
			{Key: "d", Type: graph.Vec3, Default: []float64{0, 0.33, 0.67}},
		},
		Outputs: []registry.SocketDef{{Key: "color", Type: graph.Vec3}},
		Helper:  paletteHelper,
		Generate: registry.Single("color", graph.Vec3, func(_ *graph.Node, in map[string]string) string {
			return fmt.Sprintf("sg_palette(%s, %s, %s, %s, %s)", in["t"], in["a"], in["b"], in["c"], in["d"])
		}),
	})
}
