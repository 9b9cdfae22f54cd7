package compiler

import "strings"

// VertexShader is the fixed full-screen-quad vertex stage paired with every
// generated fragment shader.
const VertexShader = `attribute vec2 a_position;

varying vec2 vUv;

void main() {
  vUv = a_position * 0.5 + 0.5;
  gl_Position = vec4(a_position, 0.0, 1.0);
}`

const fragmentPreamble = `precision highp float;

uniform vec2 u_resolution;
uniform float u_time;
uniform vec2 u_mouse;

varying vec2 vUv;`

// assemble joins the preamble, helper functions and statement blocks into the
// final fragment shader.
func assemble(helpers, blocks []string) string {
	var b strings.Builder
	b.WriteString(fragmentPreamble)
	b.WriteString("\n\n")
	for _, h := range helpers {
		b.WriteString(h)
		b.WriteString("\n\n")
	}
	b.WriteString("void main() {\n")
	for i, blk := range blocks {
		if i > 0 {
			b.WriteString("\n")
		}
		for _, line := range strings.Split(blk, "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			b.WriteString("  ")
			b.WriteString(strings.TrimRight(line, " \t"))
			b.WriteString("\n")
		}
	}
	b.WriteString("}")
	return strings.TrimSpace(b.String())
}
