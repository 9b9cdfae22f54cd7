package glsl

import "regexp"

var placeholderRe = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// Expand replaces every {key} placeholder in template with the matching input
// expression, parenthesised. Unknown placeholders are left as they are.
func Expand(template string, inputs map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(template, func(m string) string {
		key := m[1 : len(m)-1]
		if v, ok := inputs[key]; ok {
			return "(" + v + ")"
		}
		return m
	})
}
