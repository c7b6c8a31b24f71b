package anim

import (
	"sort"
	"strings"
)

// curves maps each named easing to its cubic-bezier control-point
// quadruple, the form spline interpolation directives consume.
// "cubic-bezier" is the default placeholder quadruple for callers that
// want to substitute their own control points downstream.
var curves = map[string]string{
	"linear":       "0 0 1 1",
	"ease":         "0.25 0.1 0.25 1",
	"ease-in":      "0.42 0 1 1",
	"ease-out":     "0 0 0.58 1",
	"ease-in-out":  "0.42 0 0.58 1",
	"bounce":       "0.68 -0.55 0.265 1.55",
	"elastic":      "0.64 0.57 0.67 1.53",
	"back":         "0.175 0.885 0.32 1.275",
	"cubic-bezier": "0.25 0.1 0.25 1",
}

// CurveFor returns the control-point quadruple for a named curve.
// The name must come from the closed curve set; passing anything else
// is a programming error and yields "". Use KnownCurve to check
// membership where input is not already trusted.
func CurveFor(name string) string {
	return curves[name]
}

// KnownCurve reports whether name is a member of the closed curve set.
func KnownCurve(name string) bool {
	_, ok := curves[name]
	return ok
}

// CurveNames returns the closed curve set in sorted order, for
// diagnostics.
func CurveNames() []string {
	out := make([]string, 0, len(curves))
	for name := range curves {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Splines resolves an easing spec to its control-point string. A
// sequence joins one quadruple per transition with "; ", preserving
// order. The same caller contract as CurveFor applies to every name.
func Splines(e EasingSpec) string {
	if e.IsSequence() {
		parts := make([]string, len(e.Names))
		for i, name := range e.Names {
			parts[i] = curves[name]
		}
		return strings.Join(parts, "; ")
	}
	return curves[e.Name]
}
