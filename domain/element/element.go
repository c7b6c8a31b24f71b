// Package element defines the closed set of supported SVG element kinds
// and the attributes each kind allows an animation to target.
// All functions are pure lookups - no state, no side effects.
package element

import "sort"

// Kind identifies one supported element kind. The set is closed: values
// outside the declared constants are rejected during validation rather
// than modeled as separate types per kind.
type Kind string

// Supported element kinds.
const (
	Rect     Kind = "rect"
	Circle   Kind = "circle"
	Ellipse  Kind = "ellipse"
	Line     Kind = "line"
	Path     Kind = "path"
	Polygon  Kind = "polygon"
	Polyline Kind = "polyline"
	Text     Kind = "text"
	Group    Kind = "g"
)

// geometry lists the numeric geometry attributes per kind. Shape-data
// kinds (path, polygon, polyline) and containers (g) carry none: their
// shape is not a scalar sequence, so only presentation attributes animate.
var geometry = map[Kind][]string{
	Rect:     {"x", "y", "width", "height", "rx", "ry"},
	Circle:   {"cx", "cy", "r"},
	Ellipse:  {"cx", "cy", "rx", "ry"},
	Line:     {"x1", "y1", "x2", "y2"},
	Path:     {},
	Polygon:  {},
	Polyline: {},
	Text:     {"x", "y", "dx", "dy"},
	Group:    {},
}

// presentation lists the animatable presentation attributes shared by
// every kind.
var presentation = []string{
	"opacity",
	"fill-opacity",
	"stroke-opacity",
	"stroke-width",
	"stroke-dashoffset",
}

// ParseKind maps a tag name into the closed kind set.
func ParseKind(tag string) (Kind, bool) {
	k := Kind(tag)
	_, ok := geometry[k]
	return k, ok
}

// Known reports whether k is a member of the closed kind set.
func Known(k Kind) bool {
	_, ok := geometry[k]
	return ok
}

// Kinds returns all supported kinds in sorted order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(geometry))
	for k := range geometry {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// GeometryAttrs returns the numeric geometry attributes of k.
// Returns nil for unknown kinds.
func GeometryAttrs(k Kind) []string {
	attrs, ok := geometry[k]
	if !ok {
		return nil
	}
	out := make([]string, len(attrs))
	copy(out, attrs)
	return out
}

// Animatable reports whether attr may be animated on elements of kind k.
// The animatable set is the kind's geometry attributes plus the shared
// presentation attributes. Unknown kinds animate nothing.
func Animatable(k Kind, attr string) bool {
	attrs, ok := geometry[k]
	if !ok {
		return false
	}
	for _, a := range attrs {
		if a == attr {
			return true
		}
	}
	for _, a := range presentation {
		if a == attr {
			return true
		}
	}
	return false
}

// AnimatableAttrs returns every attribute animatable on kind k, sorted.
// Useful for diagnostics. Returns nil for unknown kinds.
func AnimatableAttrs(k Kind) []string {
	attrs, ok := geometry[k]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(attrs)+len(presentation))
	out = append(out, attrs...)
	out = append(out, presentation...)
	sort.Strings(out)
	return out
}
