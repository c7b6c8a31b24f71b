// Package pathdata builds SVG path data from typed commands rather than
// string concatenation.
package pathdata

import (
	"strconv"
	"strings"
)

// Op is a path command letter. Only absolute forms are supported.
type Op string

// Supported path commands.
const (
	OpMove  Op = "M"
	OpLine  Op = "L"
	OpHoriz Op = "H"
	OpVert  Op = "V"
	OpCurve Op = "C"
	OpQuad  Op = "Q"
	OpArc   Op = "A"
	OpClose Op = "Z"
)

var arity = map[Op]int{
	OpMove:  2,
	OpLine:  2,
	OpHoriz: 1,
	OpVert:  1,
	OpCurve: 6,
	OpQuad:  4,
	OpArc:   7,
	OpClose: 0,
}

// Known reports whether op is a recognized command letter.
func Known(op Op) bool {
	_, ok := arity[op]
	return ok
}

// Arity returns the argument count op expects, or -1 for unknown ops.
func Arity(op Op) int {
	n, ok := arity[op]
	if !ok {
		return -1
	}
	return n
}

// Command is one path instruction: a command letter plus its numeric
// arguments. The two arc flags are carried as 0 or 1.
type Command struct {
	Op   Op
	Args []float64
}

// Builder accumulates path commands fluently. The zero value is ready
// to use.
type Builder struct {
	cmds []Command
}

// New returns an empty Builder.
func New() *Builder {
	return &Builder{}
}

func (b *Builder) add(op Op, args ...float64) *Builder {
	b.cmds = append(b.cmds, Command{Op: op, Args: args})
	return b
}

// MoveTo starts a new subpath at (x, y).
func (b *Builder) MoveTo(x, y float64) *Builder {
	return b.add(OpMove, x, y)
}

// LineTo draws a straight line to (x, y).
func (b *Builder) LineTo(x, y float64) *Builder {
	return b.add(OpLine, x, y)
}

// HorizTo draws a horizontal line to x.
func (b *Builder) HorizTo(x float64) *Builder {
	return b.add(OpHoriz, x)
}

// VertTo draws a vertical line to y.
func (b *Builder) VertTo(y float64) *Builder {
	return b.add(OpVert, y)
}

// CurveTo draws a cubic bezier through control points (x1, y1) and
// (x2, y2) to (x, y).
func (b *Builder) CurveTo(x1, y1, x2, y2, x, y float64) *Builder {
	return b.add(OpCurve, x1, y1, x2, y2, x, y)
}

// QuadTo draws a quadratic bezier through control point (x1, y1) to
// (x, y).
func (b *Builder) QuadTo(x1, y1, x, y float64) *Builder {
	return b.add(OpQuad, x1, y1, x, y)
}

// ArcTo draws an elliptical arc to (x, y) with radii rx and ry, the
// x-axis rotated by rotation degrees.
func (b *Builder) ArcTo(rx, ry, rotation float64, largeArc, sweep bool, x, y float64) *Builder {
	return b.add(OpArc, rx, ry, rotation, flag(largeArc), flag(sweep), x, y)
}

// Close closes the current subpath.
func (b *Builder) Close() *Builder {
	return b.add(OpClose)
}

// Commands returns the accumulated commands.
func (b *Builder) Commands() []Command {
	out := make([]Command, len(b.cmds))
	copy(out, b.cmds)
	return out
}

// String renders the accumulated commands as SVG path data.
func (b *Builder) String() string {
	return Format(b.cmds)
}

// Format renders commands as SVG path data, for example
// "M 20 200 L 120 260 Z". Numbers use their shortest round-trip form.
func Format(cmds []Command) string {
	var sb strings.Builder
	for i, c := range cmds {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(string(c.Op))
		for _, a := range c.Args {
			sb.WriteByte(' ')
			sb.WriteString(strconv.FormatFloat(a, 'f', -1, 64))
		}
	}
	return sb.String()
}

func flag(v bool) float64 {
	if v {
		return 1
	}
	return 0
}
