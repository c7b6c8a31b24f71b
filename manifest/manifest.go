// Package manifest defines the YAML document format describing an
// animated scene: canvas, params, and elements with their animations.
package manifest

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/tigerabrodi/rudo/domain/pathdata"
)

// Document is the root of a scene manifest.
type Document struct {
	Canvas   Canvas    `yaml:"canvas"`
	Params   Params    `yaml:"params,omitempty"`
	Elements []Element `yaml:"elements"`
}

// Canvas declares document geometry and backdrop.
type Canvas struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	ViewBox    string  `yaml:"viewBox,omitempty"`
	Background string  `yaml:"background,omitempty"`
}

// Element declares one visual node.
type Element struct {
	// ID is the element's document identifier. Optional; elements that
	// are trigger targets get one generated at compile time if absent.
	ID string `yaml:"id,omitempty"`

	// Kind is the element tag: rect, circle, ellipse, line, path,
	// polygon, polyline, text, g.
	Kind string `yaml:"kind"`

	// Attrs are static attributes, emitted in declaration order.
	Attrs Attrs `yaml:"attrs,omitempty"`

	// Text is the character content of text elements.
	Text string `yaml:"text,omitempty"`

	// Path declares path data step by step. Path kind only.
	Path []PathStep `yaml:"path,omitempty"`

	// Animations maps attribute names to animation declarations.
	Animations map[string]Animation `yaml:"animations,omitempty"`
}

// Animation is the YAML form of one attribute's animation.
type Animation struct {
	From        *Number   `yaml:"from,omitempty"`
	To          *Number   `yaml:"to,omitempty"`
	Values      []Number  `yaml:"values,omitempty"`
	KeyTimes    []float64 `yaml:"keyTimes,omitempty"`
	Dur         Literal   `yaml:"dur,omitempty"`
	Begin       *Begin    `yaml:"begin,omitempty"`
	Easing      Easing    `yaml:"easing,omitempty"`
	KeySplines  string    `yaml:"keySplines,omitempty"`
	CalcMode    string    `yaml:"calcMode,omitempty"`
	RepeatCount Literal   `yaml:"repeatCount,omitempty"`
	Fill        string    `yaml:"fill,omitempty"`
	Restart     string    `yaml:"restart,omitempty"`
	ID          string    `yaml:"id,omitempty"`
}

// Params is an ordered parameter list. Later entries may reference
// earlier ones in their expressions.
type Params struct {
	list []Param
}

// Param is one named parameter.
type Param struct {
	Name  string
	Value Number
}

// All returns the parameters in declaration order.
func (p Params) All() []Param {
	out := make([]Param, len(p.list))
	copy(out, p.list)
	return out
}

// Len returns the parameter count.
func (p Params) Len() int { return len(p.list) }

// UnmarshalYAML decodes a YAML mapping preserving key order.
func (p *Params) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: params must be a mapping", node.Line)
	}
	for i := 0; i < len(node.Content); i += 2 {
		name := node.Content[i].Value
		var n Number
		if err := node.Content[i+1].Decode(&n); err != nil {
			return fmt.Errorf("param %q: %w", name, err)
		}
		p.list = append(p.list, Param{Name: name, Value: n})
	}
	return nil
}

// Number is a numeric manifest field: a YAML number used as-is, or a
// string holding an expression over the manifest params.
type Number struct {
	Literal float64
	Expr    string
}

// IsExpr reports whether the number must be evaluated.
func (n Number) IsExpr() bool { return n.Expr != "" }

// UnmarshalYAML accepts a YAML number or an expression string.
func (n *Number) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected number or expression, got %s", node.Line, kindName(node.Kind))
	}
	switch node.Tag {
	case "!!int", "!!float":
		v, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			return fmt.Errorf("line %d: bad number %q", node.Line, node.Value)
		}
		n.Literal = v
	case "!!str":
		n.Expr = node.Value
	default:
		return fmt.Errorf("line %d: expected number or expression, got %s", node.Line, node.Tag)
	}
	return nil
}

// Literal captures a scalar exactly as written, whatever YAML type it
// would otherwise decode as. Used for pass-through fields like dur and
// repeatCount that mix numbers and keywords.
type Literal string

// UnmarshalYAML keeps the scalar's source text.
func (l *Literal) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar, got %s", node.Line, kindName(node.Kind))
	}
	*l = Literal(node.Value)
	return nil
}

// Attr is one static attribute of an element.
type Attr struct {
	Key   string
	Value string
}

// Attrs preserves attribute declaration order.
type Attrs []Attr

// UnmarshalYAML decodes a YAML mapping of scalars preserving key order.
func (a *Attrs) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: attrs must be a mapping", node.Line)
	}
	out := make(Attrs, 0, len(node.Content)/2)
	for i := 0; i < len(node.Content); i += 2 {
		key, val := node.Content[i].Value, node.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: attr %q must be a scalar", val.Line, key)
		}
		out = append(out, Attr{Key: key, Value: val.Value})
	}
	*a = out
	return nil
}

// Easing is a scalar curve name or a per-transition name sequence.
type Easing struct {
	Name  string
	Names []string
}

// IsZero reports whether no easing was declared.
func (e Easing) IsZero() bool { return e.Name == "" && len(e.Names) == 0 }

// UnmarshalYAML accepts a curve name or a sequence of curve names.
func (e *Easing) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		e.Name = node.Value
	case yaml.SequenceNode:
		if err := node.Decode(&e.Names); err != nil {
			return fmt.Errorf("line %d: easing sequence: %w", node.Line, err)
		}
	default:
		return fmt.Errorf("line %d: easing must be a name or a sequence of names", node.Line)
	}
	return nil
}

// Begin is a scalar literal begin expression, or an {event, target}
// mapping that starts the animation when event fires on the element
// named target.
type Begin struct {
	Literal string
	Event   string
	Target  string

	trigger bool
}

// IsTrigger reports whether the begin is the structured mapping form.
func (b Begin) IsTrigger() bool { return b.trigger }

// UnmarshalYAML accepts a scalar or an {event, target} mapping.
func (b *Begin) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		b.Literal = node.Value
	case yaml.MappingNode:
		var t struct {
			Event  string `yaml:"event"`
			Target string `yaml:"target"`
		}
		if err := node.Decode(&t); err != nil {
			return fmt.Errorf("line %d: begin: %w", node.Line, err)
		}
		b.Event, b.Target, b.trigger = t.Event, t.Target, true
	default:
		return fmt.Errorf("line %d: begin must be a scalar or an {event, target} mapping", node.Line)
	}
	return nil
}

// PathStep is one declarative path command: a single-key mapping such
// as {move: [20, 200]}, {curve: [80, 140, 160, 260, 220, 200]},
// {horiz: 40} or {close: true}.
type PathStep struct {
	Name string
	Args []float64
}

var stepOps = map[string]pathdata.Op{
	"move":  pathdata.OpMove,
	"line":  pathdata.OpLine,
	"horiz": pathdata.OpHoriz,
	"vert":  pathdata.OpVert,
	"curve": pathdata.OpCurve,
	"quad":  pathdata.OpQuad,
	"arc":   pathdata.OpArc,
	"close": pathdata.OpClose,
}

// Command converts the step into a path command. The second return is
// false for unknown step names.
func (p PathStep) Command() (pathdata.Command, bool) {
	op, ok := stepOps[p.Name]
	if !ok {
		return pathdata.Command{}, false
	}
	return pathdata.Command{Op: op, Args: p.Args}, true
}

// UnmarshalYAML decodes the single-key step mapping.
func (p *PathStep) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return fmt.Errorf("line %d: path step must be a single-key mapping", node.Line)
	}
	p.Name = node.Content[0].Value

	val := node.Content[1]
	switch val.Kind {
	case yaml.SequenceNode:
		if err := val.Decode(&p.Args); err != nil {
			return fmt.Errorf("line %d: path step %q: %w", val.Line, p.Name, err)
		}
	case yaml.ScalarNode:
		if val.Tag == "!!bool" {
			return nil // {close: true} carries no arguments
		}
		v, err := strconv.ParseFloat(val.Value, 64)
		if err != nil {
			return fmt.Errorf("line %d: path step %q: bad argument %q", val.Line, p.Name, val.Value)
		}
		p.Args = []float64{v}
	default:
		return fmt.Errorf("line %d: path step %q: arguments must be a number or a sequence", val.Line, p.Name)
	}
	return nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "unknown"
}
