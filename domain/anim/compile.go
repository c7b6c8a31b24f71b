package anim

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/tigerabrodi/rudo/domain/element"
)

// Attr is one key="value" pair of a compiled directive.
type Attr struct {
	Key   string
	Value string
}

// Directive is one compiled <animate> instruction: an ordered attribute
// set serialized as a single self-closing markup element. Immutable once
// produced; the caller owns inserting it into and removing it from the
// visual tree.
type Directive struct {
	attrs []Attr
}

// Attrs returns the attribute pairs in construction order.
func (d Directive) Attrs() []Attr {
	out := make([]Attr, len(d.attrs))
	copy(out, d.attrs)
	return out
}

// Attr returns the value of the named attribute.
func (d Directive) Attr(key string) (string, bool) {
	for _, a := range d.attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// ID returns the directive's id attribute.
func (d Directive) ID() string {
	v, _ := d.Attr("id")
	return v
}

// String serializes the directive as a self-closing markup element with
// XML-escaped attribute values.
func (d Directive) String() string {
	var sb strings.Builder
	sb.WriteString("<animate")
	for _, a := range d.attrs {
		sb.WriteByte(' ')
		sb.WriteString(a.Key)
		sb.WriteString(`="`)
		sb.WriteString(escapeAttr(a.Value))
		sb.WriteString(`"`)
	}
	sb.WriteString("/>")
	return sb.String()
}

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}

// Compiler lowers animation specs into directives. The zero value is
// usable: triggers resolve to the placeholder identifier and directive
// ids come from a process-wide atomic counter.
type Compiler struct {
	ids      IDSource
	resolver TargetResolver
	strict   bool
}

// Options configure a Compiler.
type Options struct {
	// IDs supplies directive ids for specs that carry none. Nil falls
	// back to a process-wide atomic counter producing anim-1, anim-2, …
	IDs IDSource

	// Resolver maps trigger-target references to node identifiers.
	Resolver TargetResolver

	// Strict turns an unresolvable trigger target into a validation
	// failure instead of emitting the placeholder identifier.
	Strict bool
}

// NewCompiler creates a compiler with the given options.
func NewCompiler(opts Options) *Compiler {
	return &Compiler{ids: opts.IDs, resolver: opts.Resolver, strict: opts.Strict}
}

var fallbackCounter uint64

func (c *Compiler) nextID() string {
	if c.ids != nil {
		return c.ids.New()
	}
	return "anim-" + strconv.FormatUint(atomic.AddUint64(&fallbackCounter, 1), 10)
}

// Compile validates one spec and lowers it into a directive animating
// property on an element of the given kind. ownerID is the animated
// element's identifier; it provides context only - trigger resolution
// always follows the target's identifier, never the owner's.
func (c *Compiler) Compile(kind element.Kind, property string, spec Spec, ownerID string) (Directive, error) {
	if err := Validate(kind, property, spec); err != nil {
		return Directive{}, err
	}

	attrs := make([]Attr, 0, 12)

	id := spec.ID
	if id == "" {
		id = c.nextID()
	}
	attrs = append(attrs,
		Attr{"id", id},
		Attr{"attributeName", property},
		Attr{"dur", spec.Dur},
	)

	if len(spec.Values) > 0 {
		attrs = append(attrs, Attr{"values", joinNums(spec.Values)})
	} else {
		if spec.From != nil {
			attrs = append(attrs, Attr{"from", fmtNum(*spec.From)})
		}
		if spec.To != nil {
			attrs = append(attrs, Attr{"to", fmtNum(*spec.To)})
		}
	}

	if spec.Begin != nil {
		begin, resolved := ResolveBegin(spec.Begin, c.resolver)
		if !resolved && c.strict {
			return Directive{}, failf(ErrTriggerUnresolved, kind, property,
				"no identifier for target %q of element %q", spec.Begin.Trigger.Target, ownerID)
		}
		attrs = append(attrs, Attr{"begin", begin})
	}

	if spec.KeyTimes != nil {
		attrs = append(attrs, Attr{"keyTimes", joinNums(spec.KeyTimes)})
	}

	// Interpolation: raw keySplines beats named easing beats explicit
	// calcMode. At most one branch runs.
	switch {
	case spec.KeySplines != "":
		attrs = append(attrs, Attr{"calcMode", "spline"}, Attr{"keySplines", spec.KeySplines})
	case !spec.Easing.IsZero():
		if s := Splines(spec.Easing); s != "" {
			attrs = append(attrs, Attr{"calcMode", "spline"}, Attr{"keySplines", s})
		}
	case spec.CalcMode != "":
		attrs = append(attrs, Attr{"calcMode", spec.CalcMode})
	}

	if spec.RepeatCount != "" {
		attrs = append(attrs, Attr{"repeatCount", spec.RepeatCount})
	}
	if spec.Fill != "" {
		attrs = append(attrs, Attr{"fill", spec.Fill})
	}
	if spec.Restart != "" {
		attrs = append(attrs, Attr{"restart", spec.Restart})
	}

	return Directive{attrs: attrs}, nil
}

// CompileAll compiles every animation of one element, iterating
// properties in sorted name order so output is deterministic. The first
// failing property aborts the remainder and no partial results are
// returned; any failure that is not already a ValidationError is
// wrapped into one carrying the property and element context, so
// callers handle a single error kind.
func (c *Compiler) CompileAll(kind element.Kind, specs map[string]Spec, ownerID string) ([]Directive, error) {
	if len(specs) == 0 {
		return nil, nil
	}

	props := make([]string, 0, len(specs))
	for prop := range specs {
		props = append(props, prop)
	}
	sort.Strings(props)

	out := make([]Directive, 0, len(props))
	for _, prop := range props {
		d, err := c.Compile(kind, prop, specs[prop], ownerID)
		if err != nil {
			var verr *ValidationError
			if !errors.As(err, &verr) {
				err = &ValidationError{Kind: err, Property: prop, Element: string(kind)}
			}
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// fmtNum formats checkpoint numbers in their shortest round-trip form.
func fmtNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func joinNums(vals []float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmtNum(v)
	}
	return strings.Join(parts, ";")
}
