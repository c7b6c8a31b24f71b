// Package app provides application services that orchestrate domain logic.
package app

import (
	"bytes"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tigerabrodi/rudo/domain/anim"
	"github.com/tigerabrodi/rudo/domain/element"
	"github.com/tigerabrodi/rudo/manifest"
	"github.com/tigerabrodi/rudo/ports"
	"github.com/tigerabrodi/rudo/scene"
)

// CompileService turns scene manifests into SVG documents. It owns the
// full pipeline: manifest decoding, parameter resolution, scene
// construction, directive compilation and rendering.
type CompileService struct {
	ids    ports.IDGenerator
	probe  ports.EngineProbe
	clock  ports.Clock
	logger zerolog.Logger

	params *manifest.Resolver
	strict bool
}

// CompileServiceConfig contains configuration for CompileService.
type CompileServiceConfig struct {
	// StrictTriggers turns an unresolvable trigger target into a
	// compile failure instead of a placeholder identifier.
	StrictTriggers bool
}

// NewCompileService creates a compile service.
func NewCompileService(
	ids ports.IDGenerator,
	probe ports.EngineProbe,
	clock ports.Clock,
	logger zerolog.Logger,
	cfg CompileServiceConfig,
) *CompileService {
	return &CompileService{
		ids:    ids,
		probe:  probe,
		clock:  clock,
		logger: logger.With().Str("service", "compile").Logger(),
		params: manifest.NewResolver(),
		strict: cfg.StrictTriggers,
	}
}

// Result is one finished compilation.
type Result struct {
	// SVG is the rendered document, XML declaration included.
	SVG []byte

	// Elements and Directives count what the document contains.
	Elements   int
	Directives int

	Duration   time.Duration
	CompiledAt time.Time
}

// CompileFile compiles the manifest at path into an SVG document.
func (s *CompileService) CompileFile(path string) (*Result, error) {
	doc, err := manifest.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return s.CompileDocument(doc)
}

// Compile compiles manifest bytes into an SVG document.
func (s *CompileService) Compile(data []byte) (*Result, error) {
	doc, err := manifest.Parse(data)
	if err != nil {
		return nil, err
	}
	return s.CompileDocument(doc)
}

// CompileDocument compiles an already-decoded manifest. Callers that
// collected diagnostics through manifest.Validate use this to skip the
// combined parse step.
func (s *CompileService) CompileDocument(doc manifest.Document) (*Result, error) {
	start := s.clock.Now()

	sc, err := s.BuildScene(doc)
	if err != nil {
		return nil, err
	}

	// The probe decides whether directives belong in the document at
	// all. A platform without a timeline gets the static scene.
	var directives map[anim.NodeRef][]anim.Directive
	count := 0
	if s.probe.SupportsTimeline() {
		directives, err = s.CompileScene(sc)
		if err != nil {
			return nil, err
		}
		for _, ds := range directives {
			count += len(ds)
		}
	}

	var buf bytes.Buffer
	if err := scene.Render(&buf, sc, directives, scene.Options{XMLDecl: true}); err != nil {
		return nil, err
	}

	done := s.clock.Now()
	res := &Result{
		SVG:        buf.Bytes(),
		Elements:   sc.Len(),
		Directives: count,
		Duration:   done.Sub(start),
		CompiledAt: done,
	}

	s.logger.Debug().
		Int("elements", res.Elements).
		Int("directives", res.Directives).
		Dur("took", res.Duration).
		Msg("scene compiled")

	return res, nil
}

// CompileScene compiles every element's animation specs into
// directives, keyed by node reference. Trigger targets are assigned
// identifiers first, so directives may begin on elements that carry no
// author id.
func (s *CompileService) CompileScene(sc *scene.Scene) (map[anim.NodeRef][]anim.Directive, error) {
	for _, ref := range sc.Refs() {
		el, _ := sc.Element(ref)
		for _, target := range anim.TriggerTargets(el.Anims) {
			// References outside the scene are left to the compiler,
			// which fails or emits the placeholder per its strictness.
			if _, ok := sc.Element(target); !ok {
				continue
			}
			if _, err := sc.EnsureID(target, s.ids); err != nil {
				return nil, err
			}
		}
	}

	compiler := anim.NewCompiler(anim.Options{
		IDs:      s.ids,
		Resolver: sc,
		Strict:   s.strict,
	})

	directives := make(map[anim.NodeRef][]anim.Directive)
	for _, ref := range sc.Refs() {
		el, _ := sc.Element(ref)
		if len(el.Anims) == 0 {
			continue
		}
		ds, err := compiler.CompileAll(el.Kind, el.Anims, el.ID)
		if err != nil {
			return nil, fmt.Errorf("element %s: %w", elementLabel(ref, el), err)
		}
		directives[ref] = ds
	}
	return directives, nil
}

// BuildScene materializes a decoded manifest into a scene: canvas,
// elements with resolved attribute and animation values, path data.
func (s *CompileService) BuildScene(doc manifest.Document) (*scene.Scene, error) {
	env, err := s.params.ResolveParams(doc)
	if err != nil {
		return nil, err
	}

	sc := scene.New(scene.Canvas{
		Width:      doc.Canvas.Width,
		Height:     doc.Canvas.Height,
		ViewBox:    doc.Canvas.ViewBox,
		Background: doc.Canvas.Background,
	})

	// First pass materializes every element so trigger targets resolve
	// regardless of declaration order.
	refs := make([]anim.NodeRef, len(doc.Elements))
	for i, me := range doc.Elements {
		kind, ok := element.ParseKind(me.Kind)
		if !ok {
			return nil, fmt.Errorf("element %d: unknown kind %q", i, me.Kind)
		}

		el := &scene.Element{ID: me.ID, Kind: kind, Text: me.Text}
		for _, a := range me.Attrs {
			el.Attrs = append(el.Attrs, scene.Attr{Key: a.Key, Value: a.Value})
		}
		for j, step := range me.Path {
			cmd, ok := step.Command()
			if !ok {
				return nil, fmt.Errorf("element %d: path step %d: unknown op %q", i, j, step.Name)
			}
			el.Path = append(el.Path, cmd)
		}
		refs[i] = sc.Add(el)
	}

	// Second pass lowers animations, now that every target id is
	// addressable through the scene.
	for i, me := range doc.Elements {
		if len(me.Animations) == 0 {
			continue
		}
		el, _ := sc.Element(refs[i])
		el.Anims = make(map[string]anim.Spec, len(me.Animations))
		for prop, ma := range me.Animations {
			spec, err := s.toSpec(ma, sc, env)
			if err != nil {
				return nil, fmt.Errorf("element %s: animation %q: %w", elementLabel(refs[i], el), prop, err)
			}
			el.Anims[prop] = spec
		}
	}

	return sc, nil
}

// toSpec lowers one manifest animation into a domain spec, resolving
// parameter expressions to concrete numbers.
func (s *CompileService) toSpec(ma manifest.Animation, sc *scene.Scene, env map[string]float64) (anim.Spec, error) {
	spec := anim.Spec{
		Dur:         string(ma.Dur),
		KeyTimes:    ma.KeyTimes,
		KeySplines:  ma.KeySplines,
		CalcMode:    ma.CalcMode,
		RepeatCount: string(ma.RepeatCount),
		Fill:        ma.Fill,
		Restart:     ma.Restart,
		ID:          ma.ID,
	}

	if ma.From != nil {
		v, err := s.params.Value(*ma.From, env)
		if err != nil {
			return anim.Spec{}, fmt.Errorf("from: %w", err)
		}
		spec.From = &v
	}
	if ma.To != nil {
		v, err := s.params.Value(*ma.To, env)
		if err != nil {
			return anim.Spec{}, fmt.Errorf("to: %w", err)
		}
		spec.To = &v
	}
	for i, n := range ma.Values {
		v, err := s.params.Value(n, env)
		if err != nil {
			return anim.Spec{}, fmt.Errorf("values[%d]: %w", i, err)
		}
		spec.Values = append(spec.Values, v)
	}

	if len(ma.Easing.Names) > 0 {
		spec.Easing = anim.EasingSequence(ma.Easing.Names...)
	} else if ma.Easing.Name != "" {
		spec.Easing = anim.EasingName(ma.Easing.Name)
	}

	if ma.Begin != nil {
		if ma.Begin.IsTrigger() {
			ref, ok := sc.RefByID(ma.Begin.Target)
			if !ok {
				return anim.Spec{}, fmt.Errorf("begin: no element with id %q", ma.Begin.Target)
			}
			event, ok := anim.ParseEvent(ma.Begin.Event)
			if !ok {
				return anim.Spec{}, fmt.Errorf("begin: unknown event %q", ma.Begin.Event)
			}
			spec.Begin = anim.BeginOn(event, ref)
		} else {
			spec.Begin = anim.BeginLiteral(ma.Begin.Literal)
		}
	}

	return spec, nil
}

// elementLabel names an element for diagnostics, preferring its id.
func elementLabel(ref anim.NodeRef, el *scene.Element) string {
	if el.ID != "" {
		return el.ID
	}
	return string(ref)
}
