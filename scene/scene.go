// Package scene models the animated SVG document: an ordered element
// list with stable node identity, and serialization that attaches
// compiled animation directives to their owning elements.
package scene

import (
	"fmt"
	"strconv"

	"github.com/tigerabrodi/rudo/domain/anim"
	"github.com/tigerabrodi/rudo/domain/element"
	"github.com/tigerabrodi/rudo/domain/pathdata"
)

// Canvas holds document-level geometry and backdrop.
type Canvas struct {
	Width      float64
	Height     float64
	ViewBox    string // optional, emitted verbatim
	Background string // optional fill color for a full-bleed backdrop
}

// Attr is one static presentation attribute of an element.
type Attr struct {
	Key   string
	Value string
}

// Element is one visual node of the scene.
type Element struct {
	// ID is the stable document identifier. Empty until the author or
	// EnsureID assigns one.
	ID string

	Kind element.Kind

	// Attrs are static attributes in declaration order.
	Attrs []Attr

	// Text is the character content of text kind elements.
	Text string

	// Path holds the path data for path-kind elements.
	Path []pathdata.Command

	// Anims maps attribute names to their animation specs.
	Anims map[string]anim.Spec
}

// Scene is an ordered element collection plus canvas metadata. It owns
// node identity: elements are addressed through the opaque references
// handed out by Add, and trigger resolution reads identifiers through
// NodeID. Not safe for concurrent mutation.
type Scene struct {
	Canvas Canvas

	refs     []anim.NodeRef
	elements map[anim.NodeRef]*Element
	byID     map[string]anim.NodeRef
	next     int
}

// New returns an empty scene on the given canvas.
func New(canvas Canvas) *Scene {
	return &Scene{
		Canvas:   canvas,
		elements: make(map[anim.NodeRef]*Element),
		byID:     make(map[string]anim.NodeRef),
	}
}

// Add registers el and returns the opaque reference that addresses it
// from now on. References are generational: n1, n2, … in insertion
// order. The scene keeps the pointer; later mutation of el is visible
// to the scene.
func (s *Scene) Add(el *Element) anim.NodeRef {
	s.next++
	ref := anim.NodeRef("n" + strconv.Itoa(s.next))
	s.refs = append(s.refs, ref)
	s.elements[ref] = el
	if el.ID != "" {
		s.byID[el.ID] = ref
	}
	return ref
}

// Refs returns every node reference in insertion order.
func (s *Scene) Refs() []anim.NodeRef {
	out := make([]anim.NodeRef, len(s.refs))
	copy(out, s.refs)
	return out
}

// Element returns the element behind ref.
func (s *Scene) Element(ref anim.NodeRef) (*Element, bool) {
	el, ok := s.elements[ref]
	return el, ok
}

// RefByID returns the reference of the element carrying the given
// author-assigned identifier.
func (s *Scene) RefByID(id string) (anim.NodeRef, bool) {
	ref, ok := s.byID[id]
	return ref, ok
}

// Len returns the element count.
func (s *Scene) Len() int {
	return len(s.refs)
}

// NodeID resolves ref to the stable identifier of the element behind
// it. Elements without an assigned id do not resolve.
func (s *Scene) NodeID(ref anim.NodeRef) (string, bool) {
	el, ok := s.elements[ref]
	if !ok || el.ID == "" {
		return "", false
	}
	return el.ID, true
}

// EnsureID returns the identifier of the element behind ref, drawing
// one from gen when the element has none. Generated values that
// collide with an already-registered id are discarded and redrawn.
func (s *Scene) EnsureID(ref anim.NodeRef, gen anim.IDSource) (string, error) {
	el, ok := s.elements[ref]
	if !ok {
		return "", fmt.Errorf("scene: unknown node reference %q", ref)
	}
	if el.ID != "" {
		return el.ID, nil
	}

	id := gen.New()
	for _, taken := s.byID[id]; taken; _, taken = s.byID[id] {
		id = gen.New()
	}
	el.ID = id
	s.byID[id] = ref
	return id, nil
}

var _ anim.TargetResolver = (*Scene)(nil)
