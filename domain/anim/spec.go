// Package anim implements the animation specification compiler. It
// validates per-attribute animation specs and lowers them into SMIL
// <animate> directives; executing the directives is left entirely to
// the host platform's native timeline engine.
//
// All functions are deterministic. The only shared state is a
// process-wide atomic counter used for fallback directive ids when a
// spec carries none and no IDSource is injected.
package anim

// Event is one of the closed set of trigger event kinds.
type Event string

// Supported trigger events.
const (
	EventClick      Event = "click"
	EventMouseEnter Event = "mouseenter"
	EventMouseLeave Event = "mouseleave"
	EventFocus      Event = "focus"
	EventBlur       Event = "blur"
	EventLoad       Event = "load"
)

var events = map[Event]bool{
	EventClick:      true,
	EventMouseEnter: true,
	EventMouseLeave: true,
	EventFocus:      true,
	EventBlur:       true,
	EventLoad:       true,
}

// ParseEvent maps an event name into the closed event set.
func ParseEvent(s string) (Event, bool) {
	e := Event(s)
	return e, events[e]
}

// NodeRef is an opaque reference to an externally owned node. It is a
// lookup key only: the compiler reads the target's identifier through
// it and never creates, destroys, or mutates the node behind it.
type NodeRef string

// Trigger describes "start this animation when event E occurs on node N".
type Trigger struct {
	Event  Event
	Target NodeRef
}

// Begin is an animation's begin field: either a literal platform
// expression passed through verbatim, or a structured trigger resolved
// against the target node's identifier.
type Begin struct {
	Literal string
	Trigger *Trigger
}

// BeginLiteral returns a begin field carrying a raw platform expression.
// The caller accepts responsibility for its syntax.
func BeginLiteral(expr string) *Begin {
	return &Begin{Literal: expr}
}

// BeginOn returns a begin field that starts the animation when event
// fires on the node behind target.
func BeginOn(event Event, target NodeRef) *Begin {
	return &Begin{Trigger: &Trigger{Event: event, Target: target}}
}

// EasingSpec names the curve shaping an animation: a single curve for
// the whole animation, or one curve per value transition.
type EasingSpec struct {
	Name  string   // single named curve; empty when Names is set
	Names []string // one curve per transition; nil when Name is set
}

// EasingName returns a single-curve easing spec.
func EasingName(name string) EasingSpec {
	return EasingSpec{Name: name}
}

// EasingSequence returns a per-transition easing spec.
func EasingSequence(names ...string) EasingSpec {
	return EasingSpec{Names: names}
}

// IsZero reports whether no easing was specified.
func (e EasingSpec) IsZero() bool {
	return e.Name == "" && len(e.Names) == 0
}

// IsSequence reports whether the spec carries one curve per transition.
func (e EasingSpec) IsSequence() bool {
	return len(e.Names) > 0
}

// Spec describes the animation of a single attribute of a single
// element. Exactly one of Values or the From/To pair must be present;
// everything else is optional.
type Spec struct {
	// Endpoint form: both must be set when Values is absent.
	From *float64
	To   *float64

	// Checkpoint form: ordered value sequence, length >= 2.
	Values []float64

	// Dur is a platform-formatted time-span literal (for example "2s"
	// or "750ms"), opaque to the compiler and passed through verbatim.
	Dur string

	// Begin starts the animation on a trigger or a literal expression.
	// Nil means the platform default (document load).
	Begin *Begin

	// KeyTimes holds normalized time checkpoints in [0,1], strictly
	// ascending, first 0 and last 1, one per entry in Values.
	KeyTimes []float64

	// Easing names the interpolation curve(s). Overridden by KeySplines.
	Easing EasingSpec

	// KeySplines is a raw control-point string. When set it forces
	// spline interpolation and takes precedence over Easing.
	KeySplines string

	// CalcMode is an explicit interpolation mode, emitted verbatim only
	// when neither Easing nor KeySplines is present.
	CalcMode string

	// Pass-through behavior modifiers, emitted verbatim when set.
	RepeatCount string
	Fill        string
	Restart     string

	// ID names the produced directive. Generated when empty.
	ID string
}

// IDSource supplies identifiers for directives whose spec carries none.
// Implementations must be safe for concurrent use.
type IDSource interface {
	New() string
}
