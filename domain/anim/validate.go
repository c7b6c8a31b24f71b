package anim

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tigerabrodi/rudo/domain/element"
)

// Validation failure kinds. Each ValidationError unwraps to exactly one
// of these, so callers can match with errors.Is.
var (
	ErrUnknownKind          = errors.New("unknown-element-kind")
	ErrNotAnimatable        = errors.New("property-not-animatable")
	ErrEasingLengthMismatch = errors.New("easing-length-mismatch")
	ErrKeyTimesLength       = errors.New("keytimes-length-mismatch")
	ErrKeyTimesOutOfRange   = errors.New("keytimes-out-of-range")
	ErrKeyTimesNotAscending = errors.New("keytimes-not-ascending")
	ErrKeyTimesStartZero    = errors.New("keytimes-must-start-zero")
	ErrKeyTimesEndOne       = errors.New("keytimes-must-end-one")
	ErrMissingValues        = errors.New("missing-values-or-endpoints")
	ErrTriggerUnresolved    = errors.New("trigger-target-unresolved")
)

// ValidationError is the single error kind every compilation failure
// surfaces as. It names the offending property and its owning element
// so callers can degrade per element without crashing the host tree.
type ValidationError struct {
	Kind     error  // failure kind sentinel (or wrapped underlying error)
	Property string // animated attribute name
	Element  string // owning element tag
	Message  string // human detail, may be empty
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("animate %q on <%s>: %v", e.Property, e.Element, e.Kind)
	}
	return fmt.Sprintf("animate %q on <%s>: %v: %s", e.Property, e.Element, e.Kind, e.Message)
}

// Unwrap exposes the failure kind for errors.Is matching.
func (e *ValidationError) Unwrap() error { return e.Kind }

func failf(kind error, k element.Kind, property, format string, args ...any) *ValidationError {
	return &ValidationError{
		Kind:     kind,
		Property: property,
		Element:  string(k),
		Message:  fmt.Sprintf(format, args...),
	}
}

// Validate enforces the structural invariants of one animation spec.
// Checks run in a fixed order and short-circuit on the first failure;
// a single violated rule rejects the entire spec for that property.
func Validate(kind element.Kind, property string, spec Spec) error {
	if !element.Known(kind) {
		return &ValidationError{Kind: ErrUnknownKind, Property: property, Element: string(kind)}
	}
	if !element.Animatable(kind, property) {
		return failf(ErrNotAnimatable, kind, property,
			"animatable attributes: %s", strings.Join(element.AnimatableAttrs(kind), ", "))
	}

	if len(spec.Values) > 0 {
		transitions := len(spec.Values) - 1

		if spec.Easing.IsSequence() && len(spec.Easing.Names) != transitions {
			return failf(ErrEasingLengthMismatch, kind, property,
				"%d curves for %d transitions", len(spec.Easing.Names), transitions)
		}

		if spec.KeyTimes != nil {
			if len(spec.KeyTimes) != len(spec.Values) {
				return failf(ErrKeyTimesLength, kind, property,
					"%d checkpoints for %d values", len(spec.KeyTimes), len(spec.Values))
			}
			for i, v := range spec.KeyTimes {
				if v < 0 || v > 1 {
					return failf(ErrKeyTimesOutOfRange, kind, property,
						"keyTimes[%d] = %s", i, fmtNum(v))
				}
				if i > 0 && v <= spec.KeyTimes[i-1] {
					return failf(ErrKeyTimesNotAscending, kind, property,
						"keyTimes[%d] = %s after %s", i, fmtNum(v), fmtNum(spec.KeyTimes[i-1]))
				}
			}
			if spec.KeyTimes[0] != 0 {
				return failf(ErrKeyTimesStartZero, kind, property,
					"starts at %s", fmtNum(spec.KeyTimes[0]))
			}
			if spec.KeyTimes[len(spec.KeyTimes)-1] != 1 {
				return failf(ErrKeyTimesEndOne, kind, property,
					"ends at %s", fmtNum(spec.KeyTimes[len(spec.KeyTimes)-1]))
			}
		}

		return nil
	}

	if spec.From == nil || spec.To == nil {
		return failf(ErrMissingValues, kind, property, "need values or both from and to")
	}

	return nil
}
