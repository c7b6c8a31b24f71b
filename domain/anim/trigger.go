package anim

import "sort"

// PlaceholderID is substituted when a structured trigger's target has
// no resolvable identifier. The resulting begin expression is
// syntactically valid but functionally inert; compilation still
// succeeds unless the compiler runs in strict mode.
const PlaceholderID = "unresolved"

// TargetResolver resolves a node reference to the stable identifier
// the owning layer assigned to it. Supplying identifiers is the owning
// layer's job, not the compiler's.
type TargetResolver interface {
	NodeID(ref NodeRef) (string, bool)
}

// ResolveBegin converts a begin field into the directive's begin
// expression. Literal expressions pass through unchanged. A structured
// trigger resolves to "<targetID>.<event>" using the target's
// identifier, never the animated element's. The second return reports
// whether resolution succeeded; on failure the expression carries
// PlaceholderID in place of the target identifier.
func ResolveBegin(b *Begin, resolver TargetResolver) (string, bool) {
	if b == nil {
		return "", true
	}
	if b.Trigger == nil {
		return b.Literal, true
	}

	id := ""
	ok := false
	if resolver != nil {
		id, ok = resolver.NodeID(b.Trigger.Target)
	}
	if !ok || id == "" {
		return PlaceholderID + "." + string(b.Trigger.Event), false
	}
	return id + "." + string(b.Trigger.Event), true
}

// TriggerTargets scans every spec's begin field and collects the
// distinct target references used by structured triggers, skipping
// literal begins. The owning layer uses this to assign identifiers to
// all trigger targets before compilation runs. Order is deterministic:
// first appearance over sorted property names.
func TriggerTargets(specs map[string]Spec) []NodeRef {
	if len(specs) == 0 {
		return nil
	}

	props := make([]string, 0, len(specs))
	for prop := range specs {
		props = append(props, prop)
	}
	sort.Strings(props)

	seen := make(map[NodeRef]bool)
	var refs []NodeRef
	for _, prop := range props {
		b := specs[prop].Begin
		if b == nil || b.Trigger == nil {
			continue
		}
		if seen[b.Trigger.Target] {
			continue
		}
		seen[b.Trigger.Target] = true
		refs = append(refs, b.Trigger.Target)
	}
	return refs
}
