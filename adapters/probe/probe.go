// Package probe implements engine capability probes.
package probe

import "github.com/tigerabrodi/rudo/ports"

// Static answers the timeline-support question with a fixed value.
// Wired from config and the build --static flag: a false probe makes
// the pipeline emit static documents with no directives attached.
type Static struct {
	Timeline bool
}

// SupportsTimeline reports the configured answer.
func (s Static) SupportsTimeline() bool {
	return s.Timeline
}

// Ensure interface compliance.
var _ ports.EngineProbe = Static{}
