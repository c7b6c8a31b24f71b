// Package ports defines interfaces (contracts) between layers.
// These interfaces enable dependency injection and testability.
// Implementations live in adapters/.
package ports

import "time"

// IDGenerator generates unique identifiers.
// Used for directive ids when a spec carries none and for assigning
// stable ids to trigger-target elements before compilation.
type IDGenerator interface {
	New() string
}

// Clock provides the current time. Injected so compile timestamps and
// durations are controllable in tests.
type Clock interface {
	Now() time.Time
}

// EngineProbe reports whether the host platform can execute declarative
// timeline animations. The compile pipeline consults it before attaching
// directives to the rendered document; the compiler core never does.
type EngineProbe interface {
	SupportsTimeline() bool
}
