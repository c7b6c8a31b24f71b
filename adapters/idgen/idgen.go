// Package idgen provides identifier generation for elements and
// directives.
package idgen

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/tigerabrodi/rudo/ports"
)

// UUID generates UUIDs. Use when document ids must be unique across
// builds.
type UUID struct{}

// New generates a new UUID v4.
func (UUID) New() string {
	return uuid.New().String()
}

// Ensure interface compliance.
var _ ports.IDGenerator = UUID{}

// Sequential generates prefixed sequential ids: prefix1, prefix2, …
// Deterministic given the same call sequence, which keeps rebuilt
// documents byte-stable. Safe for concurrent use.
type Sequential struct {
	prefix  string
	counter uint64
}

// NewSequential creates a sequential generator with the given prefix.
func NewSequential(prefix string) *Sequential {
	return &Sequential{prefix: prefix}
}

// New generates the next id.
func (s *Sequential) New() string {
	n := atomic.AddUint64(&s.counter, 1)
	return s.prefix + strconv.FormatUint(n, 10)
}

// Reset rewinds the counter (for tests).
func (s *Sequential) Reset() {
	atomic.StoreUint64(&s.counter, 0)
}

// Ensure interface compliance.
var _ ports.IDGenerator = (*Sequential)(nil)
