// Package events translates classified test outcomes into the generic
// test-event protocol consumed by host build tools.
package events

import "github.com/abdul-hamid-achik/specbridge/packages/core/result"

// Fingerprint is an opaque marker identifying the kind of test for the
// host protocol.
type Fingerprint string

const (
	// FingerprintSpec marks events originating from an executed
	// specification fragment.
	FingerprintSpec Fingerprint = "spec"
)

// NoDuration is the fixed duration sentinel carried by every event:
// the protocol does not track durations.
const NoDuration int64 = -1

// Selector narrows an event to a single test within a task.
type Selector struct {
	TestName string
}

// Event is one standardized protocol event for a classified outcome.
type Event struct {
	FullyQualifiedName string
	Fingerprint        Fingerprint
	Selector           Selector
	Status             result.Status
	Duration           int64
	Throwable          error
}

// Handler receives protocol events. Implementations must not retain
// the event past the call.
type Handler interface {
	Handle(Event) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(Event) error

func (f HandlerFunc) Handle(e Event) error { return f(e) }
