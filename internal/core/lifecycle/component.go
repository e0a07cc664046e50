// Package lifecycle defines the closed set of hooks a component may declare
// and the Descriptor the registry dispatches through.
package lifecycle

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Kind names the concrete kind of a component. Two components with the
// same Kind compete for the same main-instance slot.
type Kind string

// Key returns a stable 64-bit identity for the kind.
func (k Kind) Key() uint64 {
	return xxhash.Sum64String(string(k))
}

func (k Kind) String() string {
	return string(k)
}

// Component is anything the engine can schedule. Identity is reference
// equality, so implementations should be pointer types.
type Component interface {
	Kind() Kind
}

// Initializer runs once, before the component is queued for activation.
type Initializer interface {
	OnInit() error
}

// Starter runs once, on the tick boundary after registration and before
// the first OnTick.
type Starter interface {
	OnStart() error
}

// Ticker receives one call per frame while active.
type Ticker interface {
	OnTick() error
}

// Stopper runs once when the component is removed from the active list.
type Stopper interface {
	OnStop() error
}

// MainInstance lets several instances of one kind coexist while only the
// one reporting true is ticked.
type MainInstance interface {
	IsMainInstance() bool
}

// Capability is one bit of the closed hook set.
type Capability uint8

const (
	CapInit Capability = 1 << iota
	CapStart
	CapTick
	CapStop
	CapMainInstance
)

var capabilityNames = [...]struct {
	c    Capability
	name string
}{
	{CapInit, "init"},
	{CapStart, "start"},
	{CapTick, "tick"},
	{CapStop, "stop"},
	{CapMainInstance, "main"},
}

// Capabilities is a set of Capability bits.
type Capabilities uint8

func (c Capabilities) Has(want Capability) bool {
	return Capabilities(want)&c != 0
}

func (c Capabilities) String() string {
	if c == 0 {
		return "none"
	}
	var parts []string
	for _, n := range capabilityNames {
		if c.Has(n.c) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}
