// Package resolver decides, once per dispatch pass, which main-instance
// candidates get ticked.
package resolver

import "github.com/zeusync/deimos/internal/core/lifecycle"

// Verdict is the outcome of Admit for one candidate.
type Verdict uint8

const (
	// Tick: the candidate ticks this pass.
	Tick Verdict = iota
	// Inactive: declares main-instance semantics but is not the main one.
	Inactive
	// Duplicate: another active main of the same kind already ticked.
	Duplicate
)

func (v Verdict) String() string {
	switch v {
	case Tick:
		return "tick"
	case Inactive:
		return "inactive"
	case Duplicate:
		return "duplicate"
	default:
		return "unknown"
	}
}

// DuplicateFunc is called once for every skipped duplicate main instance.
type DuplicateFunc func(kind lifecycle.Kind, component lifecycle.Component)

// Resolver keeps the per-pass set of kinds whose main instance was seen.
type Resolver struct {
	seen        map[uint64]struct{}
	onDuplicate DuplicateFunc
	duplicates  uint64
}

func New(onDuplicate DuplicateFunc) *Resolver {
	return &Resolver{
		seen:        make(map[uint64]struct{}),
		onDuplicate: onDuplicate,
	}
}

// Begin starts a new pass. Duplicates are detected per pass, never across
// passes.
func (r *Resolver) Begin() {
	clear(r.seen)
}

// Admit classifies d for the current pass.
func (r *Resolver) Admit(d lifecycle.Descriptor) Verdict {
	declared, active := d.MainState()
	if !declared {
		return Tick
	}
	if !active {
		return Inactive
	}

	key := d.Kind().Key()
	if _, ok := r.seen[key]; ok {
		r.duplicates++
		if r.onDuplicate != nil {
			r.onDuplicate(d.Kind(), d.Component())
		}
		return Duplicate
	}
	r.seen[key] = struct{}{}
	return Tick
}

// Duplicates returns how many duplicate mains were skipped since creation.
func (r *Resolver) Duplicates() uint64 {
	return r.duplicates
}
