// Package registry owns the pending-component buffer and the active tick
// listener list, and drives one activation + dispatch pass per tick.
//
// Mutation from inside hooks is always safe: registrations made while a
// pass runs land in a fresh pending buffer and are first seen on the next
// Advance, and the dispatch pass walks a snapshot of the active list.
package registry

import (
	"errors"
	"slices"

	"github.com/rotisserie/eris"

	"github.com/zeusync/deimos/internal/core/lifecycle"
	"github.com/zeusync/deimos/internal/core/resolver"
	"github.com/zeusync/deimos/pkg/generic"
	"github.com/zeusync/deimos/pkg/sequence"
)

var ErrNilComponent = errors.New("component is nil")

const snapshotCapacity = 64

type entry struct {
	desc          lifecycle.Descriptor
	state         State
	stopRequested bool
}

// Observer is notified about lifecycle transitions. Calls happen inline on
// the ticking goroutine.
type Observer interface {
	OnStarted(d lifecycle.Descriptor, ticking bool)
	OnStopped(d lifecycle.Descriptor)
}

// Registry is not safe for concurrent use; it belongs to the engine's
// single loop goroutine.
type Registry struct {
	pending []*entry
	active  []*entry
	entries map[lifecycle.Component]*entry

	resolver  *resolver.Resolver
	observer  Observer
	snapshots *generic.SlicePool[*entry]

	started uint64
	stopped uint64
	ticks   uint64
	passes  uint64
}

type Option func(*Registry)

// WithResolver replaces the default resolver, which drops duplicates
// without reporting them.
func WithResolver(r *resolver.Resolver) Option {
	return func(reg *Registry) { reg.resolver = r }
}

func WithObserver(o Observer) Option {
	return func(reg *Registry) { reg.observer = o }
}

func New(opts ...Option) *Registry {
	r := &Registry{
		entries:   make(map[lifecycle.Component]*entry),
		snapshots: generic.NewSlicePool[*entry](snapshotCapacity),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.resolver == nil {
		r.resolver = resolver.New(nil)
	}
	return r
}

// Register queues c for activation on the next Advance. Registering a
// component that is already pending or active queues it again, but the
// duplicate is skipped at activation time.
func (r *Registry) Register(c lifecycle.Component) error {
	if c == nil {
		return ErrNilComponent
	}
	e, ok := r.entries[c]
	if !ok {
		e = &entry{desc: lifecycle.Describe(c), state: StatePending}
		r.entries[c] = e
	}
	r.pending = append(r.pending, e)
	return nil
}

// Advance drains the pending buffer, starting each component once, then
// ticks every active listener admitted by the resolver.
func (r *Registry) Advance() error {
	if err := r.activate(); err != nil {
		return err
	}
	return r.dispatch()
}

func (r *Registry) activate() error {
	if len(r.pending) == 0 {
		return nil
	}
	batch := r.pending
	r.pending = nil

	for i, e := range batch {
		if e.state != StatePending {
			continue
		}
		e.state = StateStarting
		if err := e.desc.Start(); err != nil {
			e.state = StateFailed
			delete(r.entries, e.desc.Component())
			// Components behind the failed one were never looked at; they
			// go back to the front of the queue.
			r.pending = append(slices.Clone(batch[i+1:]), r.pending...)
			return eris.Wrapf(err, "start %s", e.desc)
		}
		r.started++

		ticking := e.desc.Has(lifecycle.CapTick)
		if ticking {
			e.state = StateActive
			r.active = append(r.active, e)
		} else {
			e.state = StateFinished
			delete(r.entries, e.desc.Component())
		}
		if r.observer != nil {
			r.observer.OnStarted(e.desc, ticking)
		}

		if e.stopRequested {
			if _, err := r.stop(e); err != nil {
				r.pending = append(slices.Clone(batch[i+1:]), r.pending...)
				return err
			}
		}
	}
	return nil
}

func (r *Registry) dispatch() error {
	snapshot := r.snapshots.Get()
	defer r.snapshots.Put(snapshot)
	*snapshot = append(*snapshot, r.active...)

	r.passes++
	r.resolver.Begin()
	for _, e := range *snapshot {
		// Removed earlier in this pass.
		if e.state != StateActive {
			continue
		}
		if r.resolver.Admit(e.desc) != resolver.Tick {
			continue
		}
		if err := e.desc.Tick(); err != nil {
			return eris.Wrapf(err, "tick %s", e.desc)
		}
		r.ticks++
	}
	return nil
}

// Remove takes c out of the schedule. An active listener leaves the active
// list at once and gets its Stop hook; it receives no further Tick, not
// even later in the pass that is currently running. A component still
// waiting for activation is cancelled without running any hook. The
// returned bool reports whether c was scheduled at all.
func (r *Registry) Remove(c lifecycle.Component) (bool, error) {
	if c == nil {
		return false, ErrNilComponent
	}
	e, ok := r.entries[c]
	if !ok {
		return false, nil
	}
	switch e.state {
	case StatePending:
		e.state = StateStopped
		delete(r.entries, c)
		return true, nil
	case StateStarting:
		e.stopRequested = true
		return true, nil
	case StateActive:
		return r.stop(e)
	default:
		return false, nil
	}
}

func (r *Registry) stop(e *entry) (bool, error) {
	if e.state == StateActive {
		r.active = slices.DeleteFunc(r.active, func(a *entry) bool { return a == e })
	}
	e.state = StateStopped
	delete(r.entries, e.desc.Component())
	r.stopped++

	err := e.desc.Stop()
	if r.observer != nil {
		r.observer.OnStopped(e.desc)
	}
	if err != nil {
		return true, eris.Wrapf(err, "stop %s", e.desc)
	}
	return true, nil
}

// State reports where c currently is in its lifecycle. Components that
// finished or were stopped are no longer tracked and report
// StateUnregistered.
func (r *Registry) State(c lifecycle.Component) State {
	if e, ok := r.entries[c]; ok {
		return e.state
	}
	return StateUnregistered
}

// Listeners iterates over a snapshot of the active list in dispatch order.
func (r *Registry) Listeners() *sequence.Iterator[lifecycle.Component] {
	out := make([]lifecycle.Component, len(r.active))
	for i, e := range r.active {
		out[i] = e.desc.Component()
	}
	return sequence.From(out)
}

// Pending is the number of queued registrations, duplicates included.
func (r *Registry) Pending() int { return len(r.pending) }

// Len is the number of active tick listeners.
func (r *Registry) Len() int { return len(r.active) }

func (r *Registry) Stats() Stats {
	return Stats{
		Pending:    len(r.pending),
		Active:     len(r.active),
		Started:    r.started,
		Stopped:    r.stopped,
		Ticks:      r.ticks,
		Passes:     r.passes,
		Duplicates: r.resolver.Duplicates(),
	}
}
