package engine

import (
	"github.com/zeusync/deimos/internal/core/events/bus"
	"github.com/zeusync/deimos/internal/core/lifecycle"
	"github.com/zeusync/deimos/internal/core/observability/log"
)

// Event types published on the engine bus.
const (
	EventStage            = "engine.stage"
	EventFailure          = "engine.failure"
	EventComponentStarted = "component.started"
	EventComponentStopped = "component.stopped"
	EventDuplicateMain    = "main.duplicate"
)

const eventSource = "engine"

type StageEvent struct {
	From, To Stage
}

type ComponentEvent struct {
	Kind         lifecycle.Kind
	Component    lifecycle.Component
	Capabilities lifecycle.Capabilities
	Ticking      bool
}

type DuplicateMainEvent struct {
	Kind      lifecycle.Kind
	Component lifecycle.Component
	Frame     uint64
}

type FailureEvent struct {
	Err   error
	Frame uint64
}

func (e *Engine) publish(eventType string, data any) {
	if err := e.bus.Publish(bus.NewEvent(eventType, eventSource, data)); err != nil {
		e.logger.Warn("event handler failed", log.String("event", eventType), log.Error(err))
	}
}

// lifecycleObserver forwards registry transitions to the log and the bus.
type lifecycleObserver struct {
	e *Engine
}

func (o lifecycleObserver) OnStarted(d lifecycle.Descriptor, ticking bool) {
	o.e.logger.Debug("component started",
		log.Stringer("kind", d.Kind()),
		log.Stringer("capabilities", d.Capabilities()),
		log.Bool("ticking", ticking),
	)
	o.e.publish(EventComponentStarted, ComponentEvent{
		Kind:         d.Kind(),
		Component:    d.Component(),
		Capabilities: d.Capabilities(),
		Ticking:      ticking,
	})
}

func (o lifecycleObserver) OnStopped(d lifecycle.Descriptor) {
	o.e.logger.Debug("component stopped", log.Stringer("kind", d.Kind()))
	o.e.publish(EventComponentStopped, ComponentEvent{
		Kind:         d.Kind(),
		Component:    d.Component(),
		Capabilities: d.Capabilities(),
	})
}

func (e *Engine) onDuplicateMain(kind lifecycle.Kind, c lifecycle.Component) {
	frame := e.frames.Load()
	e.logger.Warn("duplicate main instance skipped",
		log.Stringer("kind", kind),
		log.Uint64("frame", frame),
	)
	e.publish(EventDuplicateMain, DuplicateMainEvent{Kind: kind, Component: c, Frame: frame})
}
