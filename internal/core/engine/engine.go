// Package engine runs a Game: it owns the component registry, drives the
// tick/render loop and contains failures at the loop boundary.
package engine

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rotisserie/eris"

	"github.com/zeusync/deimos/internal/config"
	"github.com/zeusync/deimos/internal/core/events/bus"
	"github.com/zeusync/deimos/internal/core/lifecycle"
	"github.com/zeusync/deimos/internal/core/observability/log"
	"github.com/zeusync/deimos/internal/core/registry"
	"github.com/zeusync/deimos/internal/core/resolver"
	"github.com/zeusync/deimos/internal/core/scene"
)

var _ Registrar = (*Engine)(nil)

// Engine is the per-process engine context. Engines are created through a
// Host, which guarantees there is only one.
//
// Except for Stop, Stage, Frames and Err, methods must be called from the
// goroutine running the loop (or, for test engines, the test goroutine).
type Engine struct {
	game     Game
	cfg      config.EngineConfig
	logger   log.Log
	bus      bus.EventBus
	registry *registry.Registry
	stage    *StageManager
	driver   Driver
	cleanups []func() error

	running atomic.Bool
	frames  atomic.Uint64

	errMu sync.Mutex
	err   error
}

func newEngine(game Game, opts ...Option) *Engine {
	e := &Engine{
		game:  game,
		stage: NewStageManager(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = log.Provide()
	}
	if e.bus == nil {
		e.bus = bus.New()
	}
	e.registry = registry.New(
		registry.WithResolver(resolver.New(e.onDuplicateMain)),
		registry.WithObserver(lifecycleObserver{e: e}),
	)
	return e
}

// InitComponent runs c's Init hook and queues it for activation on the
// next tick.
func (e *Engine) InitComponent(c lifecycle.Component) error {
	if c == nil {
		return ErrNilComponent
	}
	if err := lifecycle.Describe(c).Init(); err != nil {
		return eris.Wrapf(err, "init %s", c.Kind())
	}
	return e.registry.Register(c)
}

// StopComponent removes c from the schedule and runs its Stop hook if it
// was active. Stopping a component that is not scheduled is a no-op.
func (e *Engine) StopComponent(c lifecycle.Component) error {
	removed, err := e.registry.Remove(c)
	if err != nil {
		return err
	}
	if !removed {
		e.logger.Debug("stop ignored, component not scheduled", log.Stringer("kind", c.Kind()))
	}
	return nil
}

// Tick activates the components registered since the previous tick, then
// ticks every admitted listener.
func (e *Engine) Tick() error {
	if e.stage.Current() != Running {
		return ErrNotRunning
	}
	return e.registry.Advance()
}

// Render traverses the game's current scene with its renderer.
func (e *Engine) Render() error {
	if e.stage.Current() != Running {
		return ErrNotRunning
	}
	renderer, err := e.game.Renderer()
	if err != nil {
		return eris.Wrap(err, "render")
	}
	if renderer == nil {
		return ErrRendererNotAttached
	}
	current := e.game.CurrentScene()
	if current == nil {
		return ErrNoScene
	}
	return scene.Traverse(current, renderer)
}

// Frame runs one full frame, Tick then Render, counting it against the
// frame limit.
func (e *Engine) Frame() error {
	l := frameLoop{e: e, ctx: context.Background()}
	if err := l.Tick(); err != nil {
		return err
	}
	return l.Render()
}

// Stop asks the loop to exit after the current frame. Safe from any
// goroutine.
func (e *Engine) Stop() {
	e.running.Store(false)
}

func (e *Engine) Stage() Stage { return e.stage.Current() }

// Frames is the number of completed frames.
func (e *Engine) Frames() uint64 { return e.frames.Load() }

// Err returns the failure that ended the run, if any.
func (e *Engine) Err() error {
	e.errMu.Lock()
	defer e.errMu.Unlock()
	return e.err
}

func (e *Engine) Stats() registry.Stats { return e.registry.Stats() }

// Listeners returns the active tick listeners in dispatch order.
func (e *Engine) Listeners() []lifecycle.Component {
	return e.registry.Listeners().Collect()
}

func (e *Engine) Bus() bus.EventBus { return e.bus }

func (e *Engine) Logger() log.Log { return e.logger }

func (e *Engine) setStage(to Stage) {
	from := e.stage.Swap(to)
	if from == to {
		return
	}
	e.logger.Info("engine stage changed", log.Stringer("from", from), log.Stringer("to", to))
	e.publish(EventStage, StageEvent{From: from, To: to})
}

func (e *Engine) setErr(err error) {
	e.errMu.Lock()
	e.err = err
	e.errMu.Unlock()
}
