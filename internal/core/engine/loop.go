package engine

import (
	"context"
	"errors"

	"github.com/rotisserie/eris"

	"github.com/zeusync/deimos/internal/core/observability/log"
)

// run performs init and, when loop is set, the frame loop. Any failure,
// returned or panicked, is contained here and reported. A full run always
// ends in cleanup; a test run without failure stays Running.
func (e *Engine) run(ctx context.Context, loop bool) {
	e.running.Store(true)
	err := contain(func() error {
		if err := e.init(); err != nil {
			return err
		}
		if !loop {
			return nil
		}
		return e.loop(ctx)
	})
	if err != nil {
		e.report(err)
	}
	if loop || err != nil {
		e.cleanup()
	}
}

func (e *Engine) init() error {
	e.setStage(Initializing)
	if err := e.game.Load(e); err != nil {
		return eris.Wrap(err, "load game")
	}
	e.setStage(Running)
	return nil
}

func (e *Engine) loop(ctx context.Context) error {
	driver := e.driver
	if driver == nil {
		driver = Paced(e.cfg.FrameInterval())
	}
	return driver.Drive(ctx, frameLoop{e: e, ctx: ctx})
}

// cleanup runs the cleanup hooks in reverse order. Without hooks it only
// moves the engine to Stopped.
func (e *Engine) cleanup() error {
	if e.stage.Current() == Stopped {
		return nil
	}
	e.running.Store(false)
	e.setStage(Stopping)

	var all error
	for i := len(e.cleanups) - 1; i >= 0; i-- {
		if err := contain(e.cleanups[i]); err != nil {
			e.logger.Error("cleanup hook failed", log.Error(err))
			all = errors.Join(all, err)
		}
	}
	e.setStage(Stopped)
	return all
}

// Close ends an engine created with Test. It is a no-op for engines that
// already stopped.
func (e *Engine) Close() error {
	return e.cleanup()
}

func (e *Engine) report(err error) {
	e.setErr(err)
	e.logger.Error("engine loop failed",
		log.Uint64("frame", e.frames.Load()),
		log.String("trace", eris.ToString(err, true)),
		log.Error(err),
	)
	e.publish(EventFailure, FailureEvent{Err: err, Frame: e.frames.Load()})
}

// contain runs fn and turns a panic into an error.
func contain(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if rerr, ok := r.(error); ok {
				err = eris.Wrap(rerr, "panic")
				return
			}
			err = eris.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
