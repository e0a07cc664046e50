package engine

import (
	"context"
	"sync"

	"github.com/zeusync/deimos/internal/core/observability/log"
)

// Host guards engine construction: its first Start or Test creates the
// engine, every later call fails with ErrAlreadyStarted and leaves that
// engine untouched.
type Host struct {
	mu     sync.Mutex
	engine *Engine
}

func NewHost() *Host {
	return &Host{}
}

var defaultHost = NewHost()

// Start runs game on the process-wide host. See Host.Start.
func Start(ctx context.Context, game Game, opts ...Option) error {
	return defaultHost.Start(ctx, game, opts...)
}

// Test initialises game on the process-wide host. See Host.Test.
func Test(game Game, opts ...Option) (*Engine, error) {
	return defaultHost.Test(game, opts...)
}

// Start creates the engine, loads the game and runs frames until the
// engine is stopped, ctx is cancelled, the frame limit is hit or a frame
// fails. Failures inside the run are reported and kept in Engine.Err;
// Start itself only fails when the engine cannot be created.
func (h *Host) Start(ctx context.Context, game Game, opts ...Option) error {
	e, err := h.claim(game, opts)
	if err != nil {
		return err
	}
	e.run(ctx, true)
	return nil
}

// Test creates the engine and loads the game without entering the loop.
// The caller drives it with Tick, Render or Frame and ends it with Close.
// A load failure is reported like in Start and leaves the engine Stopped.
func (h *Host) Test(game Game, opts ...Option) (*Engine, error) {
	e, err := h.claim(game, opts)
	if err != nil {
		return nil, err
	}
	e.run(context.Background(), false)
	return e, nil
}

// Engine returns the engine created by this host, or nil.
func (h *Host) Engine() *Engine {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.engine
}

func (h *Host) claim(game Game, opts []Option) (*Engine, error) {
	if game == nil {
		return nil, ErrNilGame
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.engine != nil {
		h.engine.logger.Error("engine start rejected", log.Error(ErrAlreadyStarted))
		return nil, ErrAlreadyStarted
	}
	h.engine = newEngine(game, opts...)
	return h.engine, nil
}
