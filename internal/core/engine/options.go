package engine

import (
	"github.com/zeusync/deimos/internal/config"
	"github.com/zeusync/deimos/internal/core/events/bus"
	"github.com/zeusync/deimos/internal/core/observability/log"
)

type Option func(*Engine)

func WithLogger(l log.Log) Option {
	return func(e *Engine) { e.logger = l }
}

func WithBus(b bus.EventBus) Option {
	return func(e *Engine) { e.bus = b }
}

func WithConfig(c config.EngineConfig) Option {
	return func(e *Engine) { e.cfg = c }
}

// WithDriver replaces the paced default loop, for example with a window
// that runs its own frame callbacks.
func WithDriver(d Driver) Option {
	return func(e *Engine) { e.driver = d }
}

// WithCleanup adds a hook to the cleanup phase. Hooks run in reverse order
// of registration.
func WithCleanup(fn func() error) Option {
	return func(e *Engine) { e.cleanups = append(e.cleanups, fn) }
}
