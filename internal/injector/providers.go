// Package injector wires the engine runtime out of a loaded Config.
package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/deimos/internal/config"
	"github.com/zeusync/deimos/internal/core/engine"
	"github.com/zeusync/deimos/internal/core/events/bus"
	"github.com/zeusync/deimos/internal/core/observability/log"
)

// Runtime is everything the engine host needs besides the game itself.
type Runtime struct {
	Config  *config.Config
	Logger  *log.Logger
	Bus     bus.EventBus
	Options []engine.Option
}

var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideBus,
	ProvideEngineOptions,
	wire.Struct(new(Runtime), "*"),
)

// ProvideLogger validates cfg and builds the process logger at the
// configured level.
func ProvideLogger(cfg *config.Config) (*log.Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return log.New(cfg.LogLevel()), nil
}

func ProvideBus() bus.EventBus {
	return bus.New()
}

// ProvideEngineOptions turns the runtime parts into engine options. The
// logger is flushed as the last cleanup step.
func ProvideEngineOptions(cfg *config.Config, logger *log.Logger, b bus.EventBus) []engine.Option {
	return []engine.Option{
		engine.WithConfig(cfg.Engine),
		engine.WithLogger(logger.With(log.String("component", "engine"))),
		engine.WithBus(b),
		engine.WithCleanup(func() error {
			// stderr can't always be synced; nothing to report then.
			_ = logger.Sync()
			return nil
		}),
	}
}
