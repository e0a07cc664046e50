package cmd

import (
	"context"
	"image"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/zeusync/deimos/internal/config"
	"github.com/zeusync/deimos/internal/core/engine"
	"github.com/zeusync/deimos/internal/core/observability/log"
	"github.com/zeusync/deimos/internal/demo"
	"github.com/zeusync/deimos/internal/injector"
	"github.com/zeusync/deimos/internal/render/ebitenrender"
	"github.com/zeusync/deimos/internal/render/trace"
)

// traceKeep bounds the headless renderer's recording.
const traceKeep = 1024

type runFlags struct {
	configPath string
	headless   bool
	frames     uint64
	logLevel   string
}

func newRunCmd() *cobra.Command {
	var f runFlags
	c := &cobra.Command{
		Use:   "run",
		Short: "Run the demo scene until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	c.Flags().StringVarP(&f.configPath, "config", "c", "", "path to a YAML config file")
	c.Flags().BoolVar(&f.headless, "headless", false, "run without a window")
	c.Flags().Uint64Var(&f.frames, "frames", 0, "stop after this many frames (0 runs forever)")
	c.Flags().StringVar(&f.logLevel, "log-level", "", "override the configured log level")
	return c
}

func loadConfig(cmd *cobra.Command, f runFlags) (*config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		loaded, err := config.LoadFile(f.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("headless") {
		cfg.Window.Enabled = !f.headless
	}
	if cmd.Flags().Changed("frames") {
		cfg.Engine.MaxFrames = f.frames
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	return cfg, nil
}

// run blocks on the calling goroutine, which a window needs to be the main
// one. Signals are watched next to it.
func run(parent context.Context, cfg *config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	rt, err := injector.InitializeRuntime(cfg)
	if err != nil {
		return err
	}
	logger := rt.Logger

	sigCtx, stopSignals := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stopSignals()
	runCtx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	game := demo.New(demo.Options{
		TickRate:      cfg.Engine.TickRate,
		Width:         cfg.Window.Width,
		Height:        cfg.Window.Height,
		SpawnInterval: demo.DefaultOptions().SpawnInterval,
		MaxBlinkers:   demo.DefaultOptions().MaxBlinkers,
	}, logger.With(log.String("component", "demo")))

	opts := rt.Options
	if cfg.Window.Enabled {
		r := ebitenrender.New(image.Rect(0, 0, cfg.Window.Width, cfg.Window.Height), logger)
		game.Attach(r)
		opts = append(opts, engine.WithDriver(ebitenrender.NewDriver(r, cfg.Window, cfg.Engine.TickRate)))
	} else {
		game.Attach(trace.New(trace.WithLogger(logger), trace.WithKeep(traceKeep)))
	}

	host := engine.NewHost()
	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		<-gctx.Done()
		if e := host.Engine(); e != nil {
			e.Stop()
		}
		return nil
	})

	logger.Info("starting engine",
		log.Bool("window", cfg.Window.Enabled),
		log.Int("tick_rate", cfg.Engine.TickRate),
		log.Uint64("max_frames", cfg.Engine.MaxFrames),
	)
	startErr := host.Start(runCtx, game, opts...)
	cancel()
	if err := g.Wait(); err != nil {
		return err
	}
	if startErr != nil {
		return startErr
	}

	e := host.Engine()
	stats := e.Stats()
	logger.Info("engine stopped",
		log.Uint64("frames", e.Frames()),
		log.Uint64("ticks", stats.Ticks),
		log.Uint64("started", stats.Started),
		log.Uint64("stopped", stats.Stopped),
	)
	if err := e.Err(); err != nil {
		return eris.Wrap(err, "engine run failed")
	}
	return nil
}
