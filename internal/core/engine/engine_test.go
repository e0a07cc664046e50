package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zeusync/deimos/internal/config"
	"github.com/zeusync/deimos/internal/core/events/bus"
	"github.com/zeusync/deimos/internal/core/lifecycle"
	"github.com/zeusync/deimos/internal/core/observability/log"
	"github.com/zeusync/deimos/internal/core/scene"
)

type testGame struct {
	load     func(r Registrar) error
	scene    scene.Scene
	renderer scene.Renderer
}

func (g *testGame) Load(r Registrar) error {
	if g.load == nil {
		return nil
	}
	return g.load(r)
}

func (g *testGame) CurrentScene() scene.Scene { return g.scene }

func (g *testGame) Renderer() (scene.Renderer, error) {
	if g.renderer == nil {
		return nil, ErrRendererNotAttached
	}
	return g.renderer, nil
}

func observed() (log.Log, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return log.NewWithZap(zap.New(core)), logs
}

func renderable() *testGame {
	return &testGame{
		scene:    scene.NewGraph(scene.NewNode("root", nil)),
		renderer: scene.RendererFuncs{},
	}
}

func TestHostStartsOnlyOnce(t *testing.T) {
	h := NewHost()
	first := renderable()

	e, err := h.Test(first)
	require.NoError(t, err)
	require.Equal(t, Running, e.Stage())

	err = h.Start(context.Background(), renderable())
	assert.ErrorIs(t, err, ErrAlreadyStarted)
	_, err = h.Test(renderable())
	assert.ErrorIs(t, err, ErrAlreadyStarted)

	assert.Same(t, e, h.Engine())
	assert.Same(t, first, e.game)
	assert.Equal(t, Running, e.Stage())
	require.NoError(t, e.Tick())
}

func TestHostRejectsNilGame(t *testing.T) {
	h := NewHost()
	_, err := h.Test(nil)
	assert.ErrorIs(t, err, ErrNilGame)
	assert.Nil(t, h.Engine())
}

func TestPackageLevelEntryPoints(t *testing.T) {
	e, err := Test(renderable())
	require.NoError(t, err)
	defer e.Close()

	assert.ErrorIs(t, Start(context.Background(), renderable()), ErrAlreadyStarted)
	assert.Equal(t, Running, e.Stage())
}

func TestTickStartsOnceInRegistrationOrder(t *testing.T) {
	var journal []string
	component := func(name string) *lifecycle.Funcs {
		return &lifecycle.Funcs{
			Name:  lifecycle.Kind(name),
			Init:  func() error { journal = append(journal, name+".init"); return nil },
			Start: func() error { journal = append(journal, name+".start"); return nil },
			Tick:  func() error { journal = append(journal, name+".tick"); return nil },
			Stop:  func() error { journal = append(journal, name+".stop"); return nil },
		}
	}
	a, b := component("a"), component("b")

	game := renderable()
	game.load = func(r Registrar) error {
		require.NoError(t, r.InitComponent(a))
		return r.InitComponent(b)
	}
	e, err := NewHost().Test(game)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.init", "b.init"}, journal)

	journal = nil
	require.NoError(t, e.Tick())
	require.NoError(t, e.Tick())
	assert.Equal(t, []string{"a.start", "b.start", "a.tick", "b.tick", "a.tick", "b.tick"}, journal)

	journal = nil
	require.NoError(t, e.StopComponent(a))
	require.NoError(t, e.StopComponent(a))
	require.NoError(t, e.Tick())
	assert.Equal(t, []string{"a.stop", "b.tick"}, journal)
	assert.Equal(t, []lifecycle.Component{b}, e.Listeners())
}

func TestComponentRegisteredDuringTickStartsNextTick(t *testing.T) {
	var journal []string
	child := &lifecycle.Funcs{
		Name:  "child",
		Start: func() error { journal = append(journal, "child.start"); return nil },
		Tick:  func() error { journal = append(journal, "child.tick"); return nil },
	}

	var reg Registrar
	spawned := false
	parent := &lifecycle.Funcs{
		Name: "parent",
		Tick: func() error {
			journal = append(journal, "parent.tick")
			if spawned {
				return nil
			}
			spawned = true
			return reg.InitComponent(child)
		},
	}

	game := renderable()
	game.load = func(r Registrar) error {
		reg = r
		return r.InitComponent(parent)
	}
	e, err := NewHost().Test(game)
	require.NoError(t, err)

	require.NoError(t, e.Tick())
	assert.Equal(t, []string{"parent.tick"}, journal)

	require.NoError(t, e.Tick())
	assert.Equal(t, []string{"parent.tick", "child.start", "parent.tick", "child.tick"}, journal)
}

func TestMainInstanceAndPlainTickerBothTick(t *testing.T) {
	var x, y int
	game := renderable()
	game.load = func(r Registrar) error {
		require.NoError(t, r.InitComponent(&lifecycle.Funcs{
			Name:   "x",
			Tick:   func() error { x++; return nil },
			IsMain: func() bool { return true },
		}))
		return r.InitComponent(&lifecycle.Funcs{
			Name: "y",
			Tick: func() error { y++; return nil },
		})
	}
	e, err := NewHost().Test(game)
	require.NoError(t, err)

	require.NoError(t, e.Tick())
	assert.Equal(t, 1, x)
	assert.Equal(t, 1, y)
	assert.Zero(t, e.Stats().Duplicates)
}

func TestDuplicateMainInstanceReportedOnce(t *testing.T) {
	logger, logs := observed()
	b := bus.New()
	var duplicates []DuplicateMainEvent
	_, err := b.Subscribe(EventDuplicateMain, func(ev bus.Event) error {
		duplicates = append(duplicates, ev.Data().(DuplicateMainEvent))
		return nil
	})
	require.NoError(t, err)

	ticks := 0
	camera := func() *lifecycle.Funcs {
		return &lifecycle.Funcs{
			Name:   "camera",
			Tick:   func() error { ticks++; return nil },
			IsMain: func() bool { return true },
		}
	}
	first, second := camera(), camera()

	game := renderable()
	game.load = func(r Registrar) error {
		require.NoError(t, r.InitComponent(first))
		return r.InitComponent(second)
	}
	e, err := NewHost().Test(game, WithLogger(logger), WithBus(b))
	require.NoError(t, err)

	require.NoError(t, e.Tick())
	assert.Equal(t, 1, ticks)
	require.Len(t, duplicates, 1)
	assert.Equal(t, lifecycle.Kind("camera"), duplicates[0].Kind)
	assert.Same(t, second, duplicates[0].Component)

	warnings := logs.FilterMessage("duplicate main instance skipped").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, zapcore.WarnLevel, warnings[0].Level)
	assert.Equal(t, "camera", warnings[0].ContextMap()["kind"])
	assert.Equal(t, uint64(1), e.Stats().Duplicates)
}

func TestRenderTraversesCurrentScene(t *testing.T) {
	a, b, c, d := scene.NewNode("A", nil), scene.NewNode("B", nil), scene.NewNode("C", nil), scene.NewNode("D", nil)
	require.NoError(t, a.AddChild(b))
	require.NoError(t, a.AddChild(c))
	require.NoError(t, b.AddChild(d))

	var visited []string
	game := &testGame{
		scene:    scene.NewGraph(a),
		renderer: scene.RendererFuncs{
			Filter: func(e scene.Entity) bool { return e != scene.Entity(c) },
			Visit:  func(e scene.Entity) (bool, error) {
				visited = append(visited, e.(*scene.Node).Name)
				return true, nil
			},
		},
	}
	e, err := NewHost().Test(game)
	require.NoError(t, err)

	require.NoError(t, e.Render())
	assert.Equal(t, []string{"A", "B", "D"}, visited)
}

func TestRenderWithoutRendererOrScene(t *testing.T) {
	e, err := NewHost().Test(&testGame{scene: scene.NewGraph()})
	require.NoError(t, err)
	assert.ErrorIs(t, e.Render(), ErrRendererNotAttached)

	e, err = NewHost().Test(&testGame{renderer: scene.RendererFuncs{}})
	require.NoError(t, err)
	assert.ErrorIs(t, e.Render(), ErrNoScene)
}

func TestInitComponentFailureIsNotRegistered(t *testing.T) {
	boom := errors.New("boom")
	started := false
	c := &lifecycle.Funcs{
		Name:  "broken",
		Init:  func() error { return boom },
		Start: func() error { started = true; return nil },
	}
	e, err := NewHost().Test(renderable())
	require.NoError(t, err)

	assert.ErrorIs(t, e.InitComponent(c), boom)
	assert.ErrorIs(t, e.InitComponent(nil), ErrNilComponent)
	require.NoError(t, e.Tick())
	assert.False(t, started)
}

func TestTickRequiresRunningEngine(t *testing.T) {
	e, err := NewHost().Test(renderable())
	require.NoError(t, err)
	require.NoError(t, e.Close())

	assert.Equal(t, Stopped, e.Stage())
	assert.ErrorIs(t, e.Tick(), ErrNotRunning)
	assert.ErrorIs(t, e.Render(), ErrNotRunning)
}

func TestStartRunsUntilFrameLimit(t *testing.T) {
	ticks := 0
	game := renderable()
	game.load = func(r Registrar) error {
		return r.InitComponent(&lifecycle.Funcs{Name: "counter", Tick: func() error { ticks++; return nil }})
	}

	var cleaned []string
	h := NewHost()
	err := h.Start(context.Background(), game,
		WithConfig(config.EngineConfig{MaxFrames: 5}),
		WithCleanup(func() error { cleaned = append(cleaned, "first"); return nil }),
		WithCleanup(func() error { cleaned = append(cleaned, "second"); return nil }),
	)
	require.NoError(t, err)

	e := h.Engine()
	assert.Equal(t, uint64(5), e.Frames())
	assert.Equal(t, 5, ticks)
	assert.NoError(t, e.Err())
	assert.Equal(t, Stopped, e.Stage())
	assert.Equal(t, []string{"second", "first"}, cleaned)
}

func TestStartContainsTickFailure(t *testing.T) {
	logger, logs := observed()
	boom := errors.New("boom")
	game := renderable()
	game.load = func(r Registrar) error {
		return r.InitComponent(&lifecycle.Funcs{Name: "faulty", Tick: func() error { return boom }})
	}

	var failures []FailureEvent
	b := bus.New()
	_, err := b.Subscribe(EventFailure, func(ev bus.Event) error {
		failures = append(failures, ev.Data().(FailureEvent))
		return nil
	})
	require.NoError(t, err)

	cleaned := false
	h := NewHost()
	err = h.Start(context.Background(), game,
		WithLogger(logger),
		WithBus(b),
		WithCleanup(func() error { cleaned = true; return nil }),
	)
	require.NoError(t, err)

	e := h.Engine()
	assert.ErrorIs(t, e.Err(), boom)
	assert.Equal(t, Stopped, e.Stage())
	assert.True(t, cleaned)
	require.Len(t, failures, 1)
	assert.ErrorIs(t, failures[0].Err, boom)
	assert.Equal(t, 1, logs.FilterMessage("engine loop failed").Len())
}

func TestStartContainsPanics(t *testing.T) {
	game := renderable()
	game.load = func(r Registrar) error {
		return r.InitComponent(&lifecycle.Funcs{Name: "panicky", Tick: func() error { panic("kaboom") }})
	}

	h := NewHost()
	require.NoError(t, h.Start(context.Background(), game))

	e := h.Engine()
	require.Error(t, e.Err())
	assert.Contains(t, e.Err().Error(), "kaboom")
	assert.Equal(t, Stopped, e.Stage())
}

func TestLoadFailureEndsRun(t *testing.T) {
	boom := errors.New("no assets")
	cleaned := false
	h := NewHost()
	e, err := h.Test(&testGame{load: func(Registrar) error { return boom }},
		WithCleanup(func() error { cleaned = true; return nil }))
	require.NoError(t, err)

	assert.ErrorIs(t, e.Err(), boom)
	assert.Equal(t, Stopped, e.Stage())
	assert.True(t, cleaned)
}

func TestStopEndsLoop(t *testing.T) {
	var e *Engine
	h := NewHost()
	game := renderable()
	game.load = func(r Registrar) error {
		e = r.(*Engine)
		return r.InitComponent(&lifecycle.Funcs{
			Name: "stopper",
			Tick: func() error {
				if e.Frames() == 2 {
					e.Stop()
				}
				return nil
			},
		})
	}

	require.NoError(t, h.Start(context.Background(), game))
	assert.Equal(t, uint64(3), e.Frames())
	assert.Equal(t, Stopped, e.Stage())
}

func TestCancelledContextEndsLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	game := renderable()
	game.load = func(r Registrar) error {
		return r.InitComponent(&lifecycle.Funcs{Name: "canceller", Tick: func() error { cancel(); return nil }})
	}

	h := NewHost()
	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, h.Start(ctx, game, WithConfig(config.EngineConfig{TickRate: 1000})))
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not stop after cancellation")
	}
	e := h.Engine()
	assert.Equal(t, uint64(1), e.Frames())
	assert.NoError(t, e.Err())
	assert.Equal(t, Stopped, e.Stage())
}

func TestStageEventsPublished(t *testing.T) {
	b := bus.New()
	var stages []Stage
	_, err := b.Subscribe(EventStage, func(ev bus.Event) error {
		stages = append(stages, ev.Data().(StageEvent).To)
		return nil
	})
	require.NoError(t, err)

	e, err := NewHost().Test(renderable(), WithBus(b))
	require.NoError(t, err)
	require.NoError(t, e.Close())
	require.NoError(t, e.Close())

	assert.Equal(t, []Stage{Initializing, Running, Stopping, Stopped}, stages)
}

// splitDriver runs a fixed number of frames, rendering twice per tick the
// way a window whose draw rate exceeds its update rate would.
type splitDriver struct {
	frames int
	calls  []string
}

func (d *splitDriver) Drive(_ context.Context, l Loop) error {
	for i := 0; i < d.frames && !l.Done(); i++ {
		if err := l.Tick(); err != nil {
			return err
		}
		d.calls = append(d.calls, "tick")
		for j := 0; j < 2; j++ {
			if err := l.Render(); err != nil {
				return err
			}
			d.calls = append(d.calls, "render")
		}
	}
	return nil
}

func TestStartUsesDriver(t *testing.T) {
	d := &splitDriver{frames: 2}
	h := NewHost()
	require.NoError(t, h.Start(context.Background(), renderable(), WithDriver(d)))

	assert.Equal(t, []string{"tick", "render", "render", "tick", "render", "render"}, d.calls)
	assert.Equal(t, uint64(4), h.Engine().Frames())
	assert.Equal(t, Stopped, h.Engine().Stage())
}

func TestFrameCountsTowardsLimit(t *testing.T) {
	e, err := NewHost().Test(renderable(), WithConfig(config.EngineConfig{MaxFrames: 2}))
	require.NoError(t, err)

	require.NoError(t, e.Frame())
	assert.Equal(t, uint64(1), e.Frames())
	require.NoError(t, e.Frame())
	assert.Equal(t, uint64(2), e.Frames())
	assert.False(t, e.running.Load())
}
