package demo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/deimos/internal/core/engine"
	"github.com/zeusync/deimos/internal/render/trace"
)

func start(t *testing.T, opts Options) (*Game, *engine.Engine) {
	t.Helper()
	g := New(opts, nil)
	e, err := engine.NewHost().Test(g)
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return g, e
}

func ticks(t *testing.T, e *engine.Engine, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, e.Tick())
	}
}

func TestRenderNeedsAttachedRenderer(t *testing.T) {
	g, e := start(t, DefaultOptions())
	assert.ErrorIs(t, e.Render(), engine.ErrRendererNotAttached)

	r := trace.New()
	g.Attach(r)
	require.NoError(t, e.Render())
	assert.Equal(t, []string{"world", "background", "spinner", "mover", "blinkers", "hud"}, r.Names())
}

func TestOnlyActiveCameraTicks(t *testing.T) {
	g, e := start(t, DefaultOptions())

	ticks(t, e, 3)
	assert.Equal(t, 3, g.Cameras[0].Ticks())
	assert.Zero(t, g.Cameras[1].Ticks())

	g.Cameras[0].Active, g.Cameras[1].Active = false, true
	ticks(t, e, 2)
	assert.Equal(t, 3, g.Cameras[0].Ticks())
	assert.Equal(t, 2, g.Cameras[1].Ticks())
	assert.Zero(t, e.Stats().Duplicates)

	g.Cameras[0].Active = true
	ticks(t, e, 1)
	assert.Equal(t, 4, g.Cameras[0].Ticks())
	assert.Equal(t, 2, g.Cameras[1].Ticks())
	assert.Equal(t, uint64(1), e.Stats().Duplicates)
}

func TestCameraFollowsTarget(t *testing.T) {
	g, e := start(t, DefaultOptions())
	ticks(t, e, 1)
	assert.Greater(t, g.Cameras[0].X, 0.0)
	assert.Zero(t, g.Cameras[1].X)
}

func TestSpawnerRecyclesBlinkers(t *testing.T) {
	opts := DefaultOptions()
	opts.SpawnInterval = 2
	opts.MaxBlinkers = 2
	g, e := start(t, opts)

	ticks(t, e, 4)
	alive := g.Spawner.Alive()
	require.Len(t, alive, 2)
	first := alive[0]

	ticks(t, e, 2)
	assert.True(t, first.Stopped())
	assert.Nil(t, first.node.Parent())
	assert.Len(t, g.Spawner.Alive(), 2)
	assert.NotContains(t, e.Listeners(), first)
	assert.Len(t, g.Spawner.parent.Children(), 2)
}

func TestSpinnerAndMoverAdvance(t *testing.T) {
	opts := DefaultOptions()
	opts.TickRate = 10
	g, e := start(t, opts)

	x := g.Mover.sprite.X
	ticks(t, e, 1)
	assert.InDelta(t, 0.05, g.Spinner.Angle(), 1e-9)
	assert.NotEqual(t, x, g.Mover.sprite.X)

	ticks(t, e, 24)
	assert.Equal(t, 1, g.Mover.Legs())
}
