// Package demo is a small scene used by the deimos command: a spinning
// sprite, a tweened mover, a spawner of blinking sprites and two cameras
// of which only the active one follows the mover.
package demo

import (
	"image/color"

	"github.com/zeusync/deimos/internal/core/engine"
	"github.com/zeusync/deimos/internal/core/lifecycle"
	"github.com/zeusync/deimos/internal/core/observability/log"
	"github.com/zeusync/deimos/internal/core/scene"
	"github.com/zeusync/deimos/internal/render/ebitenrender"
)

var palette = []color.RGBA{
	{R: 0xe6, G: 0x39, B: 0x46, A: 0xff},
	{R: 0xf1, G: 0xfa, B: 0xee, A: 0xff},
	{R: 0xa8, G: 0xda, B: 0xdc, A: 0xff},
	{R: 0x45, G: 0x7b, B: 0x9d, A: 0xff},
}

var _ engine.Game = (*Game)(nil)

type Options struct {
	// TickRate converts ticks to seconds for tweens.
	TickRate      int
	Width, Height int
	// SpawnInterval is the number of ticks between two blinkers.
	SpawnInterval int
	MaxBlinkers   int
}

func DefaultOptions() Options {
	return Options{
		TickRate:      60,
		Width:         640,
		Height:        480,
		SpawnInterval: 30,
		MaxBlinkers:   8,
	}
}

// Game builds its scene on Load. The renderer is attached separately so
// the same content can run headless or in a window.
type Game struct {
	opts     Options
	logger   log.Log
	graph    *scene.Graph
	renderer scene.Renderer

	Spinner *Spinner
	Mover   *Mover
	Spawner *Spawner
	Cameras [2]*Camera
}

func New(opts Options, logger log.Log) *Game {
	if logger == nil {
		logger = log.Nop()
	}
	if opts.TickRate <= 0 {
		opts.TickRate = DefaultOptions().TickRate
	}
	return &Game{opts: opts, logger: logger}
}

func (g *Game) Attach(r scene.Renderer) {
	g.renderer = r
}

func (g *Game) Load(r engine.Registrar) error {
	world := scene.NewNode("world", nil)
	hud := scene.NewNode("hud", &ebitenrender.Sprite{Width: float64(g.opts.Width), Height: 16, Occluder: true})
	g.graph = scene.NewGraph(world, hud)

	background := scene.NewNode("background", &ebitenrender.Sprite{
		Width:  float64(g.opts.Width),
		Height: float64(g.opts.Height),
		Color:  color.RGBA{R: 0x1d, G: 0x35, B: 0x57, A: 0xff},
	})
	spinnerSprite := &ebitenrender.Sprite{X: float64(g.opts.Width) / 2, Y: float64(g.opts.Height) / 2, Width: 24, Height: 24, Color: palette[0]}
	moverSprite := &ebitenrender.Sprite{X: 32, Y: float64(g.opts.Height) - 64, Width: 32, Height: 32, Color: palette[2]}
	blinkers := scene.NewNode("blinkers", &ebitenrender.Sprite{Y: 48, Width: float64(g.opts.Width), Height: 16})

	for _, n := range []*scene.Node{
		background,
		scene.NewNode("spinner", spinnerSprite),
		scene.NewNode("mover", moverSprite),
		blinkers,
	} {
		if err := world.AddChild(n); err != nil {
			return err
		}
	}

	dt := 1 / float32(g.opts.TickRate)
	g.Spinner = NewSpinner(spinnerSprite, 64, 0.05)
	g.Mover = NewMover(moverSprite, float32(g.opts.Width)-128, 2, dt)
	g.Spawner = NewSpawner(r, g.logger.With(log.String("component", "spawner")), blinkers, g.opts.SpawnInterval, g.opts.MaxBlinkers)
	g.Cameras[0] = NewCamera(moverSprite, 0.1, true)
	g.Cameras[1] = NewCamera(spinnerSprite, 0.1, false)

	for _, c := range []lifecycle.Component{g.Spinner, g.Mover, g.Spawner, g.Cameras[0], g.Cameras[1]} {
		if err := r.InitComponent(c); err != nil {
			return err
		}
	}
	return nil
}

func (g *Game) CurrentScene() scene.Scene {
	if g.graph == nil {
		return nil
	}
	return g.graph
}

func (g *Game) Renderer() (scene.Renderer, error) {
	if g.renderer == nil {
		return nil, engine.ErrRendererNotAttached
	}
	return g.renderer, nil
}
