package ebitenrender

import (
	"context"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/zeusync/deimos/internal/config"
	"github.com/zeusync/deimos/internal/core/engine"
)

var _ engine.Driver = (*Driver)(nil)

// Driver hands the frame loop to an Ebitengine window: Update ticks the
// engine and Draw renders it through Renderer. RunGame must be called from
// the main goroutine, so Host.Start has to be as well.
type Driver struct {
	Renderer   *Renderer
	Window     config.WindowConfig
	TickRate   int
	Background color.Color
}

func NewDriver(r *Renderer, window config.WindowConfig, tickRate int) *Driver {
	return &Driver{
		Renderer:   r,
		Window:     window,
		TickRate:   tickRate,
		Background: color.Black,
	}
}

func (d *Driver) Drive(_ context.Context, l engine.Loop) error {
	ebiten.SetWindowTitle(d.Window.Title)
	ebiten.SetWindowSize(d.Window.Width, d.Window.Height)
	if d.TickRate > 0 {
		ebiten.SetTPS(d.TickRate)
	}
	d.Renderer.SetViewport(image.Rect(0, 0, d.Window.Width, d.Window.Height))
	return ebiten.RunGame(&window{driver: d, loop: l})
}

// window is the ebiten.Game behind a Driver.
type window struct {
	driver *Driver
	loop   engine.Loop
	err    error
}

func (w *window) Update() error {
	if w.err != nil {
		return w.err
	}
	if w.loop.Done() {
		return ebiten.Termination
	}
	return w.loop.Tick()
}

// Draw cannot fail; a render error is returned from the next Update.
func (w *window) Draw(screen *ebiten.Image) {
	if w.err != nil {
		return
	}
	if w.driver.Background != nil {
		screen.Fill(w.driver.Background)
	}
	w.driver.Renderer.SetTarget(screen)
	w.err = w.loop.Render()
}

func (w *window) Layout(_, _ int) (int, int) {
	return w.driver.Window.Width, w.driver.Window.Height
}
