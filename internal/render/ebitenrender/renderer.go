package ebitenrender

import (
	"errors"
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/zeusync/deimos/internal/core/observability/log"
	"github.com/zeusync/deimos/internal/core/scene"
)

var ErrNoTarget = errors.New("no render target")

var _ scene.Renderer = (*Renderer)(nil)

// Stats describes the last finished root.
type Stats struct {
	Drawn  int
	Culled int
}

// Renderer draws sprites onto a target image. Sprites outside the viewport
// are culled before they are visited, along with their subtree.
type Renderer struct {
	logger   log.Log
	viewport image.Rectangle
	target   *ebiten.Image
	op       ebiten.DrawImageOptions

	current Stats
	last    Stats
}

func New(viewport image.Rectangle, logger log.Log) *Renderer {
	if logger == nil {
		logger = log.Nop()
	}
	return &Renderer{
		logger:   logger,
		viewport: viewport,
	}
}

// SetTarget sets the image drawn onto by the following roots.
func (r *Renderer) SetTarget(target *ebiten.Image) {
	r.target = target
}

func (r *Renderer) SetViewport(viewport image.Rectangle) {
	r.viewport = viewport
}

func (r *Renderer) Stats() Stats { return r.last }

func (r *Renderer) StartRendering() error {
	if r.target == nil {
		return ErrNoTarget
	}
	r.current = Stats{}
	return nil
}

func (r *Renderer) EndRendering() error {
	r.last = r.current
	return nil
}

func (r *Renderer) PreRenderFilter(e scene.Entity) bool {
	s, ok := SpriteOf(e)
	if !ok {
		return true
	}
	if s.Hidden || !Bounds(e.(*scene.Node)).Overlaps(r.viewport) {
		r.current.Culled++
		return false
	}
	return true
}

func (r *Renderer) RenderVisitNode(e scene.Entity) (bool, error) {
	s, ok := SpriteOf(e)
	if !ok {
		return true, nil
	}
	r.draw(e.(*scene.Node), s)
	r.current.Drawn++
	return !s.Occluder, nil
}

func (r *Renderer) draw(n *scene.Node, s *Sprite) {
	x, y := Position(n)
	if s.Image == nil {
		rect := image.Rect(int(x), int(y), int(x+s.Width), int(y+s.Height)).Intersect(r.target.Bounds())
		if rect.Empty() {
			return
		}
		r.target.SubImage(rect).(*ebiten.Image).Fill(s.Color)
		return
	}

	r.op.GeoM.Reset()
	r.op.ColorScale.Reset()
	size := s.Image.Bounds().Size()
	if size.X > 0 && size.Y > 0 {
		r.op.GeoM.Scale(s.Width/float64(size.X), s.Height/float64(size.Y))
	}
	r.op.GeoM.Translate(x, y)
	if s.Color.A > 0 {
		r.op.ColorScale.ScaleWithColor(s.Color)
	}
	r.target.DrawImage(s.Image, &r.op)
}
