package demo

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/zeusync/deimos/internal/core/engine"
	"github.com/zeusync/deimos/internal/core/lifecycle"
	"github.com/zeusync/deimos/internal/core/observability/log"
	"github.com/zeusync/deimos/internal/core/scene"
	"github.com/zeusync/deimos/internal/render/ebitenrender"
)

const (
	KindSpinner lifecycle.Kind = "demo.spinner"
	KindMover   lifecycle.Kind = "demo.mover"
	KindSpawner lifecycle.Kind = "demo.spawner"
	KindBlinker lifecycle.Kind = "demo.blinker"
	KindCamera  lifecycle.Kind = "demo.camera"
)

// Spinner moves its sprite around a circle, one step per tick.
type Spinner struct {
	sprite *ebitenrender.Sprite
	cx, cy float64
	radius float64
	step   float64
	angle  float64
}

func NewSpinner(sprite *ebitenrender.Sprite, radius, step float64) *Spinner {
	return &Spinner{sprite: sprite, cx: sprite.X, cy: sprite.Y, radius: radius, step: step}
}

func (s *Spinner) Kind() lifecycle.Kind { return KindSpinner }

func (s *Spinner) OnTick() error {
	s.angle = math.Mod(s.angle+s.step, 2*math.Pi)
	s.sprite.X = s.cx + s.radius*math.Cos(s.angle)
	s.sprite.Y = s.cy + s.radius*math.Sin(s.angle)
	return nil
}

func (s *Spinner) Angle() float64 { return s.angle }

// Mover tweens its sprite between two x positions and back, forever.
type Mover struct {
	sprite   *ebitenrender.Sprite
	from, to float32
	duration float32
	dt       float32
	tween    *gween.Tween
	legs     int
}

// NewMover moves sprite from its current x to x+distance in duration
// seconds, advancing dt seconds per tick.
func NewMover(sprite *ebitenrender.Sprite, distance, duration, dt float32) *Mover {
	from := float32(sprite.X)
	return &Mover{sprite: sprite, from: from, to: from + distance, duration: duration, dt: dt}
}

func (m *Mover) Kind() lifecycle.Kind { return KindMover }

func (m *Mover) OnStart() error {
	m.tween = gween.New(m.from, m.to, m.duration, ease.InOutQuad)
	return nil
}

func (m *Mover) OnTick() error {
	x, finished := m.tween.Update(m.dt)
	m.sprite.X = float64(x)
	if finished {
		m.legs++
		m.from, m.to = m.to, m.from
		m.tween = gween.New(m.from, m.to, m.duration, ease.InOutQuad)
	}
	return nil
}

// Legs is the number of completed one-way trips.
func (m *Mover) Legs() int { return m.legs }

// Spawner adds a blinking sprite under parent every interval ticks. Once
// limit blinkers are alive the oldest one is stopped and removed.
type Spawner struct {
	reg      engine.Registrar
	logger   log.Log
	parent   *scene.Node
	interval int
	limit    int

	ticks    int
	spawned  int
	blinkers []*Blinker
}

func NewSpawner(reg engine.Registrar, logger log.Log, parent *scene.Node, interval, limit int) *Spawner {
	return &Spawner{reg: reg, logger: logger, parent: parent, interval: interval, limit: limit}
}

func (s *Spawner) Kind() lifecycle.Kind { return KindSpawner }

func (s *Spawner) OnTick() error {
	s.ticks++
	if s.ticks%s.interval != 0 {
		return nil
	}

	if len(s.blinkers) == s.limit {
		oldest := s.blinkers[0]
		s.blinkers = s.blinkers[1:]
		if err := s.reg.StopComponent(oldest); err != nil {
			return err
		}
	}

	s.spawned++
	sprite := &ebitenrender.Sprite{
		X:      float64(16 * (s.spawned % 16)),
		Width:  12,
		Height: 12,
		Color:  palette[s.spawned%len(palette)],
	}
	node := scene.NewNode("blinker", sprite)
	if err := s.parent.AddChild(node); err != nil {
		return err
	}
	b := &Blinker{node: node, sprite: sprite, period: 3}
	if err := s.reg.InitComponent(b); err != nil {
		return err
	}
	s.blinkers = append(s.blinkers, b)
	s.logger.Debug("blinker spawned", log.Int("alive", len(s.blinkers)))
	return nil
}

// Alive returns the blinkers not stopped yet, oldest first.
func (s *Spawner) Alive() []*Blinker { return s.blinkers }

// Blinker toggles its sprite's visibility every period ticks and removes
// its node from the scene when stopped.
type Blinker struct {
	node    *scene.Node
	sprite  *ebitenrender.Sprite
	period  int
	ticks   int
	stopped bool
}

func (b *Blinker) Kind() lifecycle.Kind { return KindBlinker }

func (b *Blinker) OnTick() error {
	b.ticks++
	if b.ticks%b.period == 0 {
		b.sprite.Hidden = !b.sprite.Hidden
	}
	return nil
}

func (b *Blinker) OnStop() error {
	b.stopped = true
	if parent := b.node.Parent(); parent != nil {
		parent.RemoveChild(b.node)
	}
	return nil
}

func (b *Blinker) Stopped() bool { return b.stopped }

// Camera follows a target sprite. Only the active camera of the scene
// ticks; Active can be switched at any time.
type Camera struct {
	Active bool
	X, Y   float64

	target *ebitenrender.Sprite
	lerp   float64
	ticks  int
}

func NewCamera(target *ebitenrender.Sprite, lerp float64, active bool) *Camera {
	return &Camera{Active: active, target: target, lerp: lerp}
}

func (c *Camera) Kind() lifecycle.Kind { return KindCamera }

func (c *Camera) IsMainInstance() bool { return c.Active }

func (c *Camera) OnTick() error {
	c.ticks++
	c.X += (c.target.X - c.X) * c.lerp
	c.Y += (c.target.Y - c.Y) * c.lerp
	return nil
}

// Ticks counts the ticks this camera was the main instance for.
func (c *Camera) Ticks() int { return c.ticks }
