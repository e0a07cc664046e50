// Package ebitenrender draws scene graphs with Ebitengine and lets an
// Ebitengine window drive the engine loop.
package ebitenrender

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/zeusync/deimos/internal/core/scene"
)

// Sprite is the payload the renderer understands on scene.Node.Data.
// Nodes without a Sprite are groups: never culled, never drawn.
type Sprite struct {
	// Image is drawn scaled to Width x Height. A nil Image draws a
	// rectangle filled with Color.
	Image *ebiten.Image
	Color color.RGBA

	// X and Y are relative to the nearest ancestor carrying a Sprite.
	X, Y          float64
	Width, Height float64

	// Hidden sprites are skipped together with their children.
	Hidden bool
	// Occluder sprites are drawn but hide their children.
	Occluder bool
}

// SpriteOf returns the Sprite carried by e, if any.
func SpriteOf(e scene.Entity) (*Sprite, bool) {
	n, ok := e.(*scene.Node)
	if !ok || n == nil {
		return nil, false
	}
	s, ok := n.Data.(*Sprite)
	return s, ok && s != nil
}

// Position returns the absolute position of n's sprite origin.
func Position(n *scene.Node) (x, y float64) {
	for cur := n; cur != nil; cur = cur.Parent() {
		if s, ok := cur.Data.(*Sprite); ok && s != nil {
			x += s.X
			y += s.Y
		}
	}
	return x, y
}

// Bounds returns the screen rectangle covered by n's sprite.
func Bounds(n *scene.Node) image.Rectangle {
	s, ok := SpriteOf(n)
	if !ok {
		return image.Rectangle{}
	}
	x, y := Position(n)
	return image.Rect(int(x), int(y), int(x+s.Width), int(y+s.Height))
}
