package component

import (
	"image"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	"tilewalk/internal/ecs"
	"tilewalk/internal/render"
)

const CSprite ecs.ComponentType = 4

// Sprite holds optional drawing modifiers. Entities without one are drawn
// with the values NewSprite returns.
type Sprite struct {
	Source  *image.Rectangle
	Effects render.Effects
	Scale   mgl64.Vec2
	Origin  mgl64.Vec2
	Offset  mgl64.Vec2
	Tint    tcell.Color
	// Layer is the draw depth: 1 is the back, 0 the front.
	Layer float64
}

// NewSprite returns a sprite with unit scale and a white tint.
func NewSprite() *Sprite {
	return &Sprite{Scale: mgl64.Vec2{1, 1}, Tint: tcell.ColorWhite}
}

func (*Sprite) Type() ecs.ComponentType { return CSprite }
