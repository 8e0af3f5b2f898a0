package component

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"tilewalk/internal/ecs"
)

const CTransform ecs.ComponentType = 1

// Transform places an entity in world pixels.
type Transform struct {
	Position mgl64.Vec2
	Rotation float64 // degrees
}

func (*Transform) Type() ecs.ComponentType { return CTransform }

// RotationRadians returns Rotation converted to radians.
func (t *Transform) RotationRadians() float64 {
	return t.Rotation * math.Pi / 180
}

// FocusPosition lets a camera follow the entity.
func (t *Transform) FocusPosition() mgl64.Vec2 { return t.Position }
