package component

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"tilewalk/internal/ecs"
)

const CVelocity ecs.ComponentType = 2

// Velocity moves an entity along Angle at Speed pixels per millisecond.
// A zero speed means the entity is not moving and the component should go.
type Velocity struct {
	Speed float64
	Angle float64 // degrees, 0 points right, 90 points down
}

func (*Velocity) Type() ecs.ComponentType { return CVelocity }

// IsMoving reports whether the velocity has any speed.
func (v *Velocity) IsMoving() bool { return v.Speed != 0 }

// AngleRadians returns Angle converted to radians.
func (v *Velocity) AngleRadians() float64 { return v.Angle * math.Pi / 180 }

// Step returns the displacement covered in ms milliseconds.
func (v *Velocity) Step(ms float64) mgl64.Vec2 {
	r := v.AngleRadians()
	return mgl64.Vec2{math.Cos(r), math.Sin(r)}.Mul(v.Speed * ms)
}
