package render

import (
	"image"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera supplies the view transform for a batch and the world-pixel
// rectangle it can see.
type Camera interface {
	Transform() mgl64.Mat3
	Bounds() image.Rectangle
}

// Focusable is something a camera can follow.
type Focusable interface {
	FocusPosition() mgl64.Vec2
}

// DefaultMoveSpeed is the fraction of the distance to the focus covered per
// second.
const DefaultMoveSpeed = 1.25

// Camera2D translates between world pixels and screen pixels. Position is
// the world point shown at the center of the viewport.
type Camera2D struct {
	Position  mgl64.Vec2
	Rotation  float64 // radians
	Zoom      float64
	MoveSpeed float64
	Focus     Focusable

	viewport image.Point
}

// NewCamera creates a camera for a viewport of the given pixel size.
func NewCamera(viewport image.Point) *Camera2D {
	return &Camera2D{Zoom: 1, MoveSpeed: DefaultMoveSpeed, viewport: viewport}
}

// SetViewport updates the viewport size, e.g. after a terminal resize.
func (c *Camera2D) SetViewport(p image.Point) { c.viewport = p }

// Viewport returns the viewport size in pixels.
func (c *Camera2D) Viewport() image.Point { return c.viewport }

// Center snaps the camera onto world position p.
func (c *Camera2D) Center(p mgl64.Vec2) { c.Position = p }

// Update eases the camera toward its focus.
func (c *Camera2D) Update(dt time.Duration) {
	if c.Focus == nil {
		return
	}
	step := math.Min(c.MoveSpeed*dt.Seconds(), 1)
	target := c.Focus.FocusPosition()
	c.Position = c.Position.Add(target.Sub(c.Position).Mul(step))
}

func (c *Camera2D) zoom() float64 {
	if c.Zoom <= 0 {
		return 1
	}
	return c.Zoom
}

// Transform returns translate(-position), rotate, translate(origin) and
// scale, applied in that order.
func (c *Camera2D) Transform() mgl64.Mat3 {
	z := c.zoom()
	origin := mgl64.Vec2{float64(c.viewport.X) / 2, float64(c.viewport.Y) / 2}.Mul(1 / z)
	return mgl64.Scale2D(z, z).
		Mul3(mgl64.Translate2D(origin.X(), origin.Y())).
		Mul3(mgl64.HomogRotate2D(c.Rotation)).
		Mul3(mgl64.Translate2D(-c.Position.X(), -c.Position.Y()))
}

// WorldToScreen converts a world pixel position to a screen pixel position.
func (c *Camera2D) WorldToScreen(p mgl64.Vec2) mgl64.Vec2 {
	return c.Transform().Mul3x1(p.Vec3(1)).Vec2()
}

// ScreenToWorld converts a screen pixel position to a world pixel position.
func (c *Camera2D) ScreenToWorld(p mgl64.Vec2) mgl64.Vec2 {
	return c.Transform().Inv().Mul3x1(p.Vec3(1)).Vec2()
}

// Bounds returns the world pixel rectangle covered by the viewport.
func (c *Camera2D) Bounds() image.Rectangle {
	inv := c.Transform().Inv()
	w, h := float64(c.viewport.X), float64(c.viewport.Y)
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, corner := range []mgl64.Vec2{{0, 0}, {w, 0}, {0, h}, {w, h}} {
		p := inv.Mul3x1(corner.Vec3(1))
		minX, maxX = math.Min(minX, p.X()), math.Max(maxX, p.X())
		minY, maxY = math.Min(minY, p.Y()), math.Max(maxY, p.Y())
	}
	return image.Rect(
		int(math.Floor(minX)), int(math.Floor(minY)),
		int(math.Ceil(maxX)), int(math.Ceil(maxY)),
	)
}
