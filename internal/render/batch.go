package render

import (
	"image"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
)

// DrawOp is one sprite draw call. Positions are world pixels; the batch
// applies its transform.
type DrawOp struct {
	Texture  Texture
	Position mgl64.Vec2
	// Source selects a region of the texture. Nil draws the whole texture.
	Source   *image.Rectangle
	Tint     tcell.Color
	Rotation float64
	Origin   mgl64.Vec2
	Scale    mgl64.Vec2
	Effects  Effects
	// Depth orders draws back to front: 1 is furthest, 0 nearest.
	Depth float64
}

// Batch collects draw calls between Begin and End and presents them sorted
// by depth.
type Batch interface {
	Begin(transform mgl64.Mat3)
	Draw(op DrawOp)
	// DrawString queues text starting at a terminal cell (column, row). Text
	// ignores the batch transform so overlays stay put while the camera moves.
	DrawString(text string, at image.Point, style tcell.Style, depth float64)
	End() error
}
