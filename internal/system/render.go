package system

import (
	"image"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"tilewalk/internal/component"
	"tilewalk/internal/ecs"
	"tilewalk/internal/render"
)

// SpriteRender queues a draw for every textured entity except areas. The
// caller brackets the draw pass with Begin and End on the batch.
type SpriteRender struct {
	batch    render.Batch
	fallback *component.Sprite
}

func NewSpriteRender(b render.Batch) *SpriteRender {
	return &SpriteRender{batch: b, fallback: component.NewSprite()}
}

func (s *SpriteRender) Aspect() ecs.Aspect {
	return ecs.All(component.CTransform, component.CTexture).Excluding(component.CArea)
}

func (s *SpriteRender) Process(w *ecs.World, id ecs.EntityID, _ time.Duration) {
	transform, texture, ok := ecs.Get2[*component.Transform, *component.Texture](w, id)
	if !ok {
		return
	}
	sprite, ok := ecs.Get[*component.Sprite](w, id)
	if !ok {
		sprite = s.fallback
	}

	// A tileset overrides the sprite's source rectangle.
	source := sprite.Source
	if tileset, ok := ecs.Get[*component.Tileset](w, id); ok {
		r, err := tileset.Source()
		if err != nil {
			return
		}
		source = &r
	}

	s.batch.Draw(render.DrawOp{
		Texture:  texture.Texture,
		Position: transform.Position.Add(sprite.Offset),
		Source:   source,
		Tint:     sprite.Tint,
		Rotation: transform.RotationRadians(),
		Origin:   sprite.Origin,
		Scale:    sprite.Scale,
		Effects:  sprite.Effects,
		Depth:    sprite.Layer,
	})
}

// AreaRender draws the visible layers of every area entity, limited to the
// cells inside the camera bounds. Layer z of n is drawn at depth 1 - z/n and
// cells holding index 0 are left empty.
type AreaRender struct {
	batch  render.Batch
	camera render.Camera
}

func NewAreaRender(b render.Batch, c render.Camera) *AreaRender {
	return &AreaRender{batch: b, camera: c}
}

func (s *AreaRender) Aspect() ecs.Aspect {
	return ecs.All(component.CArea, component.CTransform)
}

func (s *AreaRender) Process(w *ecs.World, id ecs.EntityID, _ time.Duration) {
	area, transform, ok := ecs.Get2[*component.Area, *component.Transform](w, id)
	if !ok {
		return
	}
	a := area.Map.Area()
	cells, ok := visibleCells(s.camera.Bounds(), transform.Position, a.Width, a.Height, a.TileWidth, a.TileHeight)
	if !ok {
		return
	}

	n := float64(len(a.Layers))
	for z := range a.VisibleLayers() {
		layer := &a.Layers[z]
		depth := 1 - float64(z)/n
		for y := cells.Min.Y; y < cells.Max.Y; y++ {
			for x := cells.Min.X; x < cells.Max.X; x++ {
				index := layer.Data[y*a.Width+x]
				if index == 0 {
					continue
				}
				texture, tileset, ok := area.TextureFor(index)
				if !ok {
					continue
				}
				src, err := tileset.SourceRect(index)
				if err != nil {
					continue
				}
				s.batch.Draw(render.DrawOp{
					Texture:  texture,
					Position: transform.Position.Add(mgl64.Vec2{float64(x * a.TileWidth), float64(y * a.TileHeight)}),
					Source:   &src,
					Scale:    mgl64.Vec2{1, 1},
					Depth:    depth,
				})
			}
		}
	}
}

// visibleCells converts the part of bounds covering a grid placed at origin
// into a half-open range of cell coordinates.
func visibleCells(bounds image.Rectangle, origin mgl64.Vec2, w, h, tw, th int) (image.Rectangle, bool) {
	ox, oy := origin.X(), origin.Y()
	minX := math.Max(float64(bounds.Min.X), ox)
	minY := math.Max(float64(bounds.Min.Y), oy)
	maxX := math.Min(float64(bounds.Max.X), ox+float64(w*tw))
	maxY := math.Min(float64(bounds.Max.Y), oy+float64(h*th))
	if minX >= maxX || minY >= maxY {
		return image.Rectangle{}, false
	}
	r := image.Rect(
		int(math.Floor((minX-ox)/float64(tw))),
		int(math.Floor((minY-oy)/float64(th))),
		int(math.Ceil((maxX-ox)/float64(tw))),
		int(math.Ceil((maxY-oy)/float64(th))),
	)
	return r.Intersect(image.Rect(0, 0, w, h)), true
}
