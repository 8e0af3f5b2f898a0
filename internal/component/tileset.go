package component

import (
	"image"

	"tilewalk/internal/ecs"
	"tilewalk/internal/gamemap"
)

const CTileset ecs.ComponentType = 5

// Tileset is a copy of a tileset resource plus the tile currently shown.
type Tileset struct {
	gamemap.Tileset
	Index int
}

// NewTileset copies ts and starts at its first tile.
func NewTileset(ts gamemap.Tileset) *Tileset {
	return &Tileset{Tileset: ts, Index: ts.FirstIndex}
}

func (*Tileset) Type() ecs.ComponentType { return CTileset }

// Source returns the source rectangle of the current tile.
func (t *Tileset) Source() (image.Rectangle, error) {
	return t.SourceRect(t.Index)
}
