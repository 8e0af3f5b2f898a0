package gamemap

import (
	"errors"
	"fmt"
	"image"
)

var (
	// ErrOutOfRange is returned for tile indices a grid or tileset cannot
	// address.
	ErrOutOfRange = errors.New("gamemap: index out of range")
	// ErrInvalid is returned by Validate for malformed resources.
	ErrInvalid = errors.New("gamemap: invalid resource")
)

// Tileset describes the geometry of an image cut into equally sized tiles,
// plus optional per-tile metadata.
type Tileset struct {
	Name        string           `json:"name" yaml:"name"`
	Image       string           `json:"image" yaml:"image"`
	ImageWidth  int              `json:"imageWidth" yaml:"imageWidth"`
	ImageHeight int              `json:"imageHeight" yaml:"imageHeight"`
	Columns     int              `json:"columns" yaml:"columns"`
	Margin      int              `json:"margin" yaml:"margin"`
	Spacing     int              `json:"spacing" yaml:"spacing"`
	TileWidth   int              `json:"tileWidth" yaml:"tileWidth"`
	TileHeight  int              `json:"tileHeight" yaml:"tileHeight"`
	TileCount   int              `json:"tileCount" yaml:"tileCount"`
	FirstIndex  int              `json:"firstIndex" yaml:"firstIndex"`
	Tiles       map[int]TileInfo `json:"tiles,omitempty" yaml:"tiles,omitempty"`
	Properties  TilesetProps     `json:"properties" yaml:"properties"`
}

// TilesetProps holds the named properties of a tileset.
type TilesetProps struct {
	// IsMeta marks the tileset whose tiles carry TileType metadata instead
	// of graphics.
	IsMeta bool `json:"isMeta" yaml:"isMeta"`
}

// Validate checks the geometry needed by SourceRect.
func (t *Tileset) Validate() error {
	switch {
	case t.Columns <= 0:
		return fmt.Errorf("%w: tileset %q has %d columns", ErrInvalid, t.Name, t.Columns)
	case t.TileWidth <= 0 || t.TileHeight <= 0:
		return fmt.Errorf("%w: tileset %q has tile size %dx%d", ErrInvalid, t.Name, t.TileWidth, t.TileHeight)
	case t.Margin < 0 || t.Spacing < 0:
		return fmt.Errorf("%w: tileset %q has negative margin or spacing", ErrInvalid, t.Name)
	case t.FirstIndex < 0:
		return fmt.Errorf("%w: tileset %q has first index %d", ErrInvalid, t.Name, t.FirstIndex)
	}
	return nil
}

// Contains reports whether global index i belongs to t. A tileset without a
// tile count claims every index from its first one.
func (t *Tileset) Contains(i int) bool {
	if i < t.FirstIndex {
		return false
	}
	return t.TileCount <= 0 || i < t.FirstIndex+t.TileCount
}

// SourceRect returns the pixel rectangle of global tile index i inside the
// tileset image.
func (t *Tileset) SourceRect(i int) (image.Rectangle, error) {
	if i < t.FirstIndex {
		return image.Rectangle{}, fmt.Errorf("%w: tile %d below first index %d of %q", ErrOutOfRange, i, t.FirstIndex, t.Name)
	}
	if t.Columns <= 0 {
		return image.Rectangle{}, fmt.Errorf("%w: tileset %q has no columns", ErrInvalid, t.Name)
	}
	local := i - t.FirstIndex
	col := local % t.Columns
	row := local / t.Columns
	x := t.Margin + col*(t.TileWidth+t.Spacing)
	y := t.Margin + row*(t.TileHeight+t.Spacing)
	return image.Rect(x, y, x+t.TileWidth, y+t.TileHeight), nil
}

// TileType returns the metadata type of global index i. Indices without
// metadata are TileBlock.
func (t *Tileset) TileType(i int) TileType {
	info, ok := t.Tiles[i-t.FirstIndex]
	if !ok {
		return TileBlock
	}
	return info.Type
}
