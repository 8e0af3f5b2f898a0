// Package gamemap holds the tile-grid world model: areas made of layers,
// the tilesets that slice their images, and the movement semantics read from
// the meta layer.
package gamemap

import (
	"fmt"
	"image"
	"iter"

	"tilewalk/internal/command"
)

// Rect is an axis-aligned rectangle of tiles used for rooms.
type Rect struct {
	X1, Y1, X2, Y2 int
}

// Center returns the center point of the rectangle.
func (r Rect) Center() (int, int) {
	return (r.X1 + r.X2) / 2, (r.Y1 + r.Y2) / 2
}

// Intersects reports whether r overlaps other (inclusive edges).
func (r Rect) Intersects(other Rect) bool {
	return r.X1 <= other.X2 && r.X2 >= other.X1 &&
		r.Y1 <= other.Y2 && r.Y2 >= other.Y1
}

// Layer is one plane of tile indices, row-major. Index 0 is an empty cell.
type Layer struct {
	Name       string     `json:"name" yaml:"name"`
	Data       []int      `json:"data" yaml:"data"`
	Opacity    float64    `json:"opacity" yaml:"opacity"`
	Properties LayerProps `json:"properties" yaml:"properties"`
}

// LayerProps holds the named properties of a layer.
type LayerProps struct {
	IsMeta bool `json:"isMeta" yaml:"isMeta"`
}

// AreaProps holds the named properties of an area.
type AreaProps struct {
	MusicTheme string `json:"musicTheme" yaml:"musicTheme"`
}

// Area is a rectangular grid of tiles. It is immutable once loaded.
type Area struct {
	Width      int       `json:"width" yaml:"width"`
	Height     int       `json:"height" yaml:"height"`
	TileWidth  int       `json:"tileWidth" yaml:"tileWidth"`
	TileHeight int       `json:"tileHeight" yaml:"tileHeight"`
	Layers     []Layer   `json:"layers" yaml:"layers"`
	Tilesets   []Tileset `json:"tilesets" yaml:"tilesets"`
	Properties AreaProps `json:"properties" yaml:"properties"`
}

// Validate checks dimensions, layer sizes and tilesets.
func (a *Area) Validate() error {
	if a.Width <= 0 || a.Height <= 0 {
		return fmt.Errorf("%w: area size %dx%d", ErrInvalid, a.Width, a.Height)
	}
	if a.TileWidth <= 0 || a.TileHeight <= 0 {
		return fmt.Errorf("%w: area tile size %dx%d", ErrInvalid, a.TileWidth, a.TileHeight)
	}
	for _, l := range a.Layers {
		if len(l.Data) != a.Len() {
			return fmt.Errorf("%w: layer %q has %d tiles, want %d", ErrInvalid, l.Name, len(l.Data), a.Len())
		}
	}
	for i := range a.Tilesets {
		if err := a.Tilesets[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of cells in one layer.
func (a *Area) Len() int { return a.Width * a.Height }

// Contains reports whether i addresses a cell.
func (a *Area) Contains(i int) bool { return i >= 0 && i < a.Len() }

// PixelSize returns the size of the whole area in pixels.
func (a *Area) PixelSize() image.Point {
	return image.Pt(a.Width*a.TileWidth, a.Height*a.TileHeight)
}

// Offset returns the pixel position of the top-left corner of cell i.
func (a *Area) Offset(i int) image.Point {
	return image.Pt(i%a.Width*a.TileWidth, i/a.Width*a.TileHeight)
}

// IndexAt returns the cell containing pixel p.
func (a *Area) IndexAt(p image.Point) (int, bool) {
	if p.X < 0 || p.Y < 0 {
		return 0, false
	}
	x, y := p.X/a.TileWidth, p.Y/a.TileHeight
	if x >= a.Width || y >= a.Height {
		return 0, false
	}
	return y*a.Width + x, true
}

// Index returns the cell at column x, row y.
func (a *Area) Index(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= a.Width || y >= a.Height {
		return 0, false
	}
	return y*a.Width + x, true
}

// Neighbor returns the cell next to i in direction d, or false at the edge.
func (a *Area) Neighbor(i int, d command.Direction) (int, bool) {
	if !a.Contains(i) {
		return 0, false
	}
	dx, dy := d.Delta()
	if dx == 0 && dy == 0 {
		return 0, false
	}
	return a.Index(i%a.Width+dx, i/a.Width+dy)
}

// Walk yields the cells after i in direction d until the edge of the grid.
// The sequence is lazy and can be ranged over any number of times.
func (a *Area) Walk(i int, d command.Direction) iter.Seq[int] {
	return func(yield func(int) bool) {
		cur := i
		for {
			next, ok := a.Neighbor(cur, d)
			if !ok || !yield(next) {
				return
			}
			cur = next
		}
	}
}

// MetaLayer returns the layer flagged as meta, if any.
func (a *Area) MetaLayer() (*Layer, bool) {
	for i := range a.Layers {
		if a.Layers[i].Properties.IsMeta {
			return &a.Layers[i], true
		}
	}
	return nil, false
}

// MetaTileset returns the tileset flagged as meta, if any.
func (a *Area) MetaTileset() (*Tileset, bool) {
	for i := range a.Tilesets {
		if a.Tilesets[i].Properties.IsMeta {
			return &a.Tilesets[i], true
		}
	}
	return nil, false
}

// VisibleLayers yields the indices of every non-meta layer in draw order.
func (a *Area) VisibleLayers() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := range a.Layers {
			if a.Layers[i].Properties.IsMeta {
				continue
			}
			if !yield(i) {
				return
			}
		}
	}
}

// TilesetFor returns the graphics tileset owning global index i: the
// non-meta tileset with the highest first index not above i.
func (a *Area) TilesetFor(i int) (*Tileset, bool) {
	var best *Tileset
	for k := range a.Tilesets {
		ts := &a.Tilesets[k]
		if ts.Properties.IsMeta || !ts.Contains(i) {
			continue
		}
		if best == nil || ts.FirstIndex > best.FirstIndex {
			best = ts
		}
	}
	return best, best != nil
}
