package gamemap

import (
	"fmt"
	"image"
	"iter"

	"tilewalk/internal/command"
)

// Map is an Area prepared for movement queries: the meta layer is resolved
// to one TileType per cell up front.
type Map struct {
	area  *Area
	types []TileType
}

// NewMap validates a and resolves its meta layer. An area without a meta
// layer has no tile-type semantics and every cell is walkable.
func NewMap(a *Area) (*Map, error) {
	if a == nil {
		return nil, fmt.Errorf("%w: nil area", ErrInvalid)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	m := &Map{area: a}

	layer, hasLayer := a.MetaLayer()
	tileset, hasTileset := a.MetaTileset()
	switch {
	case !hasLayer && !hasTileset:
		return m, nil
	case !hasLayer:
		return nil, fmt.Errorf("%w: meta tileset %q without a meta layer", ErrInvalid, tileset.Name)
	case !hasTileset:
		return nil, fmt.Errorf("%w: meta layer %q without a meta tileset", ErrInvalid, layer.Name)
	}

	m.types = make([]TileType, len(layer.Data))
	for i, idx := range layer.Data {
		if idx == 0 || !tileset.Contains(idx) {
			m.types[i] = TileBlock
			continue
		}
		m.types[i] = tileset.TileType(idx)
	}
	return m, nil
}

// Area returns the underlying grid.
func (m *Map) Area() *Area { return m.area }

// HasTileTypes reports whether the map carries meta-layer semantics.
func (m *Map) HasTileTypes() bool { return m.types != nil }

// Offset returns the pixel position of cell i.
func (m *Map) Offset(i int) image.Point { return m.area.Offset(i) }

// TileType returns the type of cell i. Cells outside the grid are blocked;
// without meta semantics every cell is walkable.
func (m *Map) TileType(i int) TileType {
	if !m.area.Contains(i) {
		return TileBlock
	}
	if m.types == nil {
		return TileWalk
	}
	return m.types[i]
}

// Passable reports whether an entity on foot may enter cell i.
func (m *Map) Passable(i int) bool { return m.TileType(i).Walkable() }

// Neighbor returns the cell next to i in direction d, or false at the edge.
func (m *Map) Neighbor(i int, d command.Direction) (int, bool) {
	return m.area.Neighbor(i, d)
}

// Walk yields the cells after i in direction d until the edge of the grid.
func (m *Map) Walk(i int, d command.Direction) iter.Seq[int] {
	return m.area.Walk(i, d)
}
