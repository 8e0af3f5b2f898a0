package component

import (
	"fmt"

	"tilewalk/internal/ecs"
	"tilewalk/internal/gamemap"
	"tilewalk/internal/render"
)

const CArea ecs.ComponentType = 9

// Area marks an entity that draws a grid. Textures holds one texture per
// tileset of the grid, nil for meta tilesets.
type Area struct {
	Map      *gamemap.Map
	Textures []render.Texture
}

// NewArea checks that textures line up with the map's tilesets.
func NewArea(m *gamemap.Map, textures []render.Texture) (*Area, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil map", ErrInvalidArgument)
	}
	if len(textures) != len(m.Area().Tilesets) {
		return nil, fmt.Errorf("%w: %d textures for %d tilesets", ErrInvalidArgument, len(textures), len(m.Area().Tilesets))
	}
	return &Area{Map: m, Textures: textures}, nil
}

func (*Area) Type() ecs.ComponentType { return CArea }

// TextureFor returns the texture and tileset owning global tile index i.
func (a *Area) TextureFor(i int) (render.Texture, *gamemap.Tileset, bool) {
	ts, ok := a.Map.Area().TilesetFor(i)
	if !ok {
		return nil, nil, false
	}
	for k := range a.Map.Area().Tilesets {
		if &a.Map.Area().Tilesets[k] == ts && a.Textures[k] != nil {
			return a.Textures[k], ts, true
		}
	}
	return nil, nil, false
}
