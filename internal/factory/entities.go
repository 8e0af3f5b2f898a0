// Package factory assembles entities from loaded resources.
package factory

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"tilewalk/internal/command"
	"tilewalk/internal/component"
	"tilewalk/internal/content"
	"tilewalk/internal/ecs"
	"tilewalk/internal/gamemap"
	"tilewalk/internal/render"
)

// ErrNoSpawn is returned when no walkable cell can host a character.
var ErrNoSpawn = errors.New("factory: no walkable spawn cell")

// AreaTextures loads the texture of every graphics tileset of a, in tileset
// order. Meta tilesets get a nil entry.
func AreaTextures(res *content.Manager, a *gamemap.Area) ([]render.Texture, error) {
	textures := make([]render.Texture, len(a.Tilesets))
	for i, ts := range a.Tilesets {
		if ts.Properties.IsMeta {
			continue
		}
		tex, err := res.Texture(ts.Image)
		if err != nil {
			return nil, fmt.Errorf("tileset %q: %w", ts.Name, err)
		}
		textures[i] = tex
	}
	return textures, nil
}

// SpawnIndex returns preferred when it is a walkable cell of m. A negative
// preferred picks the first walkable cell in row-major order.
func SpawnIndex(m *gamemap.Map, preferred int) (int, error) {
	if preferred >= 0 {
		if !m.Area().Contains(preferred) {
			return 0, fmt.Errorf("spawn %d: %w", preferred, gamemap.ErrOutOfRange)
		}
		if !m.Passable(preferred) {
			return 0, fmt.Errorf("%w: cell %d is %s", ErrNoSpawn, preferred, m.TileType(preferred))
		}
		return preferred, nil
	}
	for i := range m.Area().Len() {
		if m.Passable(i) {
			return i, nil
		}
	}
	return 0, ErrNoSpawn
}

// NewArea creates the entity that draws m at the world origin.
func NewArea(w *ecs.World, m *gamemap.Map, textures []render.Texture) (ecs.EntityID, error) {
	area, err := component.NewArea(m, textures)
	if err != nil {
		return ecs.NilEntity, err
	}
	id := w.CreateEntity()
	w.Add(id, &component.Transform{})
	w.Add(id, area)
	w.Refresh(id)
	return id, nil
}

// NewCharacter creates an animated entity idling on cell index of m. tex is
// the texture of the character's tileset.
func NewCharacter(w *ecs.World, c *content.Character, tex render.Texture, m *gamemap.Map, index int) (ecs.EntityID, error) {
	texture, err := component.NewTexture(tex)
	if err != nil {
		return ecs.NilEntity, err
	}
	tile, err := component.NewTile(m, index)
	if err != nil {
		return ecs.NilEntity, err
	}
	anim, err := component.NewAnimation(c.Animations)
	if err != nil {
		return ecs.NilEntity, err
	}

	sprite := component.NewSprite()
	sprite.Origin = c.Origin

	off := tile.Offset()
	id := w.CreateEntity()
	w.Add(id, &component.Transform{Position: mgl64.Vec2{float64(off.X), float64(off.Y)}})
	w.Add(id, texture)
	w.Add(id, sprite)
	w.Add(id, component.NewTileset(c.Tileset))
	w.Add(id, anim)
	w.Add(id, tile)
	w.Refresh(id)
	return id, nil
}

// NewPlayer creates a character driven by src.
func NewPlayer(w *ecs.World, c *content.Character, tex render.Texture, m *gamemap.Map, index int, src command.Source) (ecs.EntityID, error) {
	control, err := component.NewControl(src)
	if err != nil {
		return ecs.NilEntity, err
	}
	id, err := NewCharacter(w, c, tex, m, index)
	if err != nil {
		return ecs.NilEntity, err
	}
	w.Add(id, control)
	w.Add(id, &component.TagPlayer{})
	w.Refresh(id)
	return id, nil
}
