package system

import (
	"time"

	"tilewalk/internal/command"
	"tilewalk/internal/component"
	"tilewalk/internal/ecs"
)

// Animation advances frames and copies the current frame into the entity's
// tileset and sprite.
type Animation struct{}

func (Animation) Aspect() ecs.Aspect {
	return ecs.All(component.CAnimation, component.CTileset)
}

func (Animation) Process(w *ecs.World, id ecs.EntityID, dt time.Duration) {
	anim, tileset, ok := ecs.Get2[*component.Animation, *component.Tileset](w, id)
	if !ok {
		return
	}
	anim.FrameTime += dt
	if anim.FrameTime > anim.Frame().Duration.Std() {
		anim.FrameTime = 0
		anim.NextFrame()
	}

	frame := anim.Frame()
	if sprite, ok := ecs.Get[*component.Sprite](w, id); ok {
		sprite.Effects = frame.Effects
	}
	tileset.Index = frame.TileIndex
}

// StateAnimation picks the animation matching an entity's movement state and
// facing, e.g. "WalkLeft". Entities lacking that animation keep the current
// one.
type StateAnimation struct{}

func (StateAnimation) Aspect() ecs.Aspect {
	return ecs.All(component.CTile, component.CAnimation)
}

func (StateAnimation) Process(w *ecs.World, id ecs.EntityID, _ time.Duration) {
	tile, anim, ok := ecs.Get2[*component.Tile, *component.Animation](w, id)
	if !ok {
		return
	}
	anim.SetName(AnimationName(tile.State, tile.Direction))
}

// AnimationName joins the verb of s with the name of d.
func AnimationName(s component.TileState, d command.Direction) string {
	return s.Verb() + d.String()
}
