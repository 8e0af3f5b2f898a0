// Package system holds the per-frame systems of the explore world.
package system

import (
	"fmt"
	"image"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"tilewalk/internal/command"
	"tilewalk/internal/component"
	"tilewalk/internal/ecs"
)

const (
	// DefaultBaseSpeed is the walking speed in pixels per millisecond.
	DefaultBaseSpeed = 0.05
	// DefaultRunMultiplier scales the base speed while running.
	DefaultRunMultiplier = 1.8
)

// movementCommands are scanned in priority order: run beats walk beats tap,
// and within a verb the order is up, down, left, right.
var movementCommands = [...]command.Command{
	command.RunUp, command.RunDown, command.RunLeft, command.RunRight,
	command.WalkUp, command.WalkDown, command.WalkLeft, command.WalkRight,
	command.TapUp, command.TapDown, command.TapLeft, command.TapRight,
}

// TileMovement turns commands into movement between grid cells. An idle
// entity starts toward the neighbor in the commanded direction when that
// cell is walkable; a moving entity keeps going until its transform reaches
// the target cell. Tap commands only turn the entity.
type TileMovement struct {
	BaseSpeed     float64
	RunMultiplier float64
}

// NewTileMovement returns the system. Non-positive values select the
// defaults.
func NewTileMovement(baseSpeed, runMultiplier float64) *TileMovement {
	if baseSpeed <= 0 {
		baseSpeed = DefaultBaseSpeed
	}
	if runMultiplier <= 0 {
		runMultiplier = DefaultRunMultiplier
	}
	return &TileMovement{BaseSpeed: baseSpeed, RunMultiplier: runMultiplier}
}

func (m *TileMovement) Aspect() ecs.Aspect {
	return ecs.All(component.CControl, component.CTile)
}

func (m *TileMovement) Process(w *ecs.World, id ecs.EntityID, _ time.Duration) {
	control, tile, ok := ecs.Get2[*component.Control, *component.Tile](w, id)
	if !ok {
		return
	}
	state, dir := tile.State, tile.Direction

	if tile.State.IsMoving() {
		transform, ok := ecs.Get[*component.Transform](w, id)
		switch {
		case !ok || arrived(transform.Position, tile.Offset(), tile.Direction):
			tile.State = component.TileIdling
		case tile.State == component.TileMoving && control.IsCommandActivated(command.Run|tile.Direction.Command()):
			tile.State = component.TileRunning
		}
	}

	if tile.State == component.TileIdling {
		if cmd, ok := firstActive(control); ok {
			next, err := cmd.Direction()
			if err != nil {
				panic(err)
			}
			if cmd.Has(command.Run) || cmd.Has(command.Walk) {
				if target, ok := tile.Map.Neighbor(tile.Index, next); ok && tile.Map.Passable(target) {
					if tile.Direction != next {
						align(w, id, tile)
					}
					tile.State = component.TileMoving
					if cmd.Has(command.Run) {
						tile.State = component.TileRunning
					}
					tile.Index = target
				}
			}
			tile.Direction = next
		}
	}

	if tile.State != state || tile.Direction != dir {
		m.apply(w, id, tile)
	}
}

// apply brings the entity's other components in line with a new state or
// direction.
func (m *TileMovement) apply(w *ecs.World, id ecs.EntityID, tile *component.Tile) {
	switch tile.State {
	case component.TileMoving, component.TileRunning:
		w.Add(id, &component.Velocity{Speed: m.speed(tile.State), Angle: tile.Direction.Angle()})
	case component.TileIdling:
		w.Remove(id, component.CVelocity)
		align(w, id, tile)
	case component.TileFishing:
		w.Remove(id, component.CVelocity)
	default:
		panic(fmt.Sprintf("system: unknown tile state %d", tile.State))
	}
	w.Refresh(id)
}

func (m *TileMovement) speed(s component.TileState) float64 {
	if s == component.TileRunning {
		return m.BaseSpeed * m.RunMultiplier
	}
	return m.BaseSpeed
}

func firstActive(src command.Source) (command.Command, bool) {
	for _, cmd := range movementCommands {
		if src.IsCommandActivated(cmd) {
			return cmd, true
		}
	}
	return command.None, false
}

// align snaps the entity's transform onto its current cell.
func align(w *ecs.World, id ecs.EntityID, tile *component.Tile) {
	transform, ok := ecs.Get[*component.Transform](w, id)
	if !ok {
		return
	}
	off := tile.Offset()
	transform.Position = mgl64.Vec2{float64(off.X), float64(off.Y)}
}

// arrived compares only the axis of travel, so overshooting counts.
func arrived(pos mgl64.Vec2, dest image.Point, d command.Direction) bool {
	switch d {
	case command.DirUp:
		return pos.Y() <= float64(dest.Y)
	case command.DirDown:
		return pos.Y() >= float64(dest.Y)
	case command.DirLeft:
		return pos.X() <= float64(dest.X)
	case command.DirRight:
		return pos.X() >= float64(dest.X)
	}
	panic(fmt.Sprintf("system: unknown direction %d", d))
}
