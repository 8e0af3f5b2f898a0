package component

import (
	"fmt"
	"image"

	"tilewalk/internal/command"
	"tilewalk/internal/ecs"
	"tilewalk/internal/gamemap"
)

const CTile ecs.ComponentType = 8

// TileState is the movement state of an entity on the grid.
type TileState uint8

const (
	TileIdling TileState = iota
	TileMoving
	TileRunning
	TileFishing
)

// Verb names the state in animation names: Idle, Walk, Run or Fish.
// Panics on a value outside the enumeration.
func (s TileState) Verb() string {
	switch s {
	case TileIdling:
		return "Idle"
	case TileMoving:
		return "Walk"
	case TileRunning:
		return "Run"
	case TileFishing:
		return "Fish"
	}
	panic(fmt.Sprintf("component: unknown tile state %d", uint8(s)))
}

// IsMoving reports whether the state travels between tiles.
func (s TileState) IsMoving() bool { return s == TileMoving || s == TileRunning }

func (s TileState) String() string {
	switch s {
	case TileIdling:
		return "idling"
	case TileMoving:
		return "moving"
	case TileRunning:
		return "running"
	case TileFishing:
		return "fishing"
	}
	return fmt.Sprintf("TileState(%d)", uint8(s))
}

// Tile places an entity on a grid cell.
type Tile struct {
	Map       *gamemap.Map
	Index     int
	State     TileState
	Direction command.Direction
}

// NewTile puts an idle entity facing down on cell index of m.
func NewTile(m *gamemap.Map, index int) (*Tile, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil map", ErrInvalidArgument)
	}
	if !m.Area().Contains(index) {
		return nil, fmt.Errorf("%w: tile %d", gamemap.ErrOutOfRange, index)
	}
	return &Tile{Map: m, Index: index, Direction: command.DirDown}, nil
}

func (*Tile) Type() ecs.ComponentType { return CTile }

// Offset returns the pixel position of the current cell.
func (t *Tile) Offset() image.Point { return t.Map.Offset(t.Index) }
