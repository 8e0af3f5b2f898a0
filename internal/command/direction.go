package command

import "fmt"

// Direction is the facing of an entity on the grid.
type Direction uint8

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Directions lists every direction in declaration order.
var Directions = [...]Direction{DirUp, DirDown, DirLeft, DirRight}

// String returns the capitalised name used in animation names ("Up", ...).
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "Up"
	case DirDown:
		return "Down"
	case DirLeft:
		return "Left"
	case DirRight:
		return "Right"
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// Angle returns the heading in degrees, y axis pointing down.
// Panics on a value outside the enumeration.
func (d Direction) Angle() float64 {
	switch d {
	case DirUp:
		return 270
	case DirDown:
		return 90
	case DirLeft:
		return 180
	case DirRight:
		return 0
	}
	panic(fmt.Sprintf("command: angle of unknown %s", d))
}

// Command returns the bare direction flag for d.
// Panics on a value outside the enumeration.
func (d Direction) Command() Command {
	switch d {
	case DirUp:
		return Up
	case DirDown:
		return Down
	case DirLeft:
		return Left
	case DirRight:
		return Right
	}
	panic(fmt.Sprintf("command: flag of unknown %s", d))
}

// Delta returns the unit grid step for d as (dx, dy).
func (d Direction) Delta() (int, int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	}
	return 0, 0
}
