// Package command defines the vocabulary of player intents shared by input
// bindings and the systems that consume them.
package command

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"
)

// Command is a set of intent flags: a movement verb, a direction and meta
// actions. Aliases combine one verb with one direction.
type Command uint16

const (
	None Command = 0

	Tap  Command = 1 << 0
	Walk Command = 1 << 1
	Run  Command = 1 << 2

	Up    Command = 1 << 3
	Down  Command = 1 << 4
	Left  Command = 1 << 5
	Right Command = 1 << 6

	Start Command = 1 << 7
	Exit  Command = 1 << 8

	TapUp    = Tap | Up
	TapDown  = Tap | Down
	TapLeft  = Tap | Left
	TapRight = Tap | Right

	WalkUp    = Walk | Up
	WalkDown  = Walk | Down
	WalkLeft  = Walk | Left
	WalkRight = Walk | Right

	RunUp    = Run | Up
	RunDown  = Run | Down
	RunLeft  = Run | Left
	RunRight = Run | Right
)

// directionMask covers every direction flag.
const directionMask = Up | Down | Left | Right

// ErrNoDirection is returned when a command carries no direction flag.
var ErrNoDirection = errors.New("command: no direction flag")

// Source reports whether a command is currently active. Implementations are
// queried several times per entity per frame and must not have side effects.
type Source interface {
	IsCommandActivated(c Command) bool
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func(c Command) bool

// IsCommandActivated calls f(c).
func (f SourceFunc) IsCommandActivated(c Command) bool { return f(c) }

// Has reports whether every flag in flag is set on c.
func (c Command) Has(flag Command) bool {
	return flag != None && c&flag == flag
}

// Direction resolves the direction flag of c. The first match in the order
// Up, Down, Left, Right wins.
func (c Command) Direction() (Direction, error) {
	switch {
	case c.Has(Up):
		return DirUp, nil
	case c.Has(Down):
		return DirDown, nil
	case c.Has(Left):
		return DirLeft, nil
	case c.Has(Right):
		return DirRight, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrNoDirection, c)
}

var names = []struct {
	flag Command
	name string
}{
	{Tap, "tap"},
	{Walk, "walk"},
	{Run, "run"},
	{Up, "up"},
	{Down, "down"},
	{Left, "left"},
	{Right, "right"},
	{Start, "start"},
	{Exit, "exit"},
}

// String renders the flags joined by underscores, e.g. "run_up".
func (c Command) String() string {
	if c == None {
		return "none"
	}
	var parts []string
	for _, n := range names {
		if c&n.flag != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "_")
}

// Parse converts a name such as "walk_left" or "start" into a Command.
func Parse(s string) (Command, error) {
	var c Command
	for _, part := range strings.Split(strings.ToLower(strings.TrimSpace(s)), "_") {
		found := false
		for _, n := range names {
			if n.name == part {
				c |= n.flag
				found = true
				break
			}
		}
		if !found {
			return None, fmt.Errorf("command: unknown flag %q in %q", part, s)
		}
	}
	if bits.OnesCount16(uint16(c&directionMask)) > 1 {
		return None, fmt.Errorf("command: %q names more than one direction", s)
	}
	return c, nil
}
