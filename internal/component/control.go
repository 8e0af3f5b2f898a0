package component

import (
	"fmt"

	"tilewalk/internal/command"
	"tilewalk/internal/ecs"
)

const CControl ecs.ComponentType = 6

// Control connects an entity to a command source.
type Control struct {
	source command.Source
}

// NewControl wraps src, which must not be nil.
func NewControl(src command.Source) (*Control, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil command source", ErrInvalidArgument)
	}
	return &Control{source: src}, nil
}

func (*Control) Type() ecs.ComponentType { return CControl }

// IsCommandActivated implements command.Source.
func (c *Control) IsCommandActivated(cmd command.Command) bool {
	return c.source.IsCommandActivated(cmd)
}
