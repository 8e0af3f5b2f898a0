package component

import (
	"fmt"

	"tilewalk/internal/ecs"
	"tilewalk/internal/render"
)

const CTexture ecs.ComponentType = 3

// Texture references a loaded image. The content manager owns it.
type Texture struct {
	Texture render.Texture
}

// NewTexture wraps t, which must not be nil.
func NewTexture(t render.Texture) (*Texture, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil texture", ErrInvalidArgument)
	}
	return &Texture{Texture: t}, nil
}

func (*Texture) Type() ecs.ComponentType { return CTexture }
