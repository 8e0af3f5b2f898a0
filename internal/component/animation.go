package component

import (
	"fmt"
	"time"

	"tilewalk/internal/content"
	"tilewalk/internal/ecs"
)

const CAnimation ecs.ComponentType = 7

// Animation plays named frame sequences. Setting a different name restarts
// at frame 0; setting the current name changes nothing.
type Animation struct {
	byName  map[string]*content.Animation
	current *content.Animation
	index   int

	// FrameTime is the time spent on the current frame.
	FrameTime time.Duration
}

// NewAnimation indexes anims by name and starts the first one.
func NewAnimation(anims []content.Animation) (*Animation, error) {
	if len(anims) == 0 {
		return nil, fmt.Errorf("%w: no animations", ErrInvalidArgument)
	}
	a := &Animation{byName: make(map[string]*content.Animation, len(anims))}
	for i := range anims {
		if len(anims[i].Frames) == 0 {
			return nil, fmt.Errorf("%w: animation %q has no frames", ErrInvalidArgument, anims[i].Name)
		}
		a.byName[anims[i].Name] = &anims[i]
	}
	a.current = &anims[0]
	return a, nil
}

func (*Animation) Type() ecs.ComponentType { return CAnimation }

// Name returns the active animation's name.
func (a *Animation) Name() string { return a.current.Name }

// Has reports whether an animation called name exists.
func (a *Animation) Has(name string) bool {
	_, ok := a.byName[name]
	return ok
}

// SetName activates the animation called name. It returns false, leaving
// the component untouched, when no such animation exists.
func (a *Animation) SetName(name string) bool {
	if name == a.current.Name {
		return true
	}
	next, ok := a.byName[name]
	if !ok {
		return false
	}
	a.current = next
	a.index = 0
	a.FrameTime = 0
	return true
}

// Index returns the current frame index.
func (a *Animation) Index() int { return a.index }

// SetIndex jumps to frame i of the active animation.
func (a *Animation) SetIndex(i int) error {
	if i < 0 || i >= len(a.current.Frames) {
		return fmt.Errorf("%w: frame %d of %q", ErrInvalidArgument, i, a.current.Name)
	}
	a.index = i
	return nil
}

// Frame returns the current frame.
func (a *Animation) Frame() content.Frame { return a.current.Frames[a.index] }

// Len returns the number of frames of the active animation.
func (a *Animation) Len() int { return len(a.current.Frames) }

// NextFrame advances one frame. Looping animations wrap; others hold the
// last frame.
func (a *Animation) NextFrame() {
	next := a.index + 1
	if next >= len(a.current.Frames) {
		if !a.current.Loops() {
			return
		}
		next = 0
	}
	a.index = next
}
