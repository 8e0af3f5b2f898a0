package system

import (
	"time"

	"tilewalk/internal/component"
	"tilewalk/internal/ecs"
)

// Translation integrates velocities into positions. A velocity without
// speed is removed.
type Translation struct{}

func (Translation) Aspect() ecs.Aspect {
	return ecs.All(component.CTransform, component.CVelocity)
}

func (Translation) Process(w *ecs.World, id ecs.EntityID, dt time.Duration) {
	transform, velocity, ok := ecs.Get2[*component.Transform, *component.Velocity](w, id)
	if !ok {
		return
	}
	if !velocity.IsMoving() {
		w.Remove(id, component.CVelocity)
		w.Refresh(id)
		return
	}
	ms := float64(dt) / float64(time.Millisecond)
	transform.Position = transform.Position.Add(velocity.Step(ms))
}
