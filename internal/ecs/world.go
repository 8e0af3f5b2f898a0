package ecs

import (
	"slices"
	"time"
)

// World is the central entity registry and component store. It also owns the
// systems that run over its entities, one ordered list per Phase.
//
// Component mutations are visible through Get immediately, but system
// membership only follows an entity's component set as of its last Refresh.
// Pending refreshes are committed before each system runs.
type World struct {
	nextID     EntityID
	alive      map[EntityID]bool
	components map[ComponentType]map[EntityID]Component
	masks      map[EntityID]Mask
	committed  map[EntityID]Mask

	dirty    []EntityID
	dirtySet map[EntityID]bool

	phases [phaseCount][]*registration
}

type registration struct {
	system  System
	aspect  Aspect
	members []EntityID
	index   map[EntityID]bool
}

// NewWorld creates an empty World.
func NewWorld() *World {
	return &World{
		nextID:     1,
		alive:      make(map[EntityID]bool),
		components: make(map[ComponentType]map[EntityID]Component),
		masks:      make(map[EntityID]Mask),
		committed:  make(map[EntityID]Mask),
		dirtySet:   make(map[EntityID]bool),
	}
}

// CreateEntity mints a new entity ID and marks it alive.
func (w *World) CreateEntity() EntityID {
	id := w.nextID
	w.nextID++
	w.alive[id] = true
	return id
}

// DestroyEntity marks the entity dead and removes all its components. Its
// system memberships are dropped at the next dispatch boundary; until then
// the scheduler skips it.
func (w *World) DestroyEntity(id EntityID) {
	if !w.alive[id] {
		return
	}
	w.alive[id] = false
	for _, store := range w.components {
		delete(store, id)
	}
	delete(w.masks, id)
	w.Refresh(id)
}

// Alive reports whether the entity is alive.
func (w *World) Alive(id EntityID) bool {
	return w.alive[id]
}

// Len returns the number of alive entities.
func (w *World) Len() int {
	n := 0
	for _, ok := range w.alive {
		if ok {
			n++
		}
	}
	return n
}

// Add attaches a component to an entity, replacing any component of the same
// type. Adding to a dead entity is a no-op.
func (w *World) Add(id EntityID, c Component) {
	if !w.alive[id] || c == nil {
		return
	}
	t := c.Type()
	if w.components[t] == nil {
		w.components[t] = make(map[EntityID]Component)
	}
	w.components[t][id] = c
	w.masks[id] = w.masks[id].With(t)
}

// Get returns the component of the given type for entity id, or nil.
func (w *World) Get(id EntityID, t ComponentType) Component {
	store := w.components[t]
	if store == nil {
		return nil
	}
	return store[id]
}

// Remove detaches a component from an entity.
func (w *World) Remove(id EntityID, t ComponentType) {
	if store := w.components[t]; store != nil {
		delete(store, id)
	}
	if m, ok := w.masks[id]; ok {
		w.masks[id] = m.Without(t)
	}
}

// Has reports whether entity id has a component of the given type.
func (w *World) Has(id EntityID, t ComponentType) bool {
	return w.Get(id, t) != nil
}

// Mask returns the live component set of id.
func (w *World) Mask(id EntityID) Mask {
	return w.masks[id]
}

// Query returns all alive entities that have every listed component type.
// It reads live component sets and ignores pending refreshes.
func (w *World) Query(types ...ComponentType) []EntityID {
	if len(types) == 0 {
		return nil
	}
	want := MaskOf(types...)
	// Use the smallest store as the candidate set.
	smallest := types[0]
	for _, t := range types[1:] {
		if len(w.components[t]) < len(w.components[smallest]) {
			smallest = t
		}
	}
	store := w.components[smallest]
	if store == nil {
		return nil
	}
	var result []EntityID
	for id := range store {
		if w.alive[id] && w.masks[id].ContainsAll(want) {
			result = append(result, id)
		}
	}
	slices.Sort(result)
	return result
}

// Refresh queues id for re-evaluation of its system memberships. Repeated
// calls before the next dispatch boundary coalesce.
func (w *World) Refresh(id EntityID) {
	if id == NilEntity || w.dirtySet[id] {
		return
	}
	w.dirtySet[id] = true
	w.dirty = append(w.dirty, id)
}

// Pending reports how many entities wait for a membership commit.
func (w *World) Pending() int {
	return len(w.dirty)
}

// Commit applies every pending Refresh now. The scheduler calls it before
// each system runs.
func (w *World) Commit() {
	if len(w.dirty) == 0 {
		return
	}
	dirty := w.dirty
	w.dirty = nil
	clear(w.dirtySet)
	for _, id := range dirty {
		alive := w.alive[id]
		m := w.masks[id]
		for p := range w.phases {
			for _, r := range w.phases[p] {
				r.update(id, alive && r.aspect.Matches(m))
			}
		}
		if alive {
			w.committed[id] = m
		} else {
			delete(w.committed, id)
			delete(w.alive, id)
		}
	}
}

func (r *registration) update(id EntityID, member bool) {
	switch {
	case member && !r.index[id]:
		r.index[id] = true
		r.members = append(r.members, id)
	case !member && r.index[id]:
		delete(r.index, id)
		if i := slices.Index(r.members, id); i >= 0 {
			r.members = slices.Delete(r.members, i, i+1)
		}
	}
}

// AddSystem registers s to run during phase p after every system already
// registered there. Alive entities matching its aspect as of their last
// commit join it immediately.
func (w *World) AddSystem(p Phase, s System) {
	if p >= phaseCount {
		panic("ecs: unknown phase " + p.String())
	}
	r := &registration{
		system: s,
		aspect: s.Aspect(),
		index:  make(map[EntityID]bool),
	}
	ids := make([]EntityID, 0, len(w.committed))
	for id := range w.committed {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		r.update(id, r.aspect.Matches(w.committed[id]))
	}
	w.phases[p] = append(w.phases[p], r)
}

// Members returns the entities s currently processes, in visit order.
func (w *World) Members(s System) []EntityID {
	for _, regs := range w.phases {
		for _, r := range regs {
			if r.system == s {
				return slices.Clone(r.members)
			}
		}
	}
	return nil
}

// Update runs every PhaseUpdate system.
func (w *World) Update(dt time.Duration) { w.run(PhaseUpdate, dt) }

// Draw runs every PhaseDraw system.
func (w *World) Draw(dt time.Duration) { w.run(PhaseDraw, dt) }

func (w *World) run(p Phase, dt time.Duration) {
	regs := slices.Clone(w.phases[p])
	for _, r := range regs {
		w.Commit()
		if b, ok := r.system.(PassBeginner); ok {
			b.BeginPass(w, dt)
		}
		for _, id := range slices.Clone(r.members) {
			if !w.alive[id] {
				continue
			}
			r.system.Process(w, id, dt)
		}
		if e, ok := r.system.(PassEnder); ok {
			e.EndPass(w, dt)
		}
	}
}

// Clear destroys every entity and commits the removals. Systems stay
// registered.
func (w *World) Clear() {
	for id, ok := range w.alive {
		if ok {
			w.DestroyEntity(id)
		}
	}
	w.Commit()
}
