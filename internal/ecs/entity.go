package ecs

import (
	"fmt"
	"math/bits"
)

// EntityID uniquely identifies an entity in the world.
type EntityID uint64

// NilEntity is the zero value; no valid entity has this ID.
const NilEntity EntityID = 0

// ComponentType is a small integer key used to store/retrieve components.
// Values must stay below MaxComponentTypes.
type ComponentType uint8

// MaxComponentTypes bounds the number of distinct component types a Mask can
// describe.
const MaxComponentTypes = 64

// Component is implemented by every data struct stored in the world.
// Components with mutable state use pointer receivers so Type can be called
// on a nil value of the concrete type.
type Component interface {
	Type() ComponentType
}

// Mask is a set of component types.
type Mask uint64

// MaskOf builds a mask holding every listed type.
func MaskOf(types ...ComponentType) Mask {
	var m Mask
	for _, t := range types {
		m = m.With(t)
	}
	return m
}

// With returns m plus t.
func (m Mask) With(t ComponentType) Mask {
	if t >= MaxComponentTypes {
		panic(fmt.Sprintf("ecs: component type %d out of range", t))
	}
	return m | 1<<t
}

// Without returns m minus t.
func (m Mask) Without(t ComponentType) Mask {
	if t >= MaxComponentTypes {
		return m
	}
	return m &^ (1 << t)
}

// Contains reports whether t is in m.
func (m Mask) Contains(t ComponentType) bool {
	return t < MaxComponentTypes && m&(1<<t) != 0
}

// ContainsAll reports whether every type of o is in m.
func (m Mask) ContainsAll(o Mask) bool { return m&o == o }

// ContainsAny reports whether m and o share a type.
func (m Mask) ContainsAny(o Mask) bool { return m&o != 0 }

// Len returns the number of types in m.
func (m Mask) Len() int { return bits.OnesCount64(uint64(m)) }

// Aspect describes the entities a system processes: every type in All must be
// present and no type in Exclude may be.
type Aspect struct {
	All     Mask
	Exclude Mask
}

// All returns an aspect requiring every listed type.
func All(types ...ComponentType) Aspect {
	return Aspect{All: MaskOf(types...)}
}

// Excluding returns a copy of a that also rejects entities holding any of
// types.
func (a Aspect) Excluding(types ...ComponentType) Aspect {
	a.Exclude |= MaskOf(types...)
	return a
}

// Matches reports whether an entity with component set m qualifies.
func (a Aspect) Matches(m Mask) bool {
	return m.ContainsAll(a.All) && !m.ContainsAny(a.Exclude)
}
