package ecs

import (
	"strconv"
	"time"
)

// Phase selects the pass of the frame loop a system runs in.
type Phase uint8

const (
	PhaseUpdate Phase = iota
	PhaseDraw
	phaseCount
)

func (p Phase) String() string {
	switch p {
	case PhaseUpdate:
		return "update"
	case PhaseDraw:
		return "draw"
	}
	return "phase(" + strconv.Itoa(int(p)) + ")"
}

// System processes every entity matching its aspect once per pass.
type System interface {
	Aspect() Aspect
	Process(w *World, id EntityID, dt time.Duration)
}

// PassBeginner is implemented by systems that need a hook before their first
// entity of a pass.
type PassBeginner interface {
	BeginPass(w *World, dt time.Duration)
}

// PassEnder is implemented by systems that need a hook after their last
// entity of a pass.
type PassEnder interface {
	EndPass(w *World, dt time.Duration)
}

// Func adapts a plain function to System.
type Func struct {
	Of Aspect
	Fn func(w *World, id EntityID, dt time.Duration)
}

// NewFunc returns a System running fn over entities matching aspect.
func NewFunc(aspect Aspect, fn func(w *World, id EntityID, dt time.Duration)) *Func {
	return &Func{Of: aspect, Fn: fn}
}

func (f *Func) Aspect() Aspect { return f.Of }

func (f *Func) Process(w *World, id EntityID, dt time.Duration) { f.Fn(w, id, dt) }

// Get returns the component of type T held by id. The zero T's Type method
// names the store, so T must be callable on its zero value.
func Get[T Component](w *World, id EntityID) (T, bool) {
	var zero T
	c, ok := w.Get(id, zero.Type()).(T)
	return c, ok
}

// Get2 fetches two components at once; ok is false unless both are present.
func Get2[A, B Component](w *World, id EntityID) (a A, b B, ok bool) {
	var okA, okB bool
	a, okA = Get[A](w, id)
	b, okB = Get[B](w, id)
	return a, b, okA && okB
}

// Get3 fetches three components at once; ok is false unless all are present.
func Get3[A, B, C Component](w *World, id EntityID) (a A, b B, c C, ok bool) {
	var okC bool
	a, b, ok = Get2[A, B](w, id)
	c, okC = Get[C](w, id)
	return a, b, c, ok && okC
}
