// Package state manages the stack of game states. States are either
// Exclusive, owning the frame, or Popup, overlaying the states below them.
// Only exposed states receive Update and Draw: walking down from the top,
// every state up to and including the first Exclusive one.
package state

import (
	"errors"
	"fmt"
	"time"
)

// ErrEmptyStack is returned when popping an empty stack.
var ErrEmptyStack = errors.New("state: stack is empty")

// Modality decides whether a state hides the states beneath it.
type Modality uint8

const (
	Exclusive Modality = iota
	Popup
)

func (m Modality) String() string {
	switch m {
	case Exclusive:
		return "exclusive"
	case Popup:
		return "popup"
	}
	return fmt.Sprintf("Modality(%d)", uint8(m))
}

// State is the lifecycle every game state has. Enter runs when the state is
// pushed; a failing Enter keeps the state off the stack. Exit runs exactly
// once when it is removed.
type State interface {
	Enter() error
	Exit()
}

// Updater is implemented by states that advance every frame while exposed.
type Updater interface {
	Update(dt time.Duration)
}

// Drawer is implemented by states that draw every frame while exposed.
type Drawer interface {
	Draw(dt time.Duration)
}

// Obscurer is told when a pushed state covers it. completely is true when
// the covering state is Exclusive.
type Obscurer interface {
	Obscure(completely bool)
}

// Revealer is told when the states covering it are popped. completely is
// true for the topmost revealed state only.
type Revealer interface {
	Reveal(completely bool)
}

// Funcs is a state assembled from optional handlers. Nil handlers do
// nothing.
type Funcs struct {
	Name      string
	OnEnter   func() error
	OnExit    func()
	OnObscure func(completely bool)
	OnReveal  func(completely bool)
	OnUpdate  func(dt time.Duration)
	OnDraw    func(dt time.Duration)
}

func (f *Funcs) String() string { return f.Name }

func (f *Funcs) Enter() error {
	if f.OnEnter == nil {
		return nil
	}
	return f.OnEnter()
}

func (f *Funcs) Exit() {
	if f.OnExit != nil {
		f.OnExit()
	}
}

func (f *Funcs) Obscure(completely bool) {
	if f.OnObscure != nil {
		f.OnObscure(completely)
	}
}

func (f *Funcs) Reveal(completely bool) {
	if f.OnReveal != nil {
		f.OnReveal(completely)
	}
}

func (f *Funcs) Update(dt time.Duration) {
	if f.OnUpdate != nil {
		f.OnUpdate(dt)
	}
}

func (f *Funcs) Draw(dt time.Duration) {
	if f.OnDraw != nil {
		f.OnDraw(dt)
	}
}

// Name returns a printable name for s.
func Name(s State) string {
	if n, ok := s.(fmt.Stringer); ok {
		return n.String()
	}
	return fmt.Sprintf("%T", s)
}
