package state

import (
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"
)

type entry struct {
	state    State
	modality Modality
}

// Stack holds game states and forwards frames to the exposed ones.
// Observers registered with OnChange run after every Push, Pop, Switch and
// Clear that changed the stack.
type Stack struct {
	entries   []entry
	observers []func()
	log       *zap.Logger
}

func NewStack(log *zap.Logger) *Stack {
	if log == nil {
		log = zap.NewNop()
	}
	return &Stack{log: log}
}

// OnChange registers fn to run after the stack changes.
func (s *Stack) OnChange(fn func()) {
	s.observers = append(s.observers, fn)
}

// Len returns the number of states on the stack.
func (s *Stack) Len() int { return len(s.entries) }

// Top returns the topmost state.
func (s *Stack) Top() (State, bool) {
	if len(s.entries) == 0 {
		return nil, false
	}
	return s.entries[len(s.entries)-1].state, true
}

// Exposed returns the exposed states, bottom first.
func (s *Stack) Exposed() []State {
	from := s.exposedFrom()
	out := make([]State, 0, len(s.entries)-from)
	for _, e := range s.entries[from:] {
		out = append(out, e.state)
	}
	return out
}

// Push obscures the exposed states and enters st on top of them. When Enter
// fails st is removed again, the obscured states are revealed and the error
// is returned.
func (s *Stack) Push(st State, m Modality) error {
	if err := s.push(st, m); err != nil {
		return err
	}
	s.changed()
	return nil
}

// Pop exits and removes the top state.
func (s *Stack) Pop() (State, error) {
	st, err := s.pop(true)
	if err != nil {
		return nil, err
	}
	s.changed()
	return st, nil
}

// Switch replaces the top state with st. On an empty stack it is a Push.
// The replaced state is returned, nil when there was none.
func (s *Stack) Switch(st State, m Modality) (State, error) {
	var prev State
	if len(s.entries) > 0 {
		prev, _ = s.pop(true)
	}
	err := s.push(st, m)
	s.changed()
	if err != nil {
		return prev, err
	}
	return prev, nil
}

// Clear exits every state from the top down.
func (s *Stack) Clear() {
	if len(s.entries) == 0 {
		return
	}
	for len(s.entries) > 0 {
		s.pop(false)
	}
	s.changed()
}

// Update runs Update on the exposed states, bottom first. States pushed
// during the pass wait for the next frame; states removed during the pass
// are skipped.
func (s *Stack) Update(dt time.Duration) {
	for _, st := range s.Exposed() {
		if !s.contains(st) {
			continue
		}
		if u, ok := st.(Updater); ok {
			u.Update(dt)
		}
	}
}

// Draw runs Draw on the exposed states, bottom first, so popups draw over
// their base.
func (s *Stack) Draw(dt time.Duration) {
	for _, st := range s.Exposed() {
		if !s.contains(st) {
			continue
		}
		if d, ok := st.(Drawer); ok {
			d.Draw(dt)
		}
	}
}

func (s *Stack) push(st State, m Modality) error {
	if st == nil {
		return fmt.Errorf("state: push nil state")
	}
	for _, e := range s.exposedEntries() {
		if o, ok := e.state.(Obscurer); ok {
			o.Obscure(m == Exclusive)
		}
	}
	at := len(s.entries)
	s.entries = append(s.entries, entry{state: st, modality: m})
	if err := st.Enter(); err != nil {
		if at < len(s.entries) && s.entries[at].state == st {
			s.entries = slices.Delete(s.entries, at, at+1)
		}
		s.reveal()
		s.log.Warn("state enter failed", zap.String("state", Name(st)), zap.Error(err))
		return fmt.Errorf("enter %s: %w", Name(st), err)
	}
	s.log.Debug("state pushed",
		zap.String("state", Name(st)),
		zap.Stringer("modality", m),
		zap.Int("depth", len(s.entries)))
	return nil
}

func (s *Stack) pop(reveal bool) (State, error) {
	if len(s.entries) == 0 {
		return nil, ErrEmptyStack
	}
	top := s.entries[len(s.entries)-1]
	top.state.Exit()
	s.entries = s.entries[:len(s.entries)-1]
	s.log.Debug("state popped", zap.String("state", Name(top.state)), zap.Int("depth", len(s.entries)))
	if reveal {
		s.reveal()
	}
	return top.state, nil
}

// reveal notifies the exposed states from the top down.
func (s *Stack) reveal() {
	exposed := s.exposedEntries()
	for i := len(exposed) - 1; i >= 0; i-- {
		if r, ok := exposed[i].state.(Revealer); ok {
			r.Reveal(i == len(exposed)-1)
		}
	}
}

func (s *Stack) exposedFrom() int {
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].modality == Exclusive {
			return i
		}
	}
	return 0
}

func (s *Stack) exposedEntries() []entry {
	return slices.Clone(s.entries[s.exposedFrom():])
}

func (s *Stack) contains(st State) bool {
	for _, e := range s.entries {
		if e.state == st {
			return true
		}
	}
	return false
}

func (s *Stack) changed() {
	for _, fn := range slices.Clone(s.observers) {
		fn()
	}
}
