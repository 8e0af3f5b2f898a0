package state

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// journal records every callback as "name:event".
type journal struct {
	events []string
}

func (j *journal) add(format string, args ...any) {
	j.events = append(j.events, fmt.Sprintf(format, args...))
}

func (j *journal) take() []string {
	out := j.events
	j.events = nil
	return out
}

func recorded(j *journal, name string) *Funcs {
	return &Funcs{
		Name:      name,
		OnEnter:   func() error { j.add("%s:enter", name); return nil },
		OnExit:    func() { j.add("%s:exit", name) },
		OnObscure: func(c bool) { j.add("%s:obscure(%t)", name, c) },
		OnReveal:  func(c bool) { j.add("%s:reveal(%t)", name, c) },
		OnUpdate:  func(time.Duration) { j.add("%s:update", name) },
		OnDraw:    func(time.Duration) { j.add("%s:draw", name) },
	}
}

func TestPopupOverExclusive(t *testing.T) {
	j := &journal{}
	s := NewStack(zap.NewNop())
	menu := recorded(j, "menu")
	popup := recorded(j, "popup")

	require.NoError(t, s.Push(menu, Exclusive))
	require.Equal(t, []string{"menu:enter"}, j.take())

	require.NoError(t, s.Push(popup, Popup))
	require.Equal(t, []string{"menu:obscure(false)", "popup:enter"}, j.take())

	s.Draw(time.Millisecond)
	require.Equal(t, []string{"menu:draw", "popup:draw"}, j.take(), "base draws first")
	s.Update(time.Millisecond)
	require.Equal(t, []string{"menu:update", "popup:update"}, j.take())
}

func TestPopEmptyStack(t *testing.T) {
	s := NewStack(nil)
	changes := 0
	s.OnChange(func() { changes++ })

	st, err := s.Pop()
	require.ErrorIs(t, err, ErrEmptyStack)
	require.Nil(t, st)
	require.Zero(t, s.Len())
	require.Zero(t, changes)
}

func TestExclusiveHidesEverythingBelow(t *testing.T) {
	j := &journal{}
	s := NewStack(nil)
	require.NoError(t, s.Push(recorded(j, "a"), Exclusive))
	require.NoError(t, s.Push(recorded(j, "b"), Popup))
	j.take()

	require.NoError(t, s.Push(recorded(j, "c"), Exclusive))
	require.Equal(t, []string{"a:obscure(true)", "b:obscure(true)", "c:enter"}, j.take())

	s.Update(0)
	s.Draw(0)
	require.Equal(t, []string{"c:update", "c:draw"}, j.take())

	popped, err := s.Pop()
	require.NoError(t, err)
	require.Equal(t, "c", Name(popped))
	require.Equal(t, []string{"c:exit", "b:reveal(true)", "a:reveal(false)"}, j.take())

	s.Draw(0)
	require.Equal(t, []string{"a:draw", "b:draw"}, j.take(), "previous exposure restored")
}

func TestExposureStopsAtFirstExclusive(t *testing.T) {
	s := NewStack(nil)
	j := &journal{}
	a, b, c, d := recorded(j, "a"), recorded(j, "b"), recorded(j, "c"), recorded(j, "d")
	require.NoError(t, s.Push(a, Exclusive))
	require.NoError(t, s.Push(b, Exclusive))
	require.NoError(t, s.Push(c, Popup))
	require.NoError(t, s.Push(d, Popup))
	require.Equal(t, []State{b, c, d}, s.Exposed())

	top, ok := s.Top()
	require.True(t, ok)
	require.Same(t, d, top)
}

func TestPopupOnEmptyStackIsExposed(t *testing.T) {
	j := &journal{}
	s := NewStack(nil)
	require.NoError(t, s.Push(recorded(j, "p"), Popup))
	require.NoError(t, s.Push(recorded(j, "q"), Popup))
	s.Draw(0)
	require.Equal(t, []string{"p:enter", "p:obscure(false)", "q:enter", "p:draw", "q:draw"}, j.take())
}

func TestSwitch(t *testing.T) {
	j := &journal{}
	s := NewStack(nil)
	changes := 0
	s.OnChange(func() { changes++ })

	prev, err := s.Switch(recorded(j, "menu"), Exclusive)
	require.NoError(t, err)
	require.Nil(t, prev, "switch on an empty stack is a push")

	prev, err = s.Switch(recorded(j, "explore"), Exclusive)
	require.NoError(t, err)
	require.Equal(t, "menu", Name(prev))
	require.Equal(t, 1, s.Len())
	require.Equal(t, []string{"menu:enter", "menu:exit", "explore:enter"}, j.take())
	require.Equal(t, 2, changes, "one notification per switch")
}

func TestMutationDuringUpdate(t *testing.T) {
	j := &journal{}
	s := NewStack(nil)
	base := recorded(j, "base")
	pushed := recorded(j, "pushed")
	base.OnUpdate = func(time.Duration) {
		j.add("base:update")
		require.NoError(t, s.Push(pushed, Popup))
	}
	require.NoError(t, s.Push(base, Exclusive))
	j.take()

	s.Update(0)
	require.Equal(t, []string{"base:update", "base:obscure(false)", "pushed:enter"}, j.take(),
		"a state pushed mid-pass waits for the next frame")

	// The popup pops itself and the base below it in one update.
	base.OnUpdate = func(time.Duration) { j.add("base:update") }
	pushed.OnUpdate = func(time.Duration) {
		j.add("pushed:update")
		_, _ = s.Pop()
		_, _ = s.Pop()
	}
	s.Update(0)
	require.Equal(t, []string{"base:update", "pushed:update", "pushed:exit", "base:reveal(true)", "base:exit"}, j.take())
	require.Zero(t, s.Len())
}

func TestStateRemovedMidPassIsSkipped(t *testing.T) {
	j := &journal{}
	s := NewStack(nil)
	base := recorded(j, "base")
	top := recorded(j, "top")
	require.NoError(t, s.Push(base, Exclusive))
	require.NoError(t, s.Push(top, Popup))
	base.OnUpdate = func(time.Duration) {
		j.add("base:update")
		_, _ = s.Pop()
	}
	j.take()

	s.Update(0)
	require.Equal(t, []string{"base:update", "top:exit", "base:reveal(true)"}, j.take())
}

func TestEnterFailure(t *testing.T) {
	j := &journal{}
	core, logs := observer.New(zapcore.DebugLevel)
	s := NewStack(zap.New(core))
	require.NoError(t, s.Push(recorded(j, "menu"), Exclusive))
	j.take()

	boom := errors.New("missing area")
	broken := recorded(j, "explore")
	broken.OnEnter = func() error { return boom }

	err := s.Push(broken, Exclusive)
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, s.Len())
	require.Equal(t, []string{"menu:obscure(true)", "menu:reveal(true)"}, j.take())
	require.Equal(t, 1, logs.FilterMessage("state enter failed").Len())

	s.Clear()
	require.Equal(t, []string{"menu:exit"}, j.take(), "the failed state never exits")
}

func TestClearExitsEachStateOnce(t *testing.T) {
	j := &journal{}
	s := NewStack(nil)
	changes := 0
	s.OnChange(func() { changes++ })
	require.NoError(t, s.Push(recorded(j, "a"), Exclusive))
	require.NoError(t, s.Push(recorded(j, "b"), Popup))
	require.NoError(t, s.Push(recorded(j, "c"), Exclusive))
	j.take()
	changes = 0

	s.Clear()
	require.Equal(t, []string{"c:exit", "b:exit", "a:exit"}, j.take())
	require.Equal(t, 1, changes)

	s.Clear()
	require.Empty(t, j.take())
	require.Equal(t, 1, changes)
}

type plain struct{}

func (*plain) Enter() error { return nil }
func (*plain) Exit()        {}

func TestOptionalCapabilities(t *testing.T) {
	s := NewStack(nil)
	p := &plain{}
	require.NoError(t, s.Push(p, Exclusive))
	require.NoError(t, s.Push(&plain{}, Popup))
	s.Update(0)
	s.Draw(0)
	_, err := s.Pop()
	require.NoError(t, err)
	require.Equal(t, "*state.plain", Name(p))
	require.Error(t, s.Push(nil, Exclusive))
}

func TestModalityString(t *testing.T) {
	require.Equal(t, "exclusive", Exclusive.String())
	require.Equal(t, "popup", Popup.String())
}
