// Package input maps raw device state to command activation.
package input

import (
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// KindKeyboard is the device kind of the keyboard driver.
const KindKeyboard = "keyboard"

const (
	DefaultRepeatDelay = 600 * time.Millisecond
	DefaultRelease     = 150 * time.Millisecond
)

// Key identifies a physical key. Rune is only set for tcell.KeyRune and is
// always lower case; upper case runes are reported with tcell.ModShift.
type Key struct {
	Code tcell.Key
	Rune rune
}

// KeyOf returns the key and modifiers of a key event.
func KeyOf(ev *tcell.EventKey) (Key, tcell.ModMask) {
	mods := ev.Modifiers()
	if ev.Key() != tcell.KeyRune {
		return Key{Code: ev.Key()}, mods
	}
	r := ev.Rune()
	if unicode.IsUpper(r) {
		r = unicode.ToLower(r)
		mods |= tcell.ModShift
	}
	return Key{Code: tcell.KeyRune, Rune: r}, mods
}

type keyState struct {
	mods     tcell.ModMask
	held     time.Duration
	idle     time.Duration
	repeated bool
}

// Keyboard tracks how long keys have been held. Terminals only report key
// presses, so a key counts as down until no repeat event has arrived for the
// release window. The first gap uses the longer repeat delay, and a key that
// never repeated only satisfies bindings without a minimum hold.
type Keyboard struct {
	repeatDelay time.Duration
	release     time.Duration
	keys        map[Key]*keyState
}

// NewKeyboard returns a keyboard driver. Non-positive durations select the
// defaults.
func NewKeyboard(repeatDelay, release time.Duration) *Keyboard {
	if repeatDelay <= 0 {
		repeatDelay = DefaultRepeatDelay
	}
	if release <= 0 {
		release = DefaultRelease
	}
	return &Keyboard{
		repeatDelay: repeatDelay,
		release:     release,
		keys:        make(map[Key]*keyState),
	}
}

// Kind implements Driver.
func (k *Keyboard) Kind() string { return KindKeyboard }

// HandleEvent records a key press or repeat.
func (k *Keyboard) HandleEvent(ev *tcell.EventKey) {
	key, mods := KeyOf(ev)
	if st, ok := k.keys[key]; ok {
		st.idle = 0
		st.mods = mods
		st.repeated = true
		return
	}
	k.keys[key] = &keyState{mods: mods}
}

// Update advances hold times by dt and releases keys whose repeats stopped.
func (k *Keyboard) Update(dt time.Duration) {
	for key, st := range k.keys {
		st.held += dt
		st.idle += dt
		limit := k.release
		if !st.repeated {
			limit = k.repeatDelay
		}
		if st.idle > limit {
			delete(k.keys, key)
		}
	}
}

// Held returns how long key has been down.
func (k *Keyboard) Held(key Key) (time.Duration, bool) {
	st, ok := k.keys[key]
	if !ok {
		return 0, false
	}
	return st.held, true
}

// IsDown reports whether key is down with at least mods held.
func (k *Keyboard) IsDown(key Key, mods tcell.ModMask) bool {
	st, ok := k.keys[key]
	return ok && st.mods&mods == mods
}

// IsInputActive implements Driver. Bindings of other device kinds are never
// active.
func (k *Keyboard) IsInputActive(b Binding) bool {
	kb, ok := b.(KeyBinding)
	if !ok {
		return false
	}
	st, ok := k.keys[kb.Key]
	if !ok || st.mods&kb.Mods != kb.Mods {
		return false
	}
	if kb.Duration > 0 && !st.repeated {
		return false
	}
	if st.held < kb.Duration {
		return false
	}
	return kb.Timeout == 0 || st.held < kb.Timeout
}

// Reset releases every key.
func (k *Keyboard) Reset() {
	clear(k.keys)
}
