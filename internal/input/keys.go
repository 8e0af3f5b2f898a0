package input

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"tilewalk/internal/command"
)

// KeyBinding activates a command while a key is held for at least Duration
// and, when Timeout is set, for less than Timeout.
type KeyBinding struct {
	Key      Key
	Mods     tcell.ModMask
	Duration time.Duration
	Timeout  time.Duration
}

// NewKeyBinding validates the hold window of a binding.
func NewKeyBinding(key Key, mods tcell.ModMask, duration, timeout time.Duration) (KeyBinding, error) {
	if duration < 0 || timeout < 0 {
		return KeyBinding{}, fmt.Errorf("%w: negative hold window", ErrInvalidBinding)
	}
	if timeout != 0 && timeout <= duration {
		return KeyBinding{}, fmt.Errorf("%w: timeout %v must exceed duration %v", ErrInvalidBinding, timeout, duration)
	}
	return KeyBinding{Key: key, Mods: mods, Duration: duration, Timeout: timeout}, nil
}

// DeviceKind implements Binding.
func (KeyBinding) DeviceKind() string { return KindKeyboard }

func (b KeyBinding) String() string {
	return FormatKey(b.Key, b.Mods)
}

var modNames = []struct {
	mod  tcell.ModMask
	name string
}{
	{tcell.ModShift, "shift"},
	{tcell.ModCtrl, "ctrl"},
	{tcell.ModAlt, "alt"},
	{tcell.ModMeta, "meta"},
}

var keysByName = func() map[string]tcell.Key {
	m := make(map[string]tcell.Key, len(tcell.KeyNames))
	for k, name := range tcell.KeyNames {
		m[strings.ToLower(name)] = k
	}
	m["space"] = tcell.KeyRune
	m["escape"] = tcell.KeyEscape
	m["return"] = tcell.KeyEnter
	return m
}()

// ParseKey parses names such as "w", "W", "Enter", "Shift+Up" or "ctrl+c".
// An upper case letter implies shift.
func ParseKey(s string) (Key, tcell.ModMask, error) {
	parts := strings.Split(strings.TrimSpace(s), "+")
	name := parts[len(parts)-1]
	var mods tcell.ModMask
	for _, p := range parts[:len(parts)-1] {
		found := false
		for _, m := range modNames {
			if strings.EqualFold(p, m.name) {
				mods |= m.mod
				found = true
				break
			}
		}
		if !found {
			return Key{}, 0, fmt.Errorf("%w: unknown modifier %q in %q", ErrInvalidBinding, p, s)
		}
	}
	if name == "" {
		return Key{}, 0, fmt.Errorf("%w: empty key in %q", ErrInvalidBinding, s)
	}

	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		if unicode.IsUpper(r) {
			r = unicode.ToLower(r)
			mods |= tcell.ModShift
		}
		if mods&tcell.ModCtrl != 0 && r >= 'a' && r <= 'z' {
			return Key{Code: tcell.KeyCtrlA + tcell.Key(r-'a')}, mods, nil
		}
		return Key{Code: tcell.KeyRune, Rune: r}, mods, nil
	}

	lower := strings.ToLower(name)
	code, ok := keysByName[lower]
	if !ok {
		return Key{}, 0, fmt.Errorf("%w: unknown key %q", ErrInvalidBinding, name)
	}
	if lower == "space" {
		return Key{Code: tcell.KeyRune, Rune: ' '}, mods, nil
	}
	return Key{Code: code}, mods, nil
}

// FormatKey renders a key in the form accepted by ParseKey.
func FormatKey(k Key, mods tcell.ModMask) string {
	var parts []string
	for _, m := range modNames {
		if mods&m.mod != 0 {
			parts = append(parts, strings.ToUpper(m.name[:1])+m.name[1:])
		}
	}
	switch {
	case k.Code == tcell.KeyRune && k.Rune == ' ':
		parts = append(parts, "Space")
	case k.Code == tcell.KeyRune:
		parts = append(parts, string(k.Rune))
	case k.Code >= tcell.KeyCtrlA && k.Code <= tcell.KeyCtrlZ:
		parts = append(parts, string(rune('a'+k.Code-tcell.KeyCtrlA)))
	default:
		name, ok := tcell.KeyNames[k.Code]
		if !ok {
			name = fmt.Sprintf("Key[%d]", k.Code)
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, "+")
}

// Timing holds the hold windows applied to movement bindings.
type Timing struct {
	// Walk is the minimum hold before walk and run commands activate.
	Walk time.Duration
	// Tap is the hold after which a tap command stops being active.
	Tap time.Duration
}

// DefaultTiming is the default movement timing.
var DefaultTiming = Timing{Walk: 100 * time.Millisecond, Tap: 80 * time.Millisecond}

// DefaultKeys returns the default key names per command name.
func DefaultKeys() map[string][]string {
	return map[string][]string{
		"exit":  {"Esc", "q"},
		"start": {"Enter", "Space"},

		"run_up":    {"W", "Shift+Up"},
		"run_down":  {"S", "Shift+Down"},
		"run_left":  {"A", "Shift+Left"},
		"run_right": {"D", "Shift+Right"},

		"walk_up":    {"w", "Up"},
		"walk_down":  {"s", "Down"},
		"walk_left":  {"a", "Left"},
		"walk_right": {"d", "Right"},

		"tap_up":    {"w", "Up"},
		"tap_down":  {"s", "Down"},
		"tap_left":  {"a", "Left"},
		"tap_right": {"d", "Right"},
	}
}

// BindKeys registers keys on b. Walk and run commands require holding for
// t.Walk, tap commands expire after t.Tap, and other commands are active as
// soon as the key is down. Walk bindings ignore shift, so a running key also
// walks.
func BindKeys(b *Binder, keys map[string][]string, t Timing) error {
	for name, list := range keys {
		cmd, err := command.Parse(name)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidBinding, err)
		}
		var duration, timeout time.Duration
		switch {
		case cmd.Has(command.Walk), cmd.Has(command.Run):
			duration = t.Walk
		case cmd.Has(command.Tap):
			timeout = t.Tap
		}
		for _, s := range list {
			key, mods, err := ParseKey(s)
			if err != nil {
				return fmt.Errorf("bind %s: %w", name, err)
			}
			kb, err := NewKeyBinding(key, mods, duration, timeout)
			if err != nil {
				return fmt.Errorf("bind %s: %w", name, err)
			}
			if err := b.Bind(cmd, kb); err != nil {
				return fmt.Errorf("bind %s: %w", name, err)
			}
		}
	}
	return nil
}
