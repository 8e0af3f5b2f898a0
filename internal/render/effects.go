package render

import (
	"fmt"
	"strings"
)

// Effects are mirroring flags applied when a sprite is drawn.
type Effects uint8

const (
	EffectNone       Effects = 0
	FlipHorizontally Effects = 1 << 0
	FlipVertically   Effects = 1 << 1
)

var effectNames = []struct {
	flag Effects
	name string
}{
	{FlipHorizontally, "flipHorizontally"},
	{FlipVertically, "flipVertically"},
}

func (e Effects) String() string {
	if e == EffectNone {
		return "none"
	}
	var parts []string
	for _, n := range effectNames {
		if e&n.flag != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// MarshalText encodes the flags as "none" or names joined by "|".
func (e Effects) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText decodes names joined by "|" or ",", case-insensitively.
func (e *Effects) UnmarshalText(b []byte) error {
	var out Effects
	fields := strings.FieldsFunc(string(b), func(r rune) bool { return r == '|' || r == ',' || r == ' ' })
	for _, f := range fields {
		if strings.EqualFold(f, "none") {
			continue
		}
		found := false
		for _, n := range effectNames {
			if strings.EqualFold(f, n.name) {
				out |= n.flag
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("render: unknown effect %q", f)
		}
	}
	*e = out
	return nil
}
